// Package tween interpolates float64 properties over time. Every animated
// property has at most one track; starting a new track on a property
// supersedes the old one. Tracks are sampled explicitly once per frame.
package tween

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/mathutil"
)

// Options configures a track. A zero Ease means Power1Out.
type Options struct {
	Duration time.Duration
	Delay    time.Duration
	Ease     Ease
}

type track struct {
	prop     *float64
	from, to float64
	start    time.Duration
	opts     Options
	captured bool
}

// Animator owns all in-flight tracks. Not safe for concurrent use.
type Animator struct {
	tracks []*track
}

// NewAnimator returns an empty animator.
func NewAnimator() *Animator {
	return &Animator{}
}

func (a *Animator) find(prop *float64) int {
	for i, t := range a.tracks {
		if t.prop == prop {
			return i
		}
	}
	return -1
}

// To animates *prop towards to, starting at now. The start value is read
// when the delay elapses. It reports whether a new track was started: a
// call whose target equals the in-flight target on prop, or a call on an
// idle property already at to, is a no-op.
func (a *Animator) To(now time.Duration, prop *float64, to float64, opts Options) bool {
	if prop == nil || !mathutil.Finite(to) {
		return false
	}
	if i := a.find(prop); i >= 0 {
		if a.tracks[i].to == to {
			return false
		}
		a.tracks = append(a.tracks[:i], a.tracks[i+1:]...)
	} else if *prop == to && opts.Delay == 0 {
		return false
	}
	if opts.Ease == nil {
		opts.Ease = Power1Out
	}
	a.tracks = append(a.tracks, &track{prop: prop, to: to, start: now, opts: opts})
	return true
}

// ToVec3 animates each component of v.
func (a *Animator) ToVec3(now time.Duration, v *mgl64.Vec3, to mgl64.Vec3, opts Options) bool {
	started := false
	for i := 0; i < 3; i++ {
		started = a.To(now, &v[i], to[i], opts) || started
	}
	return started
}

// ToPose animates every channel of p towards to.
func (a *Animator) ToPose(now time.Duration, p *mathutil.Pose, to mathutil.Pose, opts Options) bool {
	started := false
	chans, vals := p.Channels(), to.Values()
	for i := range chans {
		started = a.To(now, chans[i], vals[i], opts) || started
	}
	return started
}

// Cancel drops the track on prop, leaving its current value.
func (a *Animator) Cancel(prop *float64) {
	if i := a.find(prop); i >= 0 {
		a.tracks = append(a.tracks[:i], a.tracks[i+1:]...)
	}
}

// Active reports whether prop has an in-flight track.
func (a *Animator) Active(prop *float64) bool {
	return a.find(prop) >= 0
}

// Target returns the in-flight target for prop.
func (a *Animator) Target(prop *float64) (float64, bool) {
	if i := a.find(prop); i >= 0 {
		return a.tracks[i].to, true
	}
	return 0, false
}

// Len returns the number of in-flight tracks.
func (a *Animator) Len() int {
	return len(a.tracks)
}

// Sample writes every track's value at now and drops finished tracks.
func (a *Animator) Sample(now time.Duration) {
	live := a.tracks[:0]
	for _, t := range a.tracks {
		begin := t.start + t.opts.Delay
		if now < begin {
			live = append(live, t)
			continue
		}
		if !t.captured {
			t.from = *t.prop
			t.captured = true
		}

		p := 1.0
		if t.opts.Duration > 0 {
			p = mathutil.Clamp(float64(now-begin)/float64(t.opts.Duration), 0, 1)
		}
		if p >= 1 {
			*t.prop = t.to
			continue
		}
		*t.prop = mathutil.Lerp(t.from, t.to, t.opts.Ease(p))
		live = append(live, t)
	}
	for i := len(live); i < len(a.tracks); i++ {
		a.tracks[i] = nil
	}
	a.tracks = live
}
