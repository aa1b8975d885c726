package tween

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"card-gallery/internal/mathutil"
)

func TestToSamplesAndFinishes(t *testing.T) {
	a := NewAnimator()
	v := 0.0

	require.True(t, a.To(0, &v, 10, Options{Duration: time.Second, Ease: Linear}))

	a.Sample(0)
	assert.Equal(t, 0.0, v)

	a.Sample(250 * time.Millisecond)
	assert.InDelta(t, 2.5, v, 1e-9)

	a.Sample(time.Second)
	assert.Equal(t, 10.0, v)
	assert.Equal(t, 0, a.Len())
}

func TestSupersede(t *testing.T) {
	a := NewAnimator()
	v := 0.0

	a.To(0, &v, 10, Options{Duration: time.Second, Ease: Linear})
	a.Sample(500 * time.Millisecond)
	require.InDelta(t, 5, v, 1e-9)

	// New target takes over from the current value.
	require.True(t, a.To(500*time.Millisecond, &v, 0, Options{Duration: time.Second, Ease: Linear}))
	assert.Equal(t, 1, a.Len())

	a.Sample(time.Second)
	assert.InDelta(t, 2.5, v, 1e-9)
	a.Sample(2 * time.Second)
	assert.Equal(t, 0.0, v)
}

func TestSameTargetIsNoop(t *testing.T) {
	a := NewAnimator()
	v := 0.0

	a.To(0, &v, 1, Options{Duration: time.Second, Ease: Linear})
	a.Sample(500 * time.Millisecond)
	assert.False(t, a.To(500*time.Millisecond, &v, 1, Options{Duration: time.Second, Ease: Linear}))

	a.Sample(time.Second)
	assert.Equal(t, 1.0, v, "first track must not restart")

	assert.False(t, a.To(2*time.Second, &v, 1, Options{Duration: time.Second}))
	assert.Equal(t, 0, a.Len())
}

func TestDelayCapturesLateStart(t *testing.T) {
	a := NewAnimator()
	v := 1.0

	a.To(0, &v, 0, Options{Duration: time.Second, Delay: 500 * time.Millisecond, Ease: Linear})
	v = 2 // written by someone else before the delay elapses

	a.Sample(250 * time.Millisecond)
	assert.Equal(t, 2.0, v)

	a.Sample(time.Second)
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestToPose(t *testing.T) {
	a := NewAnimator()
	p := mathutil.P(0, 0, 0.33, 0, 1)
	to := mathutil.P(0, 0, 0.4, 0, 1.6)

	require.True(t, a.ToPose(0, &p, to, Options{Duration: time.Second}))
	assert.Equal(t, 2, a.Len(), "only changed channels get tracks")

	a.Sample(time.Second)
	assert.Equal(t, to, p)
}

func TestEasingEndpoints(t *testing.T) {
	for name, e := range map[string]Ease{"linear": Linear, "power1out": Power1Out, "cubic": CubicInOut} {
		assert.InDelta(t, 0, e(0), 1e-12, name)
		assert.InDelta(t, 1, e(1), 1e-12, name)
	}
}
