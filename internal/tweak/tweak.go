// Package tweak is a registry of live-editable parameters: named float and
// bool bindings plus actions, grouped in folders, driven from the keyboard
// and persisted as TOML presets.
package tweak

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrUnknown is returned for a control name that was never bound.
var ErrUnknown = errors.New("tweak: unknown control")

// Kind tells what a control drives.
type Kind int

const (
	Float Kind = iota
	Bool
	Action
)

// Range bounds a float control. Values are clamped to [Min, Max] when
// Max > Min and snapped to multiples of Step from Min when Step > 0.
type Range struct {
	Min, Max, Step float64
}

func (rg Range) apply(v float64) float64 {
	if rg.Step > 0 {
		v = rg.Min + math.Round((v-rg.Min)/rg.Step)*rg.Step
	}
	if rg.Max > rg.Min {
		v = math.Max(rg.Min, math.Min(rg.Max, v))
	}
	return v
}

// Control is one bound parameter.
type Control struct {
	Folder string
	Label  string
	Kind   Kind
	Range  Range

	f  *float64
	b  *bool
	fn func()
}

// Name is "folder/label".
func (c *Control) Name() string {
	return c.Folder + "/" + c.Label
}

// Value formats the current value for display.
func (c *Control) Value() string {
	switch c.Kind {
	case Float:
		return strconv.FormatFloat(*c.f, 'f', 3, 64)
	case Bool:
		return strconv.FormatBool(*c.b)
	default:
		return "()"
	}
}

// Registry holds controls in binding order. It is not safe for concurrent
// use; drive it from the frame loop.
type Registry struct {
	// Hidden hides the text overlay. Bindings stay live.
	Hidden bool

	controls []*Control
	byName   map[string]*Control
	cursor   int
}

// New returns an empty, visible registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*Control)}
}

func (r *Registry) add(c *Control) *Control {
	if old, ok := r.byName[c.Name()]; ok {
		*old = *c
		return old
	}
	r.controls = append(r.controls, c)
	r.byName[c.Name()] = c
	return c
}

// BindFloat exposes *v. Rebinding a name replaces the earlier binding.
func (r *Registry) BindFloat(folder, label string, v *float64, rg Range) *Control {
	return r.add(&Control{Folder: folder, Label: label, Kind: Float, Range: rg, f: v})
}

// BindBool exposes *v.
func (r *Registry) BindBool(folder, label string, v *bool) *Control {
	return r.add(&Control{Folder: folder, Label: label, Kind: Bool, b: v})
}

// Action exposes fn as a triggerable button.
func (r *Registry) Action(folder, label string, fn func()) *Control {
	return r.add(&Control{Folder: folder, Label: label, Kind: Action, fn: fn})
}

// Controls returns the controls in binding order.
func (r *Registry) Controls() []*Control {
	return r.controls
}

// Lookup finds a control by "folder/label".
func (r *Registry) Lookup(name string) (*Control, bool) {
	c, ok := r.byName[name]
	return c, ok
}

func (r *Registry) lookup(name string, want Kind) (*Control, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	if c.Kind != want {
		return nil, fmt.Errorf("tweak: %s is not a %s control", name, want)
	}
	return c, nil
}

// SetFloat writes v, clamped and snapped, through the binding.
func (r *Registry) SetFloat(name string, v float64) error {
	c, err := r.lookup(name, Float)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("tweak: %s: non-finite value", name)
	}
	*c.f = c.Range.apply(v)
	return nil
}

// SetBool writes v through the binding.
func (r *Registry) SetBool(name string, v bool) error {
	c, err := r.lookup(name, Bool)
	if err != nil {
		return err
	}
	*c.b = v
	return nil
}

// Trigger runs an action.
func (r *Registry) Trigger(name string) error {
	c, err := r.lookup(name, Action)
	if err != nil {
		return err
	}
	if c.fn != nil {
		c.fn()
	}
	return nil
}

// Nudge moves a float by steps×Step (0.01 when the range has no step),
// flips a bool, or triggers an action.
func (r *Registry) Nudge(name string, steps int) error {
	c, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	switch c.Kind {
	case Float:
		step := c.Range.Step
		if step <= 0 {
			step = 0.01
		}
		*c.f = c.Range.apply(*c.f + float64(steps)*step)
	case Bool:
		*c.b = !*c.b
	case Action:
		if c.fn != nil {
			c.fn()
		}
	}
	return nil
}

// Select moves the keyboard cursor by delta, wrapping around.
func (r *Registry) Select(delta int) {
	n := len(r.controls)
	if n == 0 {
		return
	}
	r.cursor = ((r.cursor+delta)%n + n) % n
}

// Selected returns the control under the cursor, or nil when empty.
func (r *Registry) Selected() *Control {
	if len(r.controls) == 0 {
		return nil
	}
	return r.controls[r.cursor]
}

// Toggle flips Hidden.
func (r *Registry) Toggle() {
	r.Hidden = !r.Hidden
}

// Lines renders the registry as overlay text, one control per line with
// the selected one marked.
func (r *Registry) Lines() []string {
	lines := make([]string, 0, len(r.controls))
	for i, c := range r.controls {
		mark := "  "
		if i == r.cursor {
			mark = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%-28s %s", mark, c.Name(), c.Value()))
	}
	return lines
}

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Action:
		return "action"
	}
	return "unknown"
}
