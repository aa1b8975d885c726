package pointer

import "github.com/go-gl/mathgl/mgl64"

// Tracker owns the process-wide pointer state. It is mutated only from the
// frame thread, so the last move before a frame wins.
type Tracker struct {
	viewport Viewport
	state    State

	clientX, clientY float64
	pressed          bool
	drag             mgl64.Vec2
}

// NewTracker returns a tracker for vp with the pointer at the viewport
// center.
func NewTracker(vp Viewport) *Tracker {
	t := &Tracker{viewport: vp}
	t.Move(vp.Width/2, vp.Height/2)
	return t
}

// Viewport returns the current viewport.
func (t *Tracker) Viewport() Viewport { return t.viewport }

// SetViewport replaces the viewport and re-derives the state from the last
// client position.
func (t *Tracker) SetViewport(vp Viewport) {
	t.viewport = vp
	if s, ok := Derive(t.clientX, t.clientY, vp); ok {
		t.state = s
	}
}

// Move records a pointer-move event. Non-finite input is dropped.
// While the primary button is held, the client-space delta accumulates as
// drag for orbit interaction.
func (t *Tracker) Move(clientX, clientY float64) State {
	s, ok := Derive(clientX, clientY, t.viewport)
	if !ok {
		return t.state
	}
	if t.pressed {
		t.drag = t.drag.Add(mgl64.Vec2{clientX - t.clientX, clientY - t.clientY})
	}
	t.clientX, t.clientY = clientX, clientY
	t.state = s
	return s
}

// Press and Release track the primary button for drag accumulation.
func (t *Tracker) Press()   { t.pressed = true }
func (t *Tracker) Release() { t.pressed = false }

// Pressed reports whether the primary button is held.
func (t *Tracker) Pressed() bool { return t.pressed }

// State returns the latest derived state.
func (t *Tracker) State() State { return t.state }

// Client returns the last accepted client position.
func (t *Tracker) Client() (float64, float64) { return t.clientX, t.clientY }

// TakeDrag returns the drag accumulated since the previous call and resets
// it.
func (t *Tracker) TakeDrag() mgl64.Vec2 {
	d := t.drag
	t.drag = mgl64.Vec2{}
	return d
}
