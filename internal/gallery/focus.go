package gallery

import "card-gallery/internal/mathutil"

// CardID names one of the three cards. The numeric order is the stable
// order used for rendering and pick tie-breaks.
type CardID int

const (
	Center CardID = iota
	Left
	Right

	numCards = 3
)

// CardIDs lists the cards in stable order.
var CardIDs = [numCards]CardID{Center, Left, Right}

func (id CardID) String() string {
	switch id {
	case Center:
		return "center"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Focus is the gallery's interaction state. At most one card is focused
// because the state is a single value.
type Focus int

const (
	Neutral Focus = iota
	FocusedCenter
	FocusedLeft
	FocusedRight

	numFocus = 4
)

// FocusOn returns the state that focuses id.
func FocusOn(id CardID) Focus {
	return Focus(id + 1)
}

// Card returns the focused card, or false in Neutral.
func (f Focus) Card() (CardID, bool) {
	if f == Neutral {
		return 0, false
	}
	return CardID(f - 1), true
}

func (f Focus) String() string {
	if id, ok := f.Card(); ok {
		return "focused-" + id.String()
	}
	return "neutral"
}

// NextFocus is the click transition: a hit focuses that card (a no-op if
// it is already focused) and a miss returns to Neutral.
func NextFocus(cur Focus, hit CardID, ok bool) Focus {
	if !ok {
		return Neutral
	}
	return FocusOn(hit)
}

// Layout is the pose of every card in every focus state.
type Layout [numFocus][numCards]mathutil.Pose

// Pose returns the pose of card id in state f.
func (l *Layout) Pose(f Focus, id CardID) mathutil.Pose {
	return l[f][id]
}

// DefaultLayout is the stock choreography: a fanned row in Neutral, and
// the focused card brought forward and enlarged with the other two shrunk
// to the sides.
func DefaultLayout() Layout {
	var l Layout
	l[Neutral] = [numCards]mathutil.Pose{
		Center: mathutil.P(0, 0, 0.33, 0, 1),
		Left:   mathutil.P(-0.65, 0, 0.5, 0.5, 1),
		Right:  mathutil.P(0.65, 0, 0.5, -0.5, 1),
	}
	l[FocusedCenter] = [numCards]mathutil.Pose{
		Center: mathutil.P(0, 0, 0.4, 0, 1.6),
		Left:   mathutil.P(-1, 0, 0, 0, 0.5),
		Right:  mathutil.P(1, 0, 0, 0, 0.5),
	}
	l[FocusedLeft] = [numCards]mathutil.Pose{
		Center: mathutil.P(-1, 0, 0, 0, 0.5),
		Left:   mathutil.P(0, 0, 0.4, 0, 1.6),
		Right:  mathutil.P(1, 0, 0, 0, 0.5),
	}
	l[FocusedRight] = [numCards]mathutil.Pose{
		Center: mathutil.P(-1, 0, 0, 0, 0.5),
		Left:   mathutil.P(1, 0, 0, 0, 0.5),
		Right:  mathutil.P(0, 0, 0.4, 0, 1.6),
	}
	return l
}
