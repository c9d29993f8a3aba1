package filelist

import (
	"fmt"
	"sync"

	"pdfmerge/internal/errors"
)

// Phase is the drag controller phase.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

// State is the drag controller state. Source and Hover are only
// meaningful while Dragging; Hover is -1 until an insertion point has
// been hovered.
type State struct {
	Phase  Phase
	Source int
	Hover  int
}

// IdleState is the resting state.
var IdleState = State{Phase: Idle, Source: -1, Hover: -1}

func (s State) String() string {
	if s.Phase == Idle {
		return "idle"
	}
	return fmt.Sprintf("dragging(%d, hover=%d)", s.Source, s.Hover)
}

// GestureKind names a pointer event over the list.
type GestureKind int

const (
	DragStart GestureKind = iota
	DragOver
	DropOnInsertion
	DropOnItem
	DragEnd
)

// Gesture is one pointer event. Source is the item being dragged as the
// presentation layer knows it; Index is an insertion point for DragOver
// and DropOnInsertion and an item for DragStart and DropOnItem.
type Gesture struct {
	Kind   GestureKind
	Source int
	Index  int
}

// Start begins dragging item i.
func Start(i int) Gesture { return Gesture{Kind: DragStart, Source: i, Index: i} }

// Over hovers insertion point p.
func Over(p int) Gesture { return Gesture{Kind: DragOver, Source: -1, Index: p} }

// DropAt drops source on insertion point p.
func DropAt(source, p int) Gesture { return Gesture{Kind: DropOnInsertion, Source: source, Index: p} }

// DropOn drops source on item j.
func DropOn(source, j int) Gesture { return Gesture{Kind: DropOnItem, Source: source, Index: j} }

// Cancel ends dragging source without a drop.
func Cancel(source int) Gesture { return Gesture{Kind: DragEnd, Source: source, Index: -1} }

// ActionKind is what the caller has to do after a step.
type ActionKind int

const (
	None ActionKind = iota
	Highlight
	Move
	Swap
)

// Action is the effect of a step. Highlight carries the insertion point
// in Index; Move and Swap carry the source and target.
type Action struct {
	Kind   ActionKind
	Source int
	Index  int
}

// Step is the drag state machine. It is pure: the list is mutated by
// whoever applies the returned action. Drops and cancels for a source
// other than the one being dragged are stale and ignored, as is a second
// DragStart while dragging.
func Step(s State, g Gesture) (State, Action) {
	if s.Phase == Idle {
		if g.Kind == DragStart {
			return State{Phase: Dragging, Source: g.Source, Hover: -1}, Action{}
		}
		return s, Action{}
	}

	switch g.Kind {
	case DragOver:
		if g.Index == s.Hover {
			return s, Action{}
		}
		s.Hover = g.Index
		return s, Action{Kind: Highlight, Source: s.Source, Index: g.Index}
	case DropOnInsertion:
		if g.Source != s.Source {
			return s, Action{}
		}
		return IdleState, Action{Kind: Move, Source: s.Source, Index: g.Index}
	case DropOnItem:
		if g.Source != s.Source {
			return s, Action{}
		}
		if g.Index == s.Source {
			return IdleState, Action{}
		}
		return IdleState, Action{Kind: Swap, Source: s.Source, Index: g.Index}
	case DragEnd:
		if g.Source != s.Source {
			return s, Action{}
		}
		return IdleState, Action{}
	}
	return s, Action{}
}

// Controller runs Step against a List while ordering mode is enabled.
type Controller struct {
	mu      sync.Mutex
	list    *List
	enabled bool
	state   State
}

// NewController returns a disabled controller for list.
func NewController(list *List) *Controller {
	return &Controller{list: list, state: IdleState}
}

// SetEnabled turns ordering mode on or off. Turning it off abandons any
// drag in progress.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	if !enabled {
		c.state = IdleState
	}
}

// Enabled reports whether ordering mode is on.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// State returns the current drag state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Handle feeds g to the state machine and applies the resulting move or
// swap to the list. It fails with ErrOrderingDisabled outside ordering
// mode.
func (c *Controller) Handle(g Gesture) (Action, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return Action{}, errors.ErrOrderingDisabled
	}

	next, action := Step(c.state, g)
	c.state = next
	switch action.Kind {
	case Move:
		return action, c.list.MoveToInsertionPoint(action.Source, action.Index)
	case Swap:
		return action, c.list.Swap(action.Source, action.Index)
	}
	return action, nil
}
