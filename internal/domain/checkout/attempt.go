package checkout

import (
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
)

// State is the state of one checkout attempt
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateInvalid    State = "invalid"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
)

// IsTerminal reports whether no further transition is possible
func (s State) IsTerminal() bool {
	return s == StateCompleted
}

// CanTransitionTo checks if a transition to the target state is allowed
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateEditing:
		return target == StateValidating
	case StateValidating:
		return target == StateInvalid || target == StateSubmitting
	case StateInvalid:
		return target == StateEditing
	case StateSubmitting:
		return target == StateCompleted
	case StateCompleted:
		return false
	}
	return false
}

// Attempt tracks the states one checkout attempt went through
type Attempt struct {
	state   State
	history []State
}

// NewAttempt starts an attempt in the editing state
func NewAttempt() *Attempt {
	return &Attempt{state: StateEditing, history: []State{StateEditing}}
}

// State returns the current state
func (a *Attempt) State() State {
	return a.state
}

// History returns every state entered, in order
func (a *Attempt) History() []State {
	out := make([]State, len(a.history))
	copy(out, a.history)
	return out
}

// TransitionTo moves the attempt to the target state
func (a *Attempt) TransitionTo(target State) error {
	if !a.state.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move checkout from %s to %s", a.state, target))
	}
	a.state = target
	a.history = append(a.history, target)
	return nil
}

// Reject records a failed validation: validating -> invalid -> editing
func (a *Attempt) Reject() error {
	if err := a.TransitionTo(StateInvalid); err != nil {
		return err
	}
	return a.TransitionTo(StateEditing)
}
