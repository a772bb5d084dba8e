// Package menu implements the navigation state machine behind the interactive session.
//
// A Navigator moves through Regions, Destinations, Attractions and the ForecastMenu.
// Each selection pushes the current state onto a stack so "back" returns to exactly
// where the user came from. Rendering the choices and loading their data is left to
// the caller, which reports how many options are on screen with SetOptions.
package menu

import (
	"fmt"
	"strconv"
	"strings"
)

// State is one screen of the session
type State int

const (
	Regions State = iota
	Destinations
	Attractions
	ForecastMenu
)

func (s State) String() string {
	switch s {
	case Regions:
		return "regions"
	case Destinations:
		return "destinations"
	case Attractions:
		return "attractions"
	case ForecastMenu:
		return "forecast"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// next is the state a selection leads to. The forecast menu selects views and stays put.
func (s State) next() State {
	if s == ForecastMenu {
		return ForecastMenu
	}
	return s + 1
}

// ActionKind classifies the result of handling one line of input
type ActionKind int

const (
	ActionSelect ActionKind = iota
	ActionBack
	ActionExit
	ActionInvalid
)

// Action is what the caller should do in response to input
type Action struct {
	Kind ActionKind
	// Index is the zero-based option chosen, set for ActionSelect
	Index int
	// Message explains why input was rejected, set for ActionInvalid
	Message string
}

const (
	CommandBack = "back"
	CommandExit = "exit"
)

// Navigator tracks the current state and the path taken to reach it
type Navigator struct {
	state   State
	stack   []State
	options int
}

// New returns a Navigator positioned at the region list
func New() *Navigator {
	return &Navigator{state: Regions}
}

// State returns the current state
func (n *Navigator) State() State {
	return n.state
}

// Depth returns how many states can be left with "back"
func (n *Navigator) Depth() int {
	return len(n.stack)
}

// SetOptions records how many numbered choices the current screen offers
func (n *Navigator) SetOptions(count int) {
	n.options = count
}

// Handle interprets one line of input. A valid selection advances the state; "back"
// pops it. Invalid input leaves the navigator unchanged.
func (n *Navigator) Handle(input string) Action {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "":
		return invalid("enter a number, 'back' or 'exit'")
	case CommandExit:
		return Action{Kind: ActionExit}
	case CommandBack:
		if len(n.stack) == 0 {
			return invalid("already at the first menu")
		}
		n.state = n.stack[len(n.stack)-1]
		n.stack = n.stack[:len(n.stack)-1]
		n.options = 0
		return Action{Kind: ActionBack}
	}

	choice, err := strconv.Atoi(input)
	if err != nil {
		return invalid(fmt.Sprintf("%q is not a number, 'back' or 'exit'", input))
	}
	if n.options == 0 {
		return invalid("there is nothing to choose here")
	}
	if choice < 1 || choice > n.options {
		return invalid(fmt.Sprintf("choose a number between 1 and %d", n.options))
	}

	if next := n.state.next(); next != n.state {
		n.stack = append(n.stack, n.state)
		n.state = next
		n.options = 0
	}

	return Action{Kind: ActionSelect, Index: choice - 1}
}

// ReturnTo unwinds the stack until target is the current state. It reports false and
// leaves the navigator unchanged when target was never visited.
func (n *Navigator) ReturnTo(target State) bool {
	if n.state == target {
		return true
	}
	for i := len(n.stack) - 1; i >= 0; i-- {
		if n.stack[i] == target {
			n.state = target
			n.stack = n.stack[:i]
			n.options = 0
			return true
		}
	}
	return false
}

func invalid(msg string) Action {
	return Action{Kind: ActionInvalid, Message: msg}
}
