// Package ingest implements the sync workflow: validate the user's Steam
// app id, ask the backend to ingest it, then refresh the collection.
//
// The workflow is a pure state machine (Machine.Transition). Callers run
// the returned effects themselves: the TUI turns them into Bubble Tea
// commands, Controller runs them inline for the CLI.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abelbrown/gamedash/internal/model"
)

// State is a step of the sync workflow.
type State int

const (
	Idle State = iota
	Validating
	Requesting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Requesting:
		return "requesting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event drives a transition.
type Event interface{ isEvent() }

// Edit replaces the raw input text.
type Edit struct{ Input string }

// Submit asks to sync the current input.
type Submit struct{}

// Validate checks the input captured by Submit.
type Validate struct{}

// Completed reports the outcome of the ingestion request.
// Exactly one of Game or Err is meaningful: Err != nil means failure.
type Completed struct {
	Game model.Game
	Err  error
}

// Settle returns a finished workflow to Idle.
type Settle struct{}

func (Edit) isEvent()      {}
func (Submit) isEvent()    {}
func (Validate) isEvent()  {}
func (Completed) isEvent() {}
func (Settle) isEvent()    {}

// Effect is work the caller must perform after a transition.
type Effect interface{ isEffect() }

// Request asks the caller to POST the sync request for AppID and feed the
// result back as Completed.
type Request struct{ AppID string }

// Refresh asks the caller to reload the whole collection.
type Refresh struct{}

func (Request) isEffect() {}
func (Refresh) isEffect() {}

// Machine is the sync workflow state. The zero value is Idle with empty
// input. Machines are values; Transition never mutates its receiver.
type Machine struct {
	State   State
	Input   string  // raw text in the input field
	AppID   string  // trimmed id being requested, set while Requesting
	Message Message // last message surfaced to the user
}

// CanSubmit reports whether the submit control is enabled.
func (m Machine) CanSubmit() bool {
	return m.State == Idle
}

// InFlight reports whether a request is outstanding.
func (m Machine) InFlight() bool {
	return m.State == Requesting
}

// Transition applies ev and returns the next machine plus the effects to run.
// It is total: events that make no sense in the current state leave the
// machine unchanged and produce no effects.
func (m Machine) Transition(ev Event) (Machine, []Effect) {
	switch ev := ev.(type) {
	case Edit:
		m.Input = ev.Input
		return m, nil

	case Submit:
		if m.State != Idle {
			return m, nil
		}
		m.State = Validating
		return m, nil

	case Validate:
		if m.State != Validating {
			return m, nil
		}
		appID, err := ValidateInput(m.Input)
		if err != nil {
			m.State = Idle
			m.Message = MessageFor(err, "")
			return m, nil
		}
		m.State = Requesting
		m.AppID = appID
		return m, []Effect{Request{AppID: appID}}

	case Completed:
		if m.State != Requesting {
			return m, nil
		}
		if ev.Err != nil {
			m.State = Failed
			m.Message = MessageFor(ev.Err, m.AppID)
			return m, nil
		}
		m.State = Succeeded
		m.Message = Confirmation(ev.Game, m.AppID)
		m.Input = ""
		return m, []Effect{Refresh{}}

	case Settle:
		if m.State != Succeeded && m.State != Failed {
			return m, nil
		}
		m.State = Idle
		m.AppID = ""
		return m, nil
	}

	return m, nil
}

// ValidationError rejects input before any request is made.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ValidateInput trims input and checks that it is numeric. Any number is
// accepted, including negative and fractional ones; the backend decides
// whether the id exists. Returns the trimmed text.
func ValidateInput(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", &ValidationError{Input: input, Reason: "Please enter a Steam app id."}
	}
	if !isNumeric(trimmed) {
		return "", &ValidationError{Input: input, Reason: fmt.Sprintf("%q is not a number.", trimmed)}
	}
	return trimmed, nil
}

func isNumeric(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return !math.IsNaN(f)
	}
	if errors.Is(err, strconv.ErrRange) {
		return true
	}
	// Prefixed integers ("0x26c", "0b101") that ParseFloat rejects.
	_, err = strconv.ParseInt(s, 0, 64)
	return err == nil
}
