package timer

import (
	"errors"
	"strings"
)

// ErrUnknownAction is returned when an action name is not recognised.
var ErrUnknownAction = errors.New("unknown action")

// Action names a user action or timer event that may produce a new message.
type Action string

const (
	ActionIdle    Action = "idle"
	ActionStart   Action = "start"
	ActionPause   Action = "pause"
	ActionStop    Action = "stop"
	ActionReset   Action = "reset"
	ActionAsleep  Action = "asleep"
	ActionRunning Action = "running"
)

// Discrete reports whether the action is one of the user actions that always
// request a fresh message. pause and stop are the same action.
func (a Action) Discrete() bool {
	switch a {
	case ActionStart, ActionPause, ActionStop, ActionReset, ActionAsleep:
		return true
	default:
		return false
	}
}

// ClearsContext reports whether the action wipes the dedup key.
func (a Action) ClearsContext() bool {
	return a == ActionReset || a == ActionAsleep
}

// ParseAction normalises a raw action name.
func ParseAction(raw string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(raw))); a {
	case ActionIdle, ActionStart, ActionPause, ActionStop, ActionReset, ActionAsleep, ActionRunning:
		return a, nil
	default:
		return "", ErrUnknownAction
	}
}
