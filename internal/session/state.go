package session

import "fmt"

// Role is the part a player chose at startup.
type Role int

const (
	RoleHost Role = iota
	RolePeer
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RolePeer:
		return "peer"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole converts "host" or "peer" to a [Role].
func ParseRole(s string) (Role, error) {
	switch s {
	case "host":
		return RoleHost, nil
	case "peer":
		return RolePeer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// State is the position of the orchestrator in the session lifecycle.
type State int

const (
	ChoosingRole State = iota
	HostFirstRun
	HostReturning
	Peer
	SessionActive
	Saving
	Signing
	Loading
	Terminated
)

var stateNames = [...]string{
	ChoosingRole:  "ChoosingRole",
	HostFirstRun:  "HostFirstRun",
	HostReturning: "HostReturning",
	Peer:          "Peer",
	SessionActive: "SessionActive",
	Saving:        "Saving",
	Signing:       "Signing",
	Loading:       "Loading",
	Terminated:    "Terminated",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Purpose tells the prompter why a password is being asked for.
type Purpose int

const (
	PurposeCreateVault Purpose = iota
	PurposeVerifySignature
	PurposeSaveGame
	PurposeSignAndExit
	PurposeLoadGame
)

// Title is the heading shown above the password field.
func (p Purpose) Title() string {
	switch p {
	case PurposeCreateVault:
		return "Create a password to protect your keystore"
	case PurposeVerifySignature:
		return "Enter your password to verify the game"
	case PurposeSaveGame:
		return "Enter your password to save the game"
	case PurposeSignAndExit:
		return "Enter your password to sign the game before exiting"
	case PurposeLoadGame:
		return "Enter your password to load the saved game"
	default:
		return "Enter your password"
	}
}

// PromptRequest describes one password prompt.
type PromptRequest struct {
	Purpose Purpose

	// Error is the message of the previous failed attempt, empty on the
	// first attempt.
	Error string
}

// EventKind names a host action raised while the session is active.
type EventKind int

const (
	EventSave EventKind = iota
	EventExit
	EventGameOver
	EventWindowClose
	EventLoad
)

func (k EventKind) String() string {
	switch k {
	case EventSave:
		return "save"
	case EventExit:
		return "exit"
	case EventGameOver:
		return "game_over"
	case EventWindowClose:
		return "window_close"
	case EventLoad:
		return "load"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to [Orchestrator.Handle].
type Event struct {
	Kind EventKind

	// Winner is set for EventGameOver.
	Winner string
}
