package domain

import "time"

// SessionTransition names a move of the login state machine.
type SessionTransition string

const (
	TransitionLogin  SessionTransition = "login"
	TransitionLogout SessionTransition = "logout"
)

// OutcomeOK marks a successful transition in the session event log.
const OutcomeOK = "ok"

// SessionEvent records one login or logout attempt.
type SessionEvent struct {
	UserID     uint64
	Transition SessionTransition
	Outcome    string
	OccurredAt time.Time
}
