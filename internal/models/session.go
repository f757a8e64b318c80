package models

type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionInProgress SessionStatus = "in_progress"
	SessionPassed     SessionStatus = "passed"
	SessionFailed     SessionStatus = "failed"
	SessionCompleted  SessionStatus = "completed"
)

func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionPassed, SessionFailed, SessionCompleted:
		return true
	}
	return false
}

func PassFail(passed bool) SessionStatus {
	if passed {
		return SessionPassed
	}
	return SessionFailed
}
