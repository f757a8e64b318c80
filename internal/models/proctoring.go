package models

import "time"

// Proctoring event types with a dedicated counter in the summary.
const (
	EventTabSwitch       = "tab_switch"
	EventFaceNotDetected = "face_not_detected"
	EventPhoneDetected   = "phone_detected"
	EventEyeMovement     = "eye_movement"
)

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// ProctoringEvent lives in mongo and is never updated.
type ProctoringEvent struct {
	ID          string    `bson:"_id" json:"id"`
	CandidateID string    `bson:"candidate_id" json:"candidate_id"`
	StageType   string    `bson:"stage_type" json:"stage_type"`
	SessionID   string    `bson:"session_id,omitempty" json:"session_id,omitempty"`
	EventType   string    `bson:"event_type" json:"event_type"`
	Details     string    `bson:"details,omitempty" json:"details,omitempty"`
	Severity    string    `bson:"severity" json:"severity"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}
