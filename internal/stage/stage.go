// Package stage holds the candidate-level status vocabulary and the
// transition table that gates progression between assessment stages.
package stage

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusTest1Ready        Status = "test1_ready"
	StatusTest1InProgress   Status = "test1_in_progress"
	StatusTest1MCQPassed    Status = "test1_mcq_passed"
	StatusTest1CodingPassed Status = "test1_coding_passed"
	StatusTest1Passed       Status = "test1_passed"
	StatusTest1Failed       Status = "test1_failed"
	StatusTest2InProgress   Status = "test2_in_progress"
	StatusCompleted         Status = "completed"
	StatusTest2Failed       Status = "test2_failed"
)

var allStatuses = []Status{
	StatusPending, StatusTest1Ready, StatusTest1InProgress,
	StatusTest1MCQPassed, StatusTest1CodingPassed, StatusTest1Passed, StatusTest1Failed,
	StatusTest2InProgress, StatusCompleted, StatusTest2Failed,
}

// Statuses returns the closed status vocabulary in pipeline order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Final reports whether no event can move the candidate out of s.
func (s Status) Final() bool {
	return s == StatusCompleted || s == StatusTest2Failed
}

type Event string

const (
	EventTestGenerated Event = "test_generated"
	EventMCQStarted    Event = "mcq_started"
	EventMCQPassed     Event = "mcq_passed"
	EventMCQFailed     Event = "mcq_failed"
	EventCodingStarted Event = "coding_started"
	// EventStage1Passed: coding finished and the latest MCQ also passed.
	EventStage1Passed Event = "stage1_passed"
	// EventCodingPassed: coding finished and passed, MCQ did not.
	EventCodingPassed     Event = "coding_passed"
	EventCodingFailed     Event = "coding_failed"
	EventInterviewStarted Event = "interview_started"
	EventInterviewPassed  Event = "interview_passed"
	EventInterviewFailed  Event = "interview_failed"
)

var ErrIllegalTransition = errors.New("illegal stage transition")

// TransitionError carries the rejected pair.
type TransitionError struct {
	From  Status
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s on %s", ErrIllegalTransition, e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }
