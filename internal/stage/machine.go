package stage

type key struct {
	from Status
	ev   Event
}

// table is the whole state machine. Anything missing is illegal.
// Self-loops model events that leave the candidate where it is (a second
// stage starting while stage one is already underway, a regenerated test
// before the candidate begins).
var table = map[key]Status{
	{StatusPending, EventTestGenerated}:    StatusTest1Ready,
	{StatusTest1Ready, EventTestGenerated}: StatusTest1Ready,

	{StatusTest1Ready, EventMCQStarted}:         StatusTest1InProgress,
	{StatusTest1InProgress, EventMCQStarted}:    StatusTest1InProgress,
	{StatusTest1CodingPassed, EventMCQStarted}:  StatusTest1CodingPassed,
	{StatusTest1Failed, EventMCQStarted}:        StatusTest1Failed,
	{StatusTest1Ready, EventCodingStarted}:      StatusTest1InProgress,
	{StatusTest1InProgress, EventCodingStarted}: StatusTest1InProgress,
	{StatusTest1MCQPassed, EventCodingStarted}:  StatusTest1MCQPassed,
	{StatusTest1Failed, EventCodingStarted}:     StatusTest1Failed,

	// MCQ outcome alone decides, whatever coding did before it.
	{StatusTest1InProgress, EventMCQPassed}:   StatusTest1MCQPassed,
	{StatusTest1CodingPassed, EventMCQPassed}: StatusTest1MCQPassed,
	{StatusTest1Failed, EventMCQPassed}:       StatusTest1MCQPassed,
	{StatusTest1InProgress, EventMCQFailed}:   StatusTest1Failed,
	{StatusTest1CodingPassed, EventMCQFailed}: StatusTest1Failed,
	{StatusTest1Failed, EventMCQFailed}:       StatusTest1Failed,

	{StatusTest1MCQPassed, EventStage1Passed}:  StatusTest1Passed,
	{StatusTest1InProgress, EventCodingPassed}: StatusTest1CodingPassed,
	{StatusTest1Failed, EventCodingPassed}:     StatusTest1CodingPassed,
	{StatusTest1InProgress, EventCodingFailed}: StatusTest1Failed,
	{StatusTest1MCQPassed, EventCodingFailed}:  StatusTest1Failed,
	{StatusTest1Failed, EventCodingFailed}:     StatusTest1Failed,

	{StatusTest1Passed, EventInterviewStarted}:     StatusTest2InProgress,
	{StatusTest2InProgress, EventInterviewStarted}: StatusTest2InProgress,
	{StatusTest2InProgress, EventInterviewPassed}:  StatusCompleted,
	{StatusTest2InProgress, EventInterviewFailed}:  StatusTest2Failed,
}

// Next returns the status reached from `from` on ev, or a *TransitionError.
func Next(from Status, ev Event) (Status, error) {
	to, ok := table[key{from, ev}]
	if !ok {
		return from, &TransitionError{From: from, Event: ev}
	}
	return to, nil
}

// Can reports whether ev is legal from `from`.
func Can(from Status, ev Event) bool {
	_, ok := table[key{from, ev}]
	return ok
}

// Events lists the legal events out of s.
func Events(s Status) []Event {
	var out []Event
	for k := range table {
		if k.from == s {
			out = append(out, k.ev)
		}
	}
	return out
}

// CodingOutcome picks the event for a finished coding stage given the
// latest MCQ result.
func CodingOutcome(codingPassed, mcqPassed bool) Event {
	switch {
	case codingPassed && mcqPassed:
		return EventStage1Passed
	case codingPassed:
		return EventCodingPassed
	default:
		return EventCodingFailed
	}
}

func MCQOutcome(passed bool) Event {
	if passed {
		return EventMCQPassed
	}
	return EventMCQFailed
}

func InterviewOutcome(passed bool) Event {
	if passed {
		return EventInterviewPassed
	}
	return EventInterviewFailed
}
