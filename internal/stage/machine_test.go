package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextHappyPath(t *testing.T) {
	steps := []struct {
		ev   Event
		want Status
	}{
		{EventTestGenerated, StatusTest1Ready},
		{EventMCQStarted, StatusTest1InProgress},
		{EventCodingStarted, StatusTest1InProgress},
		{EventMCQPassed, StatusTest1MCQPassed},
		{EventStage1Passed, StatusTest1Passed},
		{EventInterviewStarted, StatusTest2InProgress},
		{EventInterviewPassed, StatusCompleted},
	}

	s := StatusPending
	for _, st := range steps {
		next, err := Next(s, st.ev)
		require.NoError(t, err, "%s on %s", st.ev, s)
		assert.Equal(t, st.want, next)
		s = next
	}
	assert.True(t, s.Final())
}

func TestNextRejectsMissingEntries(t *testing.T) {
	tests := []struct {
		from Status
		ev   Event
	}{
		{StatusPending, EventMCQStarted},
		{StatusPending, EventInterviewStarted},
		{StatusTest1Ready, EventMCQPassed},
		{StatusTest1MCQPassed, EventTestGenerated},
		{StatusTest1Failed, EventInterviewStarted},
		{StatusCompleted, EventInterviewFailed},
		{StatusTest2Failed, EventTestGenerated},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := Next(tt.from, tt.ev)
			require.ErrorIs(t, err, ErrIllegalTransition)
			assert.Equal(t, tt.from, got)
			var te *TransitionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.ev, te.Event)
		})
	}
}

func TestCodingOutcome(t *testing.T) {
	assert.Equal(t, EventStage1Passed, CodingOutcome(true, true))
	assert.Equal(t, EventCodingPassed, CodingOutcome(true, false))
	assert.Equal(t, EventCodingFailed, CodingOutcome(false, true))
	assert.Equal(t, EventCodingFailed, CodingOutcome(false, false))
}

func TestMCQOutcomeIgnoresCoding(t *testing.T) {
	next, err := Next(StatusTest1CodingPassed, MCQOutcome(true))
	require.NoError(t, err)
	assert.Equal(t, StatusTest1MCQPassed, next)

	next, err = Next(StatusTest1CodingPassed, MCQOutcome(false))
	require.NoError(t, err)
	assert.Equal(t, StatusTest1Failed, next)
}

func TestTableUsesClosedVocabulary(t *testing.T) {
	for k, to := range table {
		assert.True(t, k.from.Valid(), "from %q", k.from)
		assert.True(t, to.Valid(), "to %q", to)
	}
	for _, s := range Statuses() {
		if s.Final() {
			assert.Empty(t, Events(s), "final status %s has outgoing events", s)
		}
	}
}

// Every path from pending to completed visits test1_ready.
func TestCompletedRequiresTest1Ready(t *testing.T) {
	seen := map[Status]bool{StatusPending: true}
	queue := []Status{StatusPending}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, ev := range Events(s) {
			next, err := Next(s, ev)
			require.NoError(t, err)
			if next == StatusTest1Ready || seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	assert.False(t, seen[StatusCompleted])
	assert.False(t, seen[StatusTest1InProgress])
	assert.Equal(t, map[Status]bool{StatusPending: true}, seen)
}

// Only generation ever re-enters an earlier status, and only as a self-loop.
func TestNoBackwardTransitions(t *testing.T) {
	rank := map[Status]int{
		StatusPending: 0, StatusTest1Ready: 1, StatusTest1InProgress: 2,
		StatusTest1MCQPassed: 3, StatusTest1CodingPassed: 3, StatusTest1Failed: 3,
		StatusTest1Passed: 4, StatusTest2InProgress: 5, StatusCompleted: 6, StatusTest2Failed: 6,
	}
	for k, to := range table {
		assert.GreaterOrEqual(t, rank[to], rank[k.from], "%s --%s--> %s", k.from, k.ev, to)
	}
}
