package grading

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/sandbox"
)

// scripted maps stdin to a canned outcome.
func scripted(m map[string]sandbox.Outcome) sandbox.Executor {
	return sandbox.ExecutorFunc(func(_ context.Context, _ sandbox.Program, stdin string, _ time.Duration) sandbox.Outcome {
		if out, ok := m[stdin]; ok {
			return out
		}
		return sandbox.Outcome{Kind: sandbox.Success}
	})
}

func TestJudgeTwoSum(t *testing.T) {
	exec := scripted(map[string]sandbox.Outcome{
		"2 7 11 15\n9": {Kind: sandbox.Success, Stdout: "0 1\n"},
	})
	j := NewJudge(exec, JudgeConfig{})

	sub := j.Run(context.Background(), "print('0 1')", "python", []models.TestCase{{Input: "2 7 11 15\n9", ExpectedOutput: "0 1"}})
	assert.Equal(t, 1, sub.PassedCount)
	assert.Equal(t, 1, sub.TotalCount)
	assert.True(t, sub.AllPassed())
	require.Len(t, sub.Results, 1)
	assert.Equal(t, models.OutcomePass, sub.Results[0].Outcome)
	assert.Equal(t, 1, sub.Results[0].TestCase)
}

func TestJudgeOutcomes(t *testing.T) {
	exec := scripted(map[string]sandbox.Outcome{
		"pass":  {Kind: sandbox.Success, Stdout: "  42  \n"},
		"fail":  {Kind: sandbox.Success, Stdout: "41"},
		"crash": {Kind: sandbox.RuntimeError, ExitCode: 1, Stderr: strings.Repeat("E", 500)},
		"empty": {Kind: sandbox.RuntimeError, ExitCode: 1},
		"slow":  {Kind: sandbox.Timeout},
	})
	j := NewJudge(exec, JudgeConfig{Timeout: 10 * time.Second})

	cases := []models.TestCase{
		{Input: "pass", ExpectedOutput: "42\n"},
		{Input: "fail", ExpectedOutput: "42"},
		{Input: "crash", ExpectedOutput: "42"},
		{Input: "empty", ExpectedOutput: "42"},
		{Input: "slow", ExpectedOutput: "42"},
	}
	sub := j.Run(context.Background(), "code", "python", cases)

	want := []models.CaseOutcome{models.OutcomePass, models.OutcomeFail, models.OutcomeRuntimeError, models.OutcomeRuntimeError, models.OutcomeTimeout}
	require.Len(t, sub.Results, len(want))
	for i, w := range want {
		assert.Equal(t, w, sub.Results[i].Outcome, "case %d", i+1)
		assert.Equal(t, w == models.OutcomePass, sub.Results[i].Passed, "case %d", i+1)
	}
	assert.Equal(t, 1, sub.PassedCount)
	assert.Equal(t, 5, sub.TotalCount)
	assert.LessOrEqual(t, sub.PassedCount, sub.TotalCount)

	assert.Len(t, sub.Results[2].Actual, 200)
	assert.Equal(t, "Runtime Error", sub.Results[3].Actual)
	assert.Equal(t, "Time Limit Exceeded (10s)", sub.Results[4].Actual)
}

func TestJudgeNumericOutputIsExact(t *testing.T) {
	exec := scripted(map[string]sandbox.Outcome{"x": {Kind: sandbox.Success, Stdout: "1.0"}})
	sub := NewJudge(exec, JudgeConfig{}).Run(context.Background(), "c", "python", []models.TestCase{{Input: "x", ExpectedOutput: "1"}})
	assert.Equal(t, models.OutcomeFail, sub.Results[0].Outcome)
}

func TestJudgeTruncatesPreviews(t *testing.T) {
	long := strings.Repeat("9", 300)
	exec := scripted(map[string]sandbox.Outcome{long: {Kind: sandbox.Success, Stdout: long}})
	sub := NewJudge(exec, JudgeConfig{}).Run(context.Background(), "c", "python", []models.TestCase{{Input: long, ExpectedOutput: long}})

	r := sub.Results[0]
	assert.Equal(t, models.OutcomePass, r.Outcome)
	assert.Len(t, r.Input, 100)
	assert.Len(t, r.Expected, 100)
	assert.Len(t, r.Actual, 100)
}

func TestJudgeDeterministic(t *testing.T) {
	exec := scripted(map[string]sandbox.Outcome{
		"a": {Kind: sandbox.Success, Stdout: "1"},
		"b": {Kind: sandbox.RuntimeError, Stderr: "boom"},
	})
	j := NewJudge(exec, JudgeConfig{})
	cases := []models.TestCase{{Input: "a", ExpectedOutput: "1"}, {Input: "b", ExpectedOutput: "2"}}

	first := j.Run(context.Background(), "c", "python", cases)
	second := j.Run(context.Background(), "c", "python", cases)
	assert.Equal(t, first.Results, second.Results)
}

func TestJudgeRealPython(t *testing.T) {
	if _, err := sandboxLookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}
	j := NewJudge(sandbox.NewProcessExecutor(discard()), JudgeConfig{Timeout: 5 * time.Second})
	src := "nums = list(map(int, input().split()))\ntarget = int(input())\nseen = {}\nfor i, n in enumerate(nums):\n    if target - n in seen:\n        print(seen[target - n], i)\n        break\n    seen[n] = i\n"
	cases := []models.TestCase{{Input: "2 7 11 15\n9", ExpectedOutput: "0 1"}, {Input: "3 2 4\n6", ExpectedOutput: "1 2"}}

	sub := j.Run(context.Background(), src, "python", cases)
	assert.Equal(t, 2, sub.PassedCount)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
