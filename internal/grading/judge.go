package grading

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/sandbox"
)

type JudgeConfig struct {
	Timeout       time.Duration
	PreviewLen    int
	ErrPreviewLen int
}

func DefaultJudgeConfig() JudgeConfig {
	return JudgeConfig{Timeout: 10 * time.Second, PreviewLen: 100, ErrPreviewLen: 200}
}

// Judge runs a submission against every test case in order. Sandbox
// failures become per-case outcomes and never an error.
type Judge struct {
	exec sandbox.Executor
	cfg  JudgeConfig
}

func NewJudge(exec sandbox.Executor, cfg JudgeConfig) *Judge {
	def := DefaultJudgeConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.PreviewLen <= 0 {
		cfg.PreviewLen = def.PreviewLen
	}
	if cfg.ErrPreviewLen <= 0 {
		cfg.ErrPreviewLen = def.ErrPreviewLen
	}
	return &Judge{exec: exec, cfg: cfg}
}

func (j *Judge) Timeout() time.Duration { return j.cfg.Timeout }

func (j *Judge) Run(ctx context.Context, code, language string, cases []models.TestCase) models.Submission {
	sub := models.Submission{
		Code:       code,
		Language:   language,
		Results:    make([]models.CaseResult, 0, len(cases)),
		TotalCount: len(cases),
	}

	prog := sandbox.Program{Source: code, Language: language}
	for i, tc := range cases {
		r := j.judgeCase(ctx, prog, tc)
		r.TestCase = i + 1
		if r.Passed {
			sub.PassedCount++
		}
		sub.Results = append(sub.Results, r)
	}
	return sub
}

func (j *Judge) judgeCase(ctx context.Context, prog sandbox.Program, tc models.TestCase) models.CaseResult {
	expected := strings.TrimSpace(tc.ExpectedOutput)
	res := models.CaseResult{
		Input:    Truncate(tc.Input, j.cfg.PreviewLen),
		Expected: Truncate(expected, j.cfg.PreviewLen),
	}

	out := j.exec.Execute(ctx, prog, tc.Input, j.cfg.Timeout)
	switch out.Kind {
	case sandbox.Success:
		actual := strings.TrimSpace(out.Stdout)
		res.Actual = Truncate(actual, j.cfg.PreviewLen)
		if actual == expected {
			res.Outcome, res.Passed = models.OutcomePass, true
		} else {
			res.Outcome = models.OutcomeFail
		}
	case sandbox.Timeout:
		res.Outcome = models.OutcomeTimeout
		res.Actual = fmt.Sprintf("Time Limit Exceeded (%s)", j.cfg.Timeout)
		res.Error = res.Actual
	default:
		msg := strings.TrimSpace(out.Stderr)
		if msg == "" {
			msg = "Runtime Error"
		}
		res.Outcome = models.OutcomeRuntimeError
		res.Actual = Truncate(msg, j.cfg.ErrPreviewLen)
		res.Error = res.Actual
	}
	return res
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
