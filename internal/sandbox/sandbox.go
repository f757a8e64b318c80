// Package sandbox runs untrusted candidate programs as short-lived child
// processes. Isolation is a scratch directory and a wall-clock deadline;
// nothing more.
package sandbox

import (
	"context"
	"time"
)

type Kind string

const (
	Success      Kind = "success"
	RuntimeError Kind = "runtime_error"
	Timeout      Kind = "timeout"
)

// Outcome of one execution. Stdout is set for Success, Stderr for
// RuntimeError (compile failures and missing runtimes included).
type Outcome struct {
	Kind     Kind
	Stdout   string
	Stderr   string
	ExitCode int
	Elapsed  time.Duration
}

type Program struct {
	Source   string
	Language string
}

// Executor is the capability the judges depend on.
type Executor interface {
	Execute(ctx context.Context, p Program, stdin string, timeout time.Duration) Outcome
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, p Program, stdin string, timeout time.Duration) Outcome

func (f ExecutorFunc) Execute(ctx context.Context, p Program, stdin string, timeout time.Duration) Outcome {
	return f(ctx, p, stdin, timeout)
}
