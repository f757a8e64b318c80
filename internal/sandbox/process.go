package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const maxOutputBytes = 1 << 20

// ProcessExecutor runs programs with locally installed runtimes.
type ProcessExecutor struct {
	log     *logrus.Logger
	workDir string
	lookup  func(string) (string, error)
}

func NewProcessExecutor(log *logrus.Logger) *ProcessExecutor {
	return &ProcessExecutor{log: log, workDir: os.TempDir(), lookup: exec.LookPath}
}

func (e *ProcessExecutor) Execute(ctx context.Context, p Program, stdin string, timeout time.Duration) Outcome {
	lang, ok := Lookup(p.Language)
	if !ok {
		return Outcome{Kind: RuntimeError, ExitCode: -1, Stderr: fmt.Sprintf("Unsupported language: %s", p.Language)}
	}

	for _, step := range [][]string{lang.Compile, lang.Run} {
		if len(step) == 0 {
			continue
		}
		if _, err := e.lookup(step[0]); err != nil {
			return Outcome{Kind: RuntimeError, ExitCode: -1, Stderr: fmt.Sprintf("%s runtime not available on this server", step[0])}
		}
	}

	dir, err := os.MkdirTemp(e.workDir, "judge-*")
	if err != nil {
		e.log.WithError(err).Error("sandbox: create scratch dir")
		return Outcome{Kind: RuntimeError, ExitCode: -1, Stderr: "sandbox unavailable"}
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, lang.File)
	if err := os.WriteFile(file, []byte(p.Source), 0o600); err != nil {
		return Outcome{Kind: RuntimeError, ExitCode: -1, Stderr: "sandbox unavailable"}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	start := time.Now()

	if len(lang.Compile) > 0 {
		out := e.run(ctx, dir, expand(lang.Compile, dir, file), "")
		if out.Kind != Success {
			if out.Kind == RuntimeError {
				out.Stderr = "Compilation Error:\n" + out.Stderr
			}
			out.Elapsed = time.Since(start)
			return out
		}
	}

	out := e.run(ctx, dir, expand(lang.Run, dir, file), stdin)
	out.Elapsed = time.Since(start)

	e.log.WithFields(logrus.Fields{
		"language":   lang.Name,
		"outcome":    out.Kind,
		"exit_code":  out.ExitCode,
		"elapsed_ms": out.Elapsed.Milliseconds(),
	}).Debug("sandbox: executed")
	return out
}

func (e *ProcessExecutor) run(ctx context.Context, dir string, argv []string, stdin string) Outcome {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(stdin)
	cmd.WaitDelay = time.Second

	stdout := &cappedBuffer{limit: maxOutputBytes}
	stderr := &cappedBuffer{limit: maxOutputBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return Outcome{Kind: Timeout, ExitCode: -1, Stdout: stdout.String(), Stderr: stderr.String()}
	}

	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		msg := stderr.String()
		if msg == "" {
			msg = err.Error()
		}
		return Outcome{Kind: RuntimeError, ExitCode: code, Stdout: stdout.String(), Stderr: msg}
	}

	return Outcome{Kind: Success, Stdout: stdout.String(), Stderr: stderr.String()}
}

// cappedBuffer drops writes past limit but reports them as written, so a
// chatty program is not killed by a short write.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string { return b.buf.String() }
