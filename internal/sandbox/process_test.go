package sandbox

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yoockh/skillproctor/internal/logger"
)

func requireRuntime(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not installed", name)
	}
}

func TestLookupAliases(t *testing.T) {
	for tag, want := range map[string]string{"Python": "python", "py": "python", "JS": "javascript", "node": "javascript", "java": "java"} {
		l, ok := Lookup(tag)
		assert.True(t, ok, tag)
		assert.Equal(t, want, l.Name, tag)
	}
	_, ok := Lookup("cobol")
	assert.False(t, ok)
}

func TestUnsupportedLanguage(t *testing.T) {
	e := NewProcessExecutor(logger.Discard())
	out := e.Execute(context.Background(), Program{Source: "x", Language: "cobol"}, "", time.Second)
	assert.Equal(t, RuntimeError, out.Kind)
	assert.Contains(t, out.Stderr, "Unsupported language")
}

func TestMissingRuntime(t *testing.T) {
	e := NewProcessExecutor(logger.Discard())
	e.lookup = func(string) (string, error) { return "", errors.New("not found") }
	out := e.Execute(context.Background(), Program{Source: "print(1)", Language: "python"}, "", time.Second)
	assert.Equal(t, RuntimeError, out.Kind)
	assert.Contains(t, out.Stderr, "python3 runtime not available")
}

func TestPythonSuccessReadsStdin(t *testing.T) {
	requireRuntime(t, "python3")
	e := NewProcessExecutor(logger.Discard())
	src := "import sys\nnums = sys.stdin.read().split()\nprint(int(nums[0]) + int(nums[1]))\n"
	out := e.Execute(context.Background(), Program{Source: src, Language: "python"}, "2 3\n", 5*time.Second)
	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "5", strings.TrimSpace(out.Stdout))
}

func TestPythonRuntimeError(t *testing.T) {
	requireRuntime(t, "python3")
	e := NewProcessExecutor(logger.Discard())
	out := e.Execute(context.Background(), Program{Source: "raise ValueError('bad')", Language: "python"}, "", 5*time.Second)
	assert.Equal(t, RuntimeError, out.Kind)
	assert.NotZero(t, out.ExitCode)
	assert.Contains(t, out.Stderr, "ValueError")
}

func TestPythonTimeout(t *testing.T) {
	requireRuntime(t, "python3")
	e := NewProcessExecutor(logger.Discard())
	out := e.Execute(context.Background(), Program{Source: "while True:\n    pass\n", Language: "python"}, "", 300*time.Millisecond)
	assert.Equal(t, Timeout, out.Kind)
}

func TestCappedBuffer(t *testing.T) {
	b := &cappedBuffer{limit: 4}
	n, err := b.Write([]byte("abcdef"))
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
	_, _ = b.Write([]byte("gh"))
	assert.Equal(t, "abcd", b.String())
}
