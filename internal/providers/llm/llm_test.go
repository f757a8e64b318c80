package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestSplit(t *testing.T) {
	req := Request{Messages: []Message{
		{Role: RoleSystem, Content: "be terse"},
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleSystem, Content: "json only"},
		{Role: RoleUser, Content: "q2"},
	}}
	assert.Equal(t, "be terse\n\njson only", req.System())
	conv := req.Conversation()
	require.Len(t, conv, 3)
	assert.Equal(t, "q2", conv[2].Content)
}

func TestMockProviderOrder(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockProvider(MockResponse{Text: "one"}, MockResponse{Err: boom})

	out, err := m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "one", out)

	_, err = m.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)

	_, err = m.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	m.Fallback = "again"
	out, err = m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "again", out)
	assert.Len(t, m.Calls(), 4)
}

type slowProvider struct{ MockProvider }

func (s *slowProvider) Generate(ctx context.Context, _ Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Second):
		return "late", nil
	}
}

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(&slowProvider{}, 20*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	inner := &slowProvider{}
	assert.Same(t, Provider(inner), WithTimeout(inner, 0))
}

func TestNewProviderRejectsUnknown(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)

	_, err = NewProvider(context.Background(), Config{Provider: "openai"})
	assert.Error(t, err, "missing api key")
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_BASE_URL", "")
	t.Setenv("LLM_TIMEOUT", "45s")
	cfg := ConfigFromEnv()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, DefaultOpenAIBaseURL, cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}
