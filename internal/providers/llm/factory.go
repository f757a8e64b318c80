package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Provider string // openai | vertex | anthropic | gemini
	Model    string
	APIKey   string
	BaseURL  string

	VertexProject  string
	VertexLocation string

	Timeout time.Duration
}

func ConfigFromEnv() Config {
	cfg := Config{
		Provider:       strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))),
		Model:          os.Getenv("LLM_MODEL"),
		APIKey:         os.Getenv("LLM_API_KEY"),
		BaseURL:        os.Getenv("LLM_BASE_URL"),
		VertexProject:  os.Getenv("VERTEX_PROJECT"),
		VertexLocation: os.Getenv("VERTEX_LOCATION"),
		Timeout:        120 * time.Second,
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.Provider == "openai" && cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

// NewProvider builds the configured vendor client wrapped in the
// generation timeout.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "openai":
		p, err = NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "vertex":
		if cfg.VertexProject == "" {
			return nil, fmt.Errorf("llm: VERTEX_PROJECT is required for the vertex provider")
		}
		loc := cfg.VertexLocation
		if loc == "" {
			loc = "us-central1"
		}
		p, err = NewVertexGemini(ctx, cfg.VertexProject, loc, cfg.Model)
	case "anthropic":
		p, err = NewAnthropic(cfg.APIKey, cfg.Model)
	case "gemini":
		p, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(p, cfg.Timeout), nil
}

type timeoutProvider struct {
	Provider
	d time.Duration
}

// WithTimeout caps every Generate call at d.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{Provider: p, d: d}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
