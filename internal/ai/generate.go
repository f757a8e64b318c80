// Package ai wraps the text-generation provider with JSON extraction,
// validation and deterministic fallbacks, so no caller ever stalls on a bad
// generation.
package ai

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/metrics"
	"github.com/yoockh/skillproctor/internal/providers/llm"
)

// Generation purposes, used in logs and metrics.
const (
	PurposeMCQ               = "mcq"
	PurposeCoding            = "coding"
	PurposeInterviewQuestion = "interview_question"
	PurposeInterviewEval     = "interview_eval"
	PurposeReport            = "report"
)

var ErrNoProvider = errors.New("no text generation provider configured")

type Generator struct {
	provider llm.Provider
	log      *logrus.Logger
}

// NewGenerator accepts a nil provider; every call then uses its fallback.
func NewGenerator(p llm.Provider, log *logrus.Logger) *Generator {
	return &Generator{provider: p, log: log}
}

// GenerateOrFallback asks the provider, decodes the text and returns the
// result. Any failure along the way returns fallback() instead, with
// fellBack set.
func GenerateOrFallback[T any](ctx context.Context, g *Generator, purpose string, req llm.Request, decode func(text string) (T, error), fallback func() T) (out T, fellBack bool) {
	err := ErrNoProvider
	if g.provider != nil {
		var text string
		text, err = g.provider.Generate(ctx, req)
		if err == nil {
			out, err = decode(text)
			if err == nil {
				metrics.Generations.WithLabelValues(purpose, "ok").Inc()
				return out, false
			}
		}
	}

	metrics.Generations.WithLabelValues(purpose, "fallback").Inc()
	g.log.WithFields(logrus.Fields{
		"purpose": purpose,
		"error":   err.Error(),
	}).Warn("generation fell back")
	return fallback(), true
}
