// Package stt turns recorded interview answers into text.
package stt

import (
	"context"
	"errors"
)

var ErrNoSpeech = errors.New("no speech recognized")

type Audio struct {
	Data        []byte
	ContentType string
	Language    string
}

type Provider interface {
	Transcribe(ctx context.Context, a Audio) (text string, confidence float64, err error)
	Close() error
}
