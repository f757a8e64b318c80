// Package resume pulls contact details and a skill list out of an
// uploaded resume.
package resume

import (
	"context"
	"errors"
)

var ErrNoText = errors.New("could not extract text from resume")

type Profile struct {
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Skills          []string          `json:"skills"`
	GithubURL       string            `json:"github_url"`
	LinkedinURL     string            `json:"linkedin_url"`
	CodingPlatforms map[string]string `json:"coding_platforms"`
	Text            string            `json:"resume_text"`
}

type Extractor interface {
	Extract(ctx context.Context, data []byte) (Profile, error)
}

// KeywordExtractor reads PDF text and matches it against a fixed vocabulary.
type KeywordExtractor struct{}

func NewKeywordExtractor() *KeywordExtractor { return &KeywordExtractor{} }

func (KeywordExtractor) Extract(_ context.Context, data []byte) (Profile, error) {
	text, err := PDFText(data)
	if err != nil {
		return Profile{}, err
	}
	if text == "" {
		return Profile{}, ErrNoText
	}
	return Parse(text), nil
}
