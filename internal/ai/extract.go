package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Shape narrows what a strategy may return.
type Shape int

const (
	AnyShape Shape = iota
	ObjectShape
	ArrayShape
)

// Strategy tries to pull one JSON value out of model text.
type Strategy func(text string, shape Shape) (json.RawMessage, bool)

var (
	fenceRe  = regexp.MustCompile("```(?:json|JSON)?\\s*\\n?([\\s\\S]*?)\\n?```")
	arrayRe  = regexp.MustCompile(`\[[\s\S]*\]`)
	objectRe = regexp.MustCompile(`\{[\s\S]*\}`)
	commaRe  = regexp.MustCompile(`,\s*([\]}])`)
)

// Chain is tried in order; the first strategy that yields a value wins.
var Chain = []Strategy{FencedBlock, WholeText, BracketSpan}

// Extract runs Chain over text.
func Extract(text string, shape Shape) (json.RawMessage, bool) {
	for _, s := range Chain {
		if raw, ok := s(text, shape); ok {
			return raw, true
		}
	}
	return nil, false
}

func FencedBlock(text string, shape Shape) (json.RawMessage, bool) {
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return accept(m[1], shape)
}

func WholeText(text string, shape Shape) (json.RawMessage, bool) {
	return accept(text, shape)
}

// BracketSpan takes the widest [...] or {...} span; arrays are tried first
// unless an object is wanted.
func BracketSpan(text string, shape Shape) (json.RawMessage, bool) {
	var res []*regexp.Regexp
	switch shape {
	case ObjectShape:
		res = []*regexp.Regexp{objectRe}
	case ArrayShape:
		res = []*regexp.Regexp{arrayRe}
	default:
		res = []*regexp.Regexp{arrayRe, objectRe}
	}
	for _, re := range res {
		if span := re.FindString(text); span != "" {
			if raw, ok := accept(span, shape); ok {
				return raw, true
			}
		}
	}
	return nil, false
}

// accept validates s, retrying once with trailing commas removed.
func accept(s string, shape Shape) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	for _, cand := range []string{s, commaRe.ReplaceAllString(s, "$1")} {
		if json.Valid([]byte(cand)) && shapeOK(cand, shape) {
			return json.RawMessage(cand), true
		}
	}
	return nil, false
}

func shapeOK(s string, shape Shape) bool {
	switch shape {
	case ObjectShape:
		return s[0] == '{'
	case ArrayShape:
		return s[0] == '['
	default:
		return true
	}
}
