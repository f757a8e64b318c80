package ai

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var schemas = map[string]map[string]any{
	"mcq_question": {
		"type":     "object",
		"required": []any{"question", "options", "correct_answer"},
		"properties": map[string]any{
			"question":       map[string]any{"type": "string", "minLength": 1},
			"options":        map[string]any{"type": "array", "minItems": 4, "items": map[string]any{"type": "string"}},
			"correct_answer": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
		},
	},
	"coding_problem": {
		"type":     "object",
		"required": []any{"title", "description", "test_cases"},
		"properties": map[string]any{
			"title":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"test_cases": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"input"},
				},
			},
		},
	},
	"interview_question": {
		"type":     "object",
		"required": []any{"question"},
		"properties": map[string]any{
			"question":            map[string]any{"type": "string", "minLength": 1},
			"expected_key_points": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	},
	"interview_evaluation": {
		"type":     "object",
		"required": []any{"score"},
		"properties": map[string]any{
			"score": map[string]any{"type": "number"},
		},
	},
	"report_narrative": {
		"type":     "object",
		"required": []any{"overall_rating", "summary"},
		"properties": map[string]any{
			"overall_rating":   map[string]any{"type": "string"},
			"summary":          map[string]any{"type": "string"},
			"skill_assessment": map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "number"}},
		},
	},
}

var compiled sync.Map // name -> *jsonschema.Schema

// Validate checks raw against the named schema.
func Validate(name string, raw json.RawMessage) error {
	sch, err := schema(name)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func schema(name string) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*jsonschema.Schema), nil
	}
	def, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	// round-trip so the compiler sees plain decoded JSON values
	b, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	compiled.Store(name, s)
	return s, nil
}
