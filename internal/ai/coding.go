package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yoockh/skillproctor/internal/models"
)

var programmingSkills = map[string]bool{
	"python": true, "java": true, "javascript": true, "typescript": true, "c++": true, "c#": true,
	"go": true, "rust": true, "ruby": true, "php": true, "swift": true, "kotlin": true, "scala": true,
	"dsa": true, "data-structures": true, "algorithms": true,
}

// CodingProblems generates stdin/stdout problems for the candidate's
// programming skills, falling back to a fixed classic set.
func (g *Generator) CodingProblems(ctx context.Context, skills []string, count int) ([]models.Problem, bool) {
	var prog []string
	for _, s := range skills {
		if programmingSkills[strings.ToLower(s)] {
			prog = append(prog, s)
		}
	}
	if len(prog) == 0 {
		prog = head(skills, 3)
	}

	return GenerateOrFallback(ctx, g, PurposeCoding, codingRequest(prog, count),
		decodeProblems,
		FallbackProblems,
	)
}

func decodeProblems(text string) ([]models.Problem, error) {
	raw, ok := Extract(text, ArrayShape)
	if !ok {
		return nil, errors.New("no json array in response")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	out := make([]models.Problem, 0, len(items))
	for _, item := range items {
		if Validate("coding_problem", item) != nil {
			continue
		}
		var p models.Problem
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}
		p.ID = len(out) + 1
		if p.TimeLimitSeconds <= 0 {
			p.TimeLimitSeconds = 5
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("none of %d generated problems were usable", len(items))
	}
	return out, nil
}

func FallbackProblems() []models.Problem {
	return []models.Problem{
		{
			ID:    1,
			Title: "Two Sum",
			Description: "Given an array of integers nums and an integer target, return indices of the two numbers that add up to target.\n\n" +
				"Example:\nInput: nums = [2, 7, 11, 15], target = 9\nOutput: [0, 1]\nExplanation: nums[0] + nums[1] = 2 + 7 = 9",
			Difficulty:   "easy",
			SkillsTested: []string{"arrays", "hash-maps"},
			InputFormat:  "First line: space-separated integers (array)\nSecond line: target integer",
			OutputFormat: "Space-separated indices",
			SampleInput:  "2 7 11 15\n9",
			SampleOutput: "0 1",
			TestCases: []models.TestCase{
				{Input: "2 7 11 15\n9", ExpectedOutput: "0 1"},
				{Input: "3 2 4\n6", ExpectedOutput: "1 2"},
				{Input: "3 3\n6", ExpectedOutput: "0 1"},
			},
			TimeLimitSeconds: 5,
			Hints:            []string{"Try using a hash map", "Store complement values"},
		},
		{
			ID:    2,
			Title: "Valid Parentheses",
			Description: "Given a string containing just the characters '(', ')', '{', '}', '[' and ']', determine if the input string is valid.\n\n" +
				"An input string is valid if:\n1. Open brackets are closed by the same type of brackets.\n2. Open brackets are closed in the correct order.\n\n" +
				"Example:\nInput: '()[]{}'\nOutput: true",
			Difficulty:   "medium",
			SkillsTested: []string{"stacks", "string-processing"},
			InputFormat:  "A string of brackets",
			OutputFormat: "true or false",
			SampleInput:  "()[]{}",
			SampleOutput: "true",
			TestCases: []models.TestCase{
				{Input: "()", ExpectedOutput: "true"},
				{Input: "()[]{}", ExpectedOutput: "true"},
				{Input: "(]", ExpectedOutput: "false"},
			},
			TimeLimitSeconds: 5,
			Hints:            []string{"Use a stack data structure", "Push opening brackets, pop for closing"},
		},
		{
			ID:    3,
			Title: "Longest Substring Without Repeating Characters",
			Description: "Given a string s, find the length of the longest substring without repeating characters.\n\n" +
				"Example:\nInput: 'abcabcbb'\nOutput: 3\nExplanation: The answer is 'abc', with length 3.",
			Difficulty:   "hard",
			SkillsTested: []string{"sliding-window", "hash-maps"},
			InputFormat:  "A string",
			OutputFormat: "An integer",
			SampleInput:  "abcabcbb",
			SampleOutput: "3",
			TestCases: []models.TestCase{
				{Input: "abcabcbb", ExpectedOutput: "3"},
				{Input: "bbbbb", ExpectedOutput: "1"},
				{Input: "pwwkew", ExpectedOutput: "3"},
			},
			TimeLimitSeconds: 5,
			Hints:            []string{"Sliding window technique", "Use a set to track characters in current window"},
		},
	}
}
