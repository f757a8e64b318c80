package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/providers/llm"
)

const mcqSystem = `You are an expert technical interviewer. Generate multiple choice questions for a technical assessment.
Each question must be relevant to the candidate's skills and test practical knowledge.

Return ONLY a valid JSON array, no other text.
Each question object must have these exact fields:
- "id": number (1, 2, 3...)
- "question": string (the question text)
- "skill": string (which skill this tests)
- "difficulty": string ("easy", "medium", or "hard")
- "options": array of exactly 4 strings
- "correct_answer": number (0-3 index of correct option)
- "explanation": string (brief explanation of correct answer)`

const codingSystem = `You are an expert coding challenge designer. Generate coding problems for a technical assessment.
Programs read from standard input and write to standard output.

Return ONLY a valid JSON array. Each problem object must have:
- "id": number
- "title": string
- "description": string (clear problem statement with examples)
- "difficulty": "easy" | "medium" | "hard"
- "skills_tested": array of strings
- "input_format": string
- "output_format": string
- "sample_input": string
- "sample_output": string
- "test_cases": array of objects with "input" and "expected_output" strings
- "time_limit_seconds": number
- "hints": array of strings (2-3 hints)`

const interviewSystem = `You are a senior technical interviewer conducting an AI-powered interview.
Ask one focused, insightful question at a time. Your questions should:
1. Start with fundamental concepts and progressively get harder
2. Be based on the candidate's actual skills and experience
3. Follow up on previous answers
4. Test both theoretical knowledge and practical experience
5. Reference the candidate's projects or experience when relevant

Return a JSON object with:
- "question": string (the interview question)
- "category": string (skill category being tested)
- "difficulty": "easy" | "medium" | "hard"
- "expected_key_points": array of strings (key points a good answer should cover)
- "follow_up_context": string (why this question was chosen)`

const evaluationSystem = `You are a technical interview evaluator. Evaluate the candidate's answer objectively.

Return a JSON object with:
- "score": number (0-10)
- "feedback": string (constructive feedback)
- "strengths": array of strings
- "weaknesses": array of strings
- "key_points_covered": array of strings (which expected points were addressed)
- "suggestion": string (what could be improved)`

const reportSystem = `You are a hiring assessment analyst. Generate a comprehensive candidate evaluation report.

Return a JSON object with:
- "overall_rating": string ("Excellent" | "Good" | "Average" | "Below Average" | "Not Recommended")
- "summary": string (2-3 paragraph executive summary)
- "strengths": array of strings (top strengths)
- "areas_for_improvement": array of strings
- "skill_assessment": object with skill names as keys and ratings (1-10) as values
- "recommendation": string (detailed hiring recommendation)
- "interview_highlights": array of strings
- "concerns": array of strings (any red flags)
- "suggested_role_fit": array of strings (suitable roles)`

func mcqRequest(skills []string, count int) llm.Request {
	user := fmt.Sprintf(`Generate %d technical MCQ questions based on these skills: %s

Distribution:
- 30%% Easy questions (fundamentals)
- 50%% Medium questions (practical application)
- 20%% Hard questions (advanced concepts)

Make questions practical and real-world oriented. Cover different skills proportionally.
Return ONLY a valid JSON array.`, count, strings.Join(head(skills, 15), ", "))

	return llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleSystem, Content: mcqSystem}, {Role: llm.RoleUser, Content: user}},
		Temperature: 0.7,
		MaxTokens:   8000,
	}
}

func codingRequest(skills []string, count int) llm.Request {
	user := fmt.Sprintf(`Generate %d coding problems that test these skills: %s

Order them from easy (basic logic) through medium (data structures and algorithms) to hard (complex problem solving).
Each problem should have at least 3 test cases.
Return ONLY a valid JSON array.`, count, strings.Join(head(skills, 5), ", "))

	return llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleSystem, Content: codingSystem}, {Role: llm.RoleUser, Content: user}},
		Temperature: 0.7,
		MaxTokens:   6000,
	}
}

func interviewRequest(qc QuestionContext) llm.Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate Skills: %s\n", strings.Join(qc.Profile.Skills, ", "))
	if qc.Profile.GithubURL != "" {
		fmt.Fprintf(&b, "GitHub Profile: %s\n", qc.Profile.GithubURL)
	}
	if qc.Profile.LinkedinURL != "" {
		fmt.Fprintf(&b, "LinkedIn Profile: %s\n", qc.Profile.LinkedinURL)
	}
	if len(qc.Profile.CodingPlatforms) > 0 {
		if p, err := json.Marshal(qc.Profile.CodingPlatforms); err == nil {
			fmt.Fprintf(&b, "Coding Platform Profiles: %s\n", p)
		}
	}
	fmt.Fprintf(&b, "\nResume Summary (key parts):\n%s\n\n", clip(qc.Profile.ResumeText, 1500))
	fmt.Fprintf(&b, "Question %d of %d.\n\nPrevious Q&A Context:\n", qc.Number, qc.Total)
	if len(qc.History) == 0 {
		b.WriteString("This is the first question.\n")
	}
	for i, qa := range qc.History {
		answer, score := "", "N/A"
		if qa.Answer != nil {
			answer = *qa.Answer
		}
		if qa.Score != nil {
			score = fmt.Sprintf("%g", *qa.Score)
		}
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\nScore: %s/10\n", i+1, qa.Question, i+1, answer, score)
	}
	b.WriteString(`
Generate the next interview question. Make it progressively more challenging.
For early questions (1-3), ask foundational questions.
For middle questions (4-7), ask practical and project-based questions.
For later questions (8+), ask complex scenario-based questions.
Return ONLY valid JSON.`)

	return llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleSystem, Content: interviewSystem}, {Role: llm.RoleUser, Content: b.String()}},
		Temperature: 0.8,
		MaxTokens:   2000,
	}
}

func evaluationRequest(item models.QAItem, answer string) llm.Request {
	points, _ := json.Marshal(item.ExpectedKeyPoints)
	user := fmt.Sprintf(`Question: %s
Skill Category: %s

Expected Key Points: %s

Candidate's Answer: %s

Evaluate this answer. Be fair but thorough.
If the answer is empty or clearly irrelevant, give a low score.
Return ONLY valid JSON.`, item.Question, item.Category, points, answer)

	return llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleSystem, Content: evaluationSystem}, {Role: llm.RoleUser, Content: user}},
		Temperature: 0.3,
		MaxTokens:   2000,
	}
}

func reportRequest(in NarrativeInput) llm.Request {
	skills, _ := json.Marshal(in.Skills)
	highlights, _ := json.Marshal(in.Highlights)
	p := in.Proctoring
	user := fmt.Sprintf(`Candidate: %s
Skills: %s

MCQ Test Results:
- Correct: %d/%d
- Percentage: %.1f%%
- Passed: %t

Coding Test Results:
- Problems Attempted: %d/%d
- Score: %.1f%%
- Passed: %t

AI Interview Results:
- Average Score: %.1f/10
- Questions Answered: %d/%d
- Passed: %t
- Key Q&A highlights: %s

Proctoring Summary:
- Total Violations: %d
- Tab Switches: %d
- Face Not Detected Count: %d
- Phone Detected Count: %d
- Eye Movement Violations: %d

Generate a comprehensive report. Return ONLY valid JSON.`,
		in.Name, skills,
		in.MCQCorrect, in.MCQTotal, in.MCQScore, in.MCQPassed,
		in.CodingAttempted, in.CodingTotal, in.CodingScore, in.CodingPassed,
		in.InterviewScore, in.InterviewAnswered, in.InterviewTotal, in.InterviewPassed, highlights,
		p.TotalViolations, p.TabSwitches, p.FaceNotDetected, p.PhoneDetected, p.EyeViolations)

	return llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleSystem, Content: reportSystem}, {Role: llm.RoleUser, Content: user}},
		Temperature: 0.5,
		MaxTokens:   4000,
	}
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
