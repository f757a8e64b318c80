// Package report folds the latest session of every stage into one
// gated verdict.
package report

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/yoockh/skillproctor/internal/ai"
	"github.com/yoockh/skillproctor/internal/grading"
	"github.com/yoockh/skillproctor/internal/interview"
	"github.com/yoockh/skillproctor/internal/models"
)

const (
	highlightCount = 5
	highlightLen   = 100
)

// Inputs are the latest session per stage. Any of them may be nil.
type Inputs struct {
	Candidate models.Candidate
	MCQ       *models.MCQSession
	Coding    *models.CodingSession
	Interview *models.InterviewSession
	Events    []models.ProctoringEvent
	// InterviewQuestions is the configured interview length, reported when
	// no interview session exists yet.
	InterviewQuestions int
}

type Narrator interface {
	Narrative(ctx context.Context, in ai.NarrativeInput) (models.Narrative, bool)
}

// Overall combines the two stage-level verdicts.
func Overall(test1Passed, interviewPassed bool) models.OverallStatus {
	switch {
	case test1Passed && interviewPassed:
		return models.OverallPassed
	case test1Passed || interviewPassed:
		return models.OverallPartial
	}
	return models.OverallFailed
}

// Summarize computes the scores and pass flags. The narrative is left empty.
func Summarize(in Inputs) models.Report {
	r := models.Report{CandidateID: in.Candidate.ID}
	if in.MCQ != nil {
		r.MCQScore = in.MCQ.Score
		r.MCQPassed = in.MCQ.Status == models.SessionPassed
	}
	if in.Coding != nil {
		r.CodingScore = in.Coding.Score
		r.CodingPassed = in.Coding.Status == models.SessionPassed
	}
	if in.Interview != nil {
		r.InterviewScore = in.Interview.OverallScore
		r.InterviewPassed = in.Interview.Status == models.SessionPassed
	}
	r.Test1Passed = r.MCQPassed && r.CodingPassed
	r.OverallStatus = Overall(r.Test1Passed, r.InterviewPassed)
	return r
}

// Proctoring tallies events by type and severity.
func Proctoring(events []models.ProctoringEvent) models.ProctoringSummary {
	s := models.ProctoringSummary{TotalViolations: len(events), BySeverity: map[string]int{}}
	for _, e := range events {
		switch e.EventType {
		case models.EventTabSwitch:
			s.TabSwitches++
		case models.EventFaceNotDetected:
			s.FaceNotDetected++
		case models.EventPhoneDetected:
			s.PhoneDetected++
		case models.EventEyeMovement:
			s.EyeViolations++
		}
		if e.Severity != "" {
			s.BySeverity[e.Severity]++
		}
	}
	return s
}

// NarrativeInput flattens the stage sessions into the prompt payload.
func NarrativeInput(in Inputs, r models.Report, ps models.ProctoringSummary) ai.NarrativeInput {
	n := ai.NarrativeInput{
		Name:            in.Candidate.Name,
		Skills:          []string(in.Candidate.Skills),
		MCQScore:        r.MCQScore,
		MCQPassed:       r.MCQPassed,
		CodingScore:     r.CodingScore,
		CodingPassed:    r.CodingPassed,
		InterviewScore:  r.InterviewScore,
		InterviewPassed: r.InterviewPassed,
		InterviewTotal:  in.InterviewQuestions,
		Proctoring:      ps,
	}
	if in.MCQ != nil {
		res := grading.ScoreMCQ(in.MCQ.Questions, in.MCQ.Answers.Data(), in.MCQ.PassingScore)
		n.MCQCorrect, n.MCQTotal = res.Correct, res.Total
	}
	if in.Coding != nil {
		n.CodingAttempted, _ = grading.CodingScore(in.Coding.Problems, in.Coding.Submissions.Data())
		n.CodingTotal = len(in.Coding.Problems)
	}
	if iv := in.Interview; iv != nil {
		n.InterviewTotal = iv.TotalQuestions
		n.InterviewAnswered = interview.Answered(iv.Items)
		for _, it := range iv.Items {
			if len(n.Highlights) == highlightCount {
				break
			}
			if it.Question == "" {
				continue
			}
			h := ai.Highlight{Question: grading.Truncate(it.Question, highlightLen)}
			if it.Score != nil {
				h.Score = *it.Score
			}
			n.Highlights = append(n.Highlights, h)
		}
	}
	return n
}

// Compose builds the full report, narrative included. A nil narrator or a
// failed generation yields the fixed fallback narrative.
func Compose(ctx context.Context, nr Narrator, in Inputs, now time.Time) models.Report {
	r := Summarize(in)
	ps := Proctoring(in.Events)

	narrative := ai.FallbackNarrative()
	if nr != nil {
		narrative, _ = nr.Narrative(ctx, NarrativeInput(in, r, ps))
	}

	r.DetailedFeedback = datatypes.NewJSONType(narrative)
	r.ProctoringSummary = datatypes.NewJSONType(ps)
	r.GeneratedAt = now.UTC()
	return r
}
