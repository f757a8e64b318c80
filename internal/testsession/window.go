// Package testsession implements start and resume for timed stage sessions.
package testsession

import (
	"errors"
	"time"

	"github.com/yoockh/skillproctor/internal/models"
)

var ErrAlreadyCompleted = errors.New("session already completed")

// Window is the timing state shared by every stage session.
type Window struct {
	Status    models.SessionStatus
	StartTime *time.Time
	EndTime   *time.Time
}

// Start opens a pending window at now. A zero duration leaves EndTime nil
// (no hard cutoff). An in-progress window comes back unchanged, so a client
// that re-fetches mid-session sees the same deadline. started is true only
// when this call did the opening.
func Start(w Window, now time.Time, duration time.Duration) (out Window, started bool, err error) {
	switch {
	case w.Status.Terminal():
		return w, false, ErrAlreadyCompleted
	case w.Status == models.SessionInProgress:
		return w, false, nil
	}

	start := now.UTC()
	out = Window{Status: models.SessionInProgress, StartTime: &start}
	if duration > 0 {
		end := start.Add(duration)
		out.EndTime = &end
	}
	return out, true, nil
}

// Close stamps the end of a window with its terminal status. The original
// deadline is replaced by the actual finish time.
func Close(w Window, now time.Time, status models.SessionStatus) Window {
	end := now.UTC()
	w.Status = status
	w.EndTime = &end
	return w
}

// Expired reports whether now is past the deadline plus grace. Windows
// without a deadline never expire.
func Expired(w Window, now time.Time, grace time.Duration) bool {
	if w.EndTime == nil || w.Status != models.SessionInProgress {
		return false
	}
	return now.After(w.EndTime.Add(grace))
}

// Remaining is the time left before the deadline, never negative.
func Remaining(w Window, now time.Time) time.Duration {
	if w.EndTime == nil {
		return 0
	}
	if d := w.EndTime.Sub(now); d > 0 {
		return d
	}
	return 0
}

func MCQWindow(s *models.MCQSession) Window {
	return Window{Status: s.Status, StartTime: s.StartTime, EndTime: s.EndTime}
}

func ApplyMCQ(s *models.MCQSession, w Window) {
	s.Status, s.StartTime, s.EndTime = w.Status, w.StartTime, w.EndTime
}

func CodingWindow(s *models.CodingSession) Window {
	return Window{Status: s.Status, StartTime: s.StartTime, EndTime: s.EndTime}
}

func ApplyCoding(s *models.CodingSession, w Window) {
	s.Status, s.StartTime, s.EndTime = w.Status, w.StartTime, w.EndTime
}

func InterviewWindow(s *models.InterviewSession) Window {
	return Window{Status: s.Status, StartTime: s.StartTime, EndTime: s.EndTime}
}

func ApplyInterview(s *models.InterviewSession, w Window) {
	s.Status, s.StartTime, s.EndTime = w.Status, w.StartTime, w.EndTime
}
