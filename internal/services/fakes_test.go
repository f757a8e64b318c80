package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yoockh/skillproctor/internal/cache"
	"github.com/yoockh/skillproctor/internal/lock"
	"github.com/yoockh/skillproctor/internal/logger"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/stage"
	"github.com/yoockh/skillproctor/internal/utils"
	"gorm.io/datatypes"
)

// fakeTx runs fn directly; the fakes below have no rollback.
type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type candidateStore struct {
	mu   sync.Mutex
	rows map[string]models.Candidate
}

func newCandidateStore() *candidateStore {
	return &candidateStore{rows: map[string]models.Candidate{}}
}

func (s *candidateStore) Create(_ context.Context, c *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Email == c.Email {
			return utils.ErrDuplicate
		}
	}
	s.rows[c.ID] = *c
	return nil
}

func (s *candidateStore) GetByID(_ context.Context, id string) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &c, nil
}

func (s *candidateStore) GetByEmail(_ context.Context, email string) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if strings.EqualFold(c.Email, email) {
			c := c
			return &c, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (s *candidateStore) List(_ context.Context) ([]models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Candidate, 0, len(s.rows))
	for _, c := range s.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *candidateStore) Recent(ctx context.Context, n int) ([]models.Candidate, error) {
	out, _ := s.List(ctx)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *candidateStore) UpdateStatus(_ context.Context, id string, status stage.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	c.Status = status
	s.rows[id] = c
	return nil
}

func (s *candidateStore) SetSQLPassed(_ context.Context, id string, passed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	c.SQLPassed = passed
	s.rows[id] = c
	return nil
}

func (s *candidateStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return utils.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *candidateStore) CountByStatus(_ context.Context) (map[stage.Status]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[stage.Status]int64{}
	for _, c := range s.rows {
		out[c.Status]++
	}
	return out, nil
}

func (s *candidateStore) status(id string) stage.Status {
	c, _ := s.GetByID(context.Background(), id)
	if c == nil {
		return ""
	}
	return c.Status
}

// sessionStore mimics the generic gorm repo: one table keyed by id, latest
// by created_at.
type sessionStore[T any] struct {
	mu    sync.Mutex
	rows  map[string]T
	order []string
	id    func(*T) string
	cand  func(*T) string
	clone func(T) T
	viol  func(*T)
}

func (s *sessionStore[T]) Create(_ context.Context, v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[s.id(v)] = s.clone(*v)
	s.order = append(s.order, s.id(v))
	return nil
}

func (s *sessionStore[T]) GetByID(_ context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	v = s.clone(v)
	return &v, nil
}

func (s *sessionStore[T]) Latest(_ context.Context, candidateID string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		v, ok := s.rows[s.order[i]]
		if ok && s.cand(&v) == candidateID {
			v = s.clone(v)
			return &v, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (s *sessionStore[T]) Save(_ context.Context, v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[s.id(v)]; !ok {
		s.order = append(s.order, s.id(v))
	}
	s.rows[s.id(v)] = s.clone(*v)
	return nil
}

func (s *sessionStore[T]) IncrementViolations(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	s.viol(&v)
	s.rows[id] = v
	return nil
}

func (s *sessionStore[T]) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func newMCQStore() *sessionStore[models.MCQSession] {
	return &sessionStore[models.MCQSession]{
		rows: map[string]models.MCQSession{},
		id:   func(s *models.MCQSession) string { return s.ID },
		cand: func(s *models.MCQSession) string { return s.CandidateID },
		clone: func(s models.MCQSession) models.MCQSession {
			s.Questions = append(datatypes.JSONSlice[models.Question](nil), s.Questions...)
			return s
		},
		viol: func(s *models.MCQSession) { s.ViolationCount++ },
	}
}

func newCodingStore() *sessionStore[models.CodingSession] {
	return &sessionStore[models.CodingSession]{
		rows: map[string]models.CodingSession{},
		id:   func(s *models.CodingSession) string { return s.ID },
		cand: func(s *models.CodingSession) string { return s.CandidateID },
		clone: func(s models.CodingSession) models.CodingSession {
			subs := models.Submissions{}
			for k, v := range s.Submissions.Data() {
				subs[k] = v
			}
			s.Submissions = datatypes.NewJSONType(subs)
			return s
		},
		viol: func(*models.CodingSession) {},
	}
}

func newInterviewStore() *sessionStore[models.InterviewSession] {
	return &sessionStore[models.InterviewSession]{
		rows: map[string]models.InterviewSession{},
		id:   func(s *models.InterviewSession) string { return s.ID },
		cand: func(s *models.InterviewSession) string { return s.CandidateID },
		clone: func(s models.InterviewSession) models.InterviewSession {
			s.Items = append(datatypes.JSONSlice[models.QAItem](nil), s.Items...)
			return s
		},
		viol: func(s *models.InterviewSession) { s.ViolationCount++ },
	}
}

type reportStore struct {
	mu         sync.Mutex
	rows       map[string]models.Report
	candidates *candidateStore
}

func (s *reportStore) Upsert(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.rows[r.CandidateID]; ok {
		r.ID = old.ID
	}
	s.rows[r.CandidateID] = *r
	return nil
}

func (s *reportStore) GetByCandidate(ctx context.Context, id string) (*models.Report, error) {
	s.mu.Lock()
	r, ok := s.rows[id]
	s.mu.Unlock()
	if !ok {
		return nil, utils.ErrNotFound
	}
	if s.candidates != nil {
		r.Candidate, _ = s.candidates.GetByID(ctx, id)
	}
	return &r, nil
}

func (s *reportStore) List(_ context.Context) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Report, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	return out, nil
}

func (s *reportStore) CountByOverall(_ context.Context) (map[models.OverallStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[models.OverallStatus]int64{}
	for _, r := range s.rows {
		out[r.OverallStatus]++
	}
	return out, nil
}

type eventStore struct {
	mu     sync.Mutex
	events []models.ProctoringEvent
}

func (s *eventStore) Insert(_ context.Context, e *models.ProctoringEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *e)
	return nil
}

func (s *eventStore) ListByCandidate(_ context.Context, id string) ([]models.ProctoringEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProctoringEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].CandidateID == id {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

func (s *eventStore) DeleteByCandidate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.events[:0]
	for _, e := range s.events {
		if e.CandidateID != id {
			kept = append(kept, e)
		}
	}
	s.events = kept
	return nil
}

func (s *eventStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	return nil
}

type fakePublisher struct {
	mu   sync.Mutex
	sent map[string][]any
}

func (p *fakePublisher) Publish(_ context.Context, channel string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sent == nil {
		p.sent = map[string][]any{}
	}
	p.sent[channel] = append(p.sent[channel], v)
	return nil
}

// fixture wires a Pipeline over in-memory fakes with a controllable clock.
type fixture struct {
	p          *Pipeline
	tx         *fakeTx
	candidates *candidateStore
	mcq        *sessionStore[models.MCQSession]
	coding     *sessionStore[models.CodingSession]
	interviews *sessionStore[models.InterviewSession]
	reports    *reportStore
	events     *eventStore
	cache      *cache.MemoryCache
	clock      time.Time
}

func newFixture() *fixture {
	f := &fixture{
		tx:         &fakeTx{},
		candidates: newCandidateStore(),
		mcq:        newMCQStore(),
		coding:     newCodingStore(),
		interviews: newInterviewStore(),
		events:     &eventStore{},
		cache:      cache.NewMemoryCache(),
		clock:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	f.reports = &reportStore{rows: map[string]models.Report{}, candidates: f.candidates}
	f.p = &Pipeline{
		Tx:         f.tx,
		Candidates: f.candidates,
		MCQ:        f.mcq,
		Coding:     f.coding,
		Interviews: f.interviews,
		Locker:     lock.NewKeyedMutex(),
		Cache:      f.cache,
		Log:        logger.Discard(),
		Settings:   DefaultSettings(),
		Now:        func() time.Time { return f.clock },
	}
	return f
}

func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

func (f *fixture) addCandidate(id string, status stage.Status, skills ...string) *models.Candidate {
	c := &models.Candidate{
		ID:        id,
		Name:      "Ada " + id,
		Email:     id + "@example.com",
		Skills:    skills,
		Status:    status,
		CreatedAt: f.clock,
	}
	_ = f.candidates.Create(context.Background(), c)
	return c
}
