package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/auth"
	"github.com/yoockh/skillproctor/internal/models"
	pgrepo "github.com/yoockh/skillproctor/internal/repositories/postgres"
	"github.com/yoockh/skillproctor/internal/utils"
)

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	Subject   string    `json:"id"`
	Name      string    `json:"name"`
}

type CandidateSession struct {
	Session
	Candidate *models.Candidate `json:"candidate"`
}

type AuthService interface {
	AdminLogin(ctx context.Context, username, password string) (*Session, error)
	CandidateLogin(ctx context.Context, email, candidateID string) (*CandidateSession, error)
	EnsureDefaultAdmin(ctx context.Context, username, password string) (created bool, err error)
}

type authService struct {
	admins     pgrepo.AdminRepository
	candidates pgrepo.CandidateRepository
	tokens     *auth.Tokens
	log        *logrus.Logger
	now        func() time.Time
}

func NewAuthService(admins pgrepo.AdminRepository, candidates pgrepo.CandidateRepository, tokens *auth.Tokens, log *logrus.Logger) AuthService {
	return &authService{admins: admins, candidates: candidates, tokens: tokens, log: log, now: time.Now}
}

func (s *authService) AdminLogin(ctx context.Context, username, password string) (*Session, error) {
	const op = "AuthService.AdminLogin"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "username and password are required", nil)
	}

	a, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load admin", err)
	}
	if err := utils.CheckPassword(a.PasswordHash, password); err != nil {
		if !errors.Is(err, utils.ErrPasswordMismatch) {
			s.log.WithError(err).WithField("username", username).Error("stored admin hash is unusable")
		}
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}

	return s.issue(op, a.ID, auth.RoleAdmin, a.Name)
}

// CandidateLogin matches on both email and id, the pair a candidate is
// handed after intake.
func (s *authService) CandidateLogin(ctx context.Context, email, candidateID string) (*CandidateSession, error) {
	const op = "AuthService.CandidateLogin"

	email = strings.TrimSpace(email)
	if email == "" || candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email and candidate_id are required", nil)
	}
	if _, err := uuid.Parse(candidateID); err != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid candidate credentials", nil)
	}

	c, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "invalid candidate credentials", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	if !strings.EqualFold(c.Email, email) {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid candidate credentials", nil)
	}

	sess, err := s.issue(op, c.ID, auth.RoleCandidate, c.Name)
	if err != nil {
		return nil, err
	}
	return &CandidateSession{Session: *sess, Candidate: c}, nil
}

// EnsureDefaultAdmin seeds an admin account on first migrate. An existing
// username is left untouched.
func (s *authService) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	const op = "AuthService.EnsureDefaultAdmin"

	if username == "" || password == "" {
		return false, utils.E(utils.CodeInvalidArgument, op, "admin username and password are required", nil)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}
	created, err := s.admins.CreateIfMissing(ctx, &models.AdminUser{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Name:         "Administrator",
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to seed admin", err)
	}
	if created {
		s.log.WithField("username", username).Info("default admin created")
	}
	return created, nil
}

func (s *authService) issue(op, subject, role, name string) (*Session, error) {
	tok, err := s.tokens.Sign(subject, role, name)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &Session{
		Token:     tok,
		ExpiresAt: s.now().Add(s.tokens.TTL()).UTC(),
		Role:      role,
		Subject:   subject,
		Name:      name,
	}, nil
}
