package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/ports"
)

// UserService implements registration, login, and user lookup on top of the
// credential store. Login failures are throttled per username and every
// attempt is reported to the audit sink.
type UserService struct {
	repo    ports.UserRepository
	tokens  ports.TokenService
	limiter ports.LoginLimiter
	audit   ports.AuditSink
	log     zerolog.Logger
}

// NewUserService wires the service. limiter and audit may be nil, in which
// case throttling and the audit trail are disabled.
func NewUserService(
	repo ports.UserRepository,
	tokens ports.TokenService,
	limiter ports.LoginLimiter,
	audit ports.AuditSink,
	log zerolog.Logger,
) *UserService {
	return &UserService{repo: repo, tokens: tokens, limiter: limiter, audit: audit, log: log}
}

// Register hashes the password and persists a new user carrying exactly the
// given role. The role must belong to the closed role set.
func (s *UserService) Register(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{role},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.record(username, domain.AuditActionRegister, domain.AuditOutcomeFailure)
		return nil, err
	}

	s.log.Info().Str("username", username).Str("role", role).Msg("user registered")
	s.record(username, domain.AuditActionRegister, domain.AuditOutcomeSuccess)
	return created, nil
}

// Login verifies the credentials and issues a signed token bound to the
// username. A missing user and a wrong password are indistinguishable to the
// caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !s.allowAttempt(ctx, username) {
		s.record(username, domain.AuditActionLogin, domain.AuditOutcomeThrottle)
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			s.loginFailed(ctx, username)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.loginFailed(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login limiter")
		}
	}
	s.log.Info().Str("username", username).Msg("login succeeded")
	s.record(username, domain.AuditActionLogin, domain.AuditOutcomeSuccess)
	return tok, user, nil
}

// Profile returns the user record for the given username.
func (s *UserService) Profile(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// ListUsers returns every registered user.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

// allowAttempt consults the limiter. Limiter outages fail open: a degraded
// redis must not lock everyone out.
func (s *UserService) allowAttempt(ctx context.Context, username string) bool {
	if s.limiter == nil {
		return true
	}
	allowed, err := s.limiter.Allow(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login limiter check failed, allowing attempt")
		return true
	}
	return allowed
}

func (s *UserService) loginFailed(ctx context.Context, username string) {
	if s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
		}
	}
	s.log.Info().Str("username", username).Msg("login failed")
	s.record(username, domain.AuditActionLogin, domain.AuditOutcomeFailure)
}

func (s *UserService) record(username, action, outcome string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{
		Username:  username,
		Action:    action,
		Outcome:   outcome,
		Timestamp: time.Now().UTC(),
	})
}
