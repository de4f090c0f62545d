package admin

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"podcastcrm/internal/pkg/logger"
)

const (
	RoleAdmin = "admin"

	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type tokenIssuer interface {
	GenerateToken(userID string, role string) (string, error)
}

// Credentials identify the single site operator.
type Credentials struct {
	Email        string
	PasswordHash string
}

// Service authenticates the operator who reviews leads. There is no user
// table: the account comes from configuration.
type Service struct {
	creds  Credentials
	tokens tokenIssuer
	log    *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	failed      int
	lockedUntil time.Time
}

func NewService(creds Credentials, tokens tokenIssuer, log *zap.Logger) *Service {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	return &Service{
		creds:  creds,
		tokens: tokens,
		log:    logger.OrNop(log).Named("admin"),
		now:    time.Now,
	}
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// Login checks the operator's password and issues an admin token. After
// maxFailedLoginAttempts wrong passwords, logins are refused until the
// lockout ends.
func (s *Service) Login(_ context.Context, email, password string) (*LoginResult, error) {
	if s.creds.PasswordHash == "" {
		return nil, ErrNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Before(s.lockedUntil) {
		return nil, ErrAccountLocked
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != s.creds.Email ||
		bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)) != nil {
		s.failed++
		if s.failed >= maxFailedLoginAttempts {
			s.failed = 0
			s.lockedUntil = now.Add(lockoutDuration)
			s.log.Warn("admin login locked", zap.Time("until", s.lockedUntil))
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	s.failed = 0
	token, err := s.tokens.GenerateToken(s.creds.Email, RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.log.Info("admin logged in", zap.String("email", s.creds.Email))
	return &LoginResult{AccessToken: token, Email: s.creds.Email, Role: RoleAdmin}, nil
}

// HashPassword produces a value for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
