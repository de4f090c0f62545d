package apperror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"podcastcrm/internal/pkg/logger"
)

// Kind is the closed set of failure categories surfaced to callers.
type Kind string

const (
	KindNetwork          Kind = "NETWORK_ERROR"
	KindAuth             Kind = "AUTH_ERROR"
	KindRateLimit        Kind = "RATE_LIMIT"
	KindValidation       Kind = "VALIDATION_ERROR"
	KindNotFound         Kind = "NOT_FOUND"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindStore            Kind = "STORE_ERROR"
	KindLLM              Kind = "LLM_ERROR"
	KindUnknown          Kind = "UNKNOWN_ERROR"
)

// Kinds returns every kind in the taxonomy.
func Kinds() []Kind {
	return []Kind{
		KindNetwork, KindAuth, KindRateLimit, KindValidation, KindNotFound,
		KindPermissionDenied, KindStore, KindLLM, KindUnknown,
	}
}

// Valid reports whether k belongs to the taxonomy.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// AppError is the only error shape that leaves the lead store and the
// assistant session.
type AppError struct {
	Kind    Kind
	Message string
	Context string
	Err     error
}

func (e *AppError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Context, e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// New creates an AppError that has no underlying cause.
func New(kind Kind, message, context string) *AppError {
	return &AppError{Kind: kind, Message: message, Context: context}
}

// KindOf returns the kind of err, or KindUnknown when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Message patterns are plain substrings except "rate", which must be a
// whole word so "generate" and "accurate" do not match.
var (
	networkPattern  = regexp.MustCompile(`network|fetch|connection refused|connection reset|no such host|i/o timeout`)
	authPattern     = regexp.MustCompile(`auth|\b401\b|\b403\b|api key`)
	ratePattern     = regexp.MustCompile(`\brate\b|rate[ _-]?limit|\b429\b|too many requests|resource_exhausted`)
	notFoundPattern = regexp.MustCompile(`not found|\b404\b`)
)

// Classify maps err onto the taxonomy. An AppError anywhere in the chain
// is returned unchanged; otherwise typed errors are inspected first, then
// the message text, and def is used when nothing matches.
func Classify(err error, def Kind, context string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if !def.Valid() {
		def = KindUnknown
	}
	return &AppError{Kind: kindFor(err, def), Message: err.Error(), Context: context, Err: err}
}

func kindFor(err error, def Kind) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return KindValidation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501":
			return KindPermissionDenied
		case strings.HasPrefix(pgErr.Code, "28"):
			return KindAuth
		case strings.HasPrefix(pgErr.Code, "22"), strings.HasPrefix(pgErr.Code, "23"):
			return KindValidation
		}
		return def
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case networkPattern.MatchString(msg):
		return KindNetwork
	case authPattern.MatchString(msg):
		return KindAuth
	case ratePattern.MatchString(msg):
		return KindRateLimit
	case notFoundPattern.MatchString(msg):
		return KindNotFound
	}
	return def
}

// Classifier classifies errors and reports each one to the operator log.
type Classifier struct {
	log *zap.Logger
	now func() time.Time
}

func NewClassifier(log *zap.Logger) *Classifier {
	return &Classifier{log: logger.OrNop(log), now: time.Now}
}

// Classify behaves like the package-level Classify and logs the result.
// A nil Classifier still classifies; it just does not log.
func (c *Classifier) Classify(err error, def Kind, context string) *AppError {
	appErr := Classify(err, def, context)
	if appErr == nil || c == nil {
		return appErr
	}
	c.log.Error("classified error",
		zap.Time("at", c.now().UTC()),
		zap.String("kind", string(appErr.Kind)),
		zap.String("context", context),
		zap.String("message", appErr.Message),
		zap.NamedError("cause", appErr.Err),
	)
	return appErr
}
