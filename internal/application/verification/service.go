// Package verification owns the email one-time-code lifecycle: issuing codes at
// registration and on resend, checking them, and refusing sign-in until the
// account's email is verified.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/travel-atlas/internal/domain"
	"github.com/travel-atlas/internal/pkg/clock"
)

// DefaultCodeTTL is how long an issued code stays valid.
const DefaultCodeTTL = 10 * time.Minute

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type ResendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResult carries the new identity and the issued code. The code is
// returned for the diagnostic delivery path only; callers decide whether to
// expose it.
type RegisterResult struct {
	Identity *domain.Identity
	Code     string
}

type Service interface {
	Register(ctx context.Context, email, password string) (*RegisterResult, error)
	Verify(ctx context.Context, email, code string) error
	Resend(ctx context.Context, email string) (string, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, sessionID string) error
}

type accountStore interface {
	Insert(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	MarkVerified(ctx context.Context, accountID, expectedCode string) error
	ReplaceCode(ctx context.Context, accountID, code string, expiresAt time.Time) error
}

type authProvider interface {
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, sessionID string) error
}

type notifier interface {
	DeliverCode(ctx context.Context, email, code string, expiresAt time.Time) error
}

type limiter interface {
	Allow(ctx context.Context, key string) bool
}

type service struct {
	accounts accountStore
	auth     authProvider
	notifier notifier
	limiter  limiter
	clock    clock.Clocker
	codeTTL  time.Duration
	generate func() (string, error)
}

type ServiceDeps struct {
	AccountRepo accountStore
	Auth        authProvider
	Notifier    notifier
	// Limiter is optional; nil disables per-email throttling of verify and resend.
	Limiter  limiter
	Clock    clock.Clocker
	CodeTTL  time.Duration
	Generate func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		accounts: deps.AccountRepo,
		auth:     deps.Auth,
		notifier: deps.Notifier,
		limiter:  deps.Limiter,
		clock:    deps.Clock,
		codeTTL:  deps.CodeTTL,
		generate: deps.Generate,
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.codeTTL <= 0 {
		s.codeTTL = DefaultCodeTTL
	}
	if s.generate == nil {
		s.generate = GenerateCode
	}
	return s
}

func (s *service) Register(ctx context.Context, email, password string) (*RegisterResult, error) {
	if email == "" {
		return nil, fmt.Errorf("email required: %w", domain.ErrBadRequest)
	}
	ident, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, domain.ErrIdentityMissing
	}

	code, err := s.generate()
	if err != nil {
		// The provider identity stays behind without an account record.
		slog.Warn("code generation failed after sign up", "identity_id", ident.IdentityID, "err", err)
		return nil, err
	}
	now := s.clock.Now()
	expiresAt := now.Add(s.codeTTL)
	acct := &domain.Account{
		AccountID: ident.IdentityID,
		Email:     email,
		State:     domain.Unverified{Code: code, ExpiresAt: expiresAt},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.Insert(ctx, acct); err != nil {
		// The provider identity stays behind without an account record.
		slog.Warn("account insert failed after sign up", "identity_id", ident.IdentityID, "err", err)
		return nil, fmt.Errorf("insert account: %v: %w", err, domain.ErrPersistence)
	}

	s.deliver(ctx, email, code, expiresAt)
	return &RegisterResult{Identity: ident, Code: code}, nil
}

// Verify checks existence, then code, then expiry, then applies the update.
func (s *service) Verify(ctx context.Context, email, code string) error {
	if !s.allow(ctx, "verify:"+email) {
		return fmt.Errorf("too many verification attempts: %w", domain.ErrRateLimited)
	}
	acct, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}
	pending, ok := acct.State.(domain.Unverified)
	if !ok || pending.Code == "" || pending.Code != code {
		return fmt.Errorf("code mismatch: %w", domain.ErrInvalidCode)
	}
	if pending.Expired(s.clock.Now()) {
		return fmt.Errorf("code issued for %s: %w", email, domain.ErrCodeExpired)
	}
	if err := s.accounts.MarkVerified(ctx, acct.AccountID, pending.Code); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A resend replaced the code between the read and the write.
			return fmt.Errorf("code replaced: %w", domain.ErrInvalidCode)
		}
		return fmt.Errorf("mark verified: %v: %w", err, domain.ErrPersistence)
	}
	return nil
}

func (s *service) Resend(ctx context.Context, email string) (string, error) {
	if !s.allow(ctx, "resend:"+email) {
		return "", fmt.Errorf("too many code requests: %w", domain.ErrRateLimited)
	}
	acct, err := s.lookup(ctx, email)
	if err != nil {
		return "", err
	}
	if acct.IsVerified() {
		return "", domain.ErrAlreadyVerified
	}

	code, err := s.generate()
	if err != nil {
		return "", err
	}
	expiresAt := s.clock.Now().Add(s.codeTTL)
	if err := s.accounts.ReplaceCode(ctx, acct.AccountID, code, expiresAt); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return "", domain.ErrAlreadyVerified
		}
		return "", fmt.Errorf("replace code: %v: %w", err, domain.ErrPersistence)
	}

	s.deliver(ctx, email, code, expiresAt)
	return code, nil
}

// SignIn authenticates with the provider and then revokes the new session again
// unless the account behind it is verified.
func (s *service) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	acct, err := s.accounts.Get(ctx, sess.IdentityID)
	switch {
	case err == nil && acct.IsVerified():
		return sess, nil
	case err == nil, errors.Is(err, domain.ErrAccountNotFound):
		s.revoke(ctx, sess)
		return nil, domain.ErrNotVerified
	default:
		s.revoke(ctx, sess)
		return nil, fmt.Errorf("account lookup: %v: %w", err, domain.ErrAccountNotFound)
	}
}

func (s *service) SignOut(ctx context.Context, sessionID string) error {
	return s.auth.SignOut(ctx, sessionID)
}

func (s *service) lookup(ctx context.Context, email string) (*domain.Account, error) {
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load account: %v: %w", err, domain.ErrPersistence)
	}
	return acct, nil
}

func (s *service) allow(ctx context.Context, key string) bool {
	if s.limiter == nil {
		return true
	}
	return s.limiter.Allow(ctx, key)
}

func (s *service) deliver(ctx context.Context, email, code string, expiresAt time.Time) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.DeliverCode(ctx, email, code, expiresAt); err != nil {
		slog.Warn("code delivery failed", "email", email, "err", err)
	}
}

func (s *service) revoke(ctx context.Context, sess *domain.Session) {
	if err := s.auth.SignOut(ctx, sess.SessionID); err != nil {
		slog.Warn("failed to revoke session of unverified account", "session_id", sess.SessionID, "err", err)
	}
}
