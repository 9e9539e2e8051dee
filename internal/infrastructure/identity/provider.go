// Package identity is the auth provider: credentialed sign-up, password sign-in,
// sign-out and session lookup. It knows nothing about email verification.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/travel-atlas/internal/domain"
	jwtinfra "github.com/travel-atlas/internal/infrastructure/jwt"
	"github.com/travel-atlas/internal/pkg/clock"
	"github.com/travel-atlas/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt input limit
)

type credentialStore interface {
	Create(ctx context.Context, c *domain.Credential) error
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
}

type tokenSigner interface {
	Sign(identityID, sessionID string, issuedAt time.Time) (string, error)
	Verify(tokenStr string) (*jwtinfra.Claims, error)
	Expiry() time.Duration
}

type Provider struct {
	credentials credentialStore
	sessions    sessionStore
	tokens      tokenSigner
	clock       clock.Clocker
	hashCost    int
}

type ProviderDeps struct {
	CredentialRepo credentialStore
	SessionRepo    sessionStore
	Tokens         tokenSigner
	Clock          clock.Clocker
	// HashCost defaults to bcrypt.DefaultCost.
	HashCost int
}

func NewProvider(deps ProviderDeps) *Provider {
	p := &Provider{
		credentials: deps.CredentialRepo,
		sessions:    deps.SessionRepo,
		tokens:      deps.Tokens,
		clock:       deps.Clock,
		hashCost:    deps.HashCost,
	}
	if p.clock == nil {
		p.clock = clock.New()
	}
	if p.hashCost == 0 {
		p.hashCost = bcrypt.DefaultCost
	}
	return p
}

// SignUp creates a credentialed identity for email.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	if len(password) < minPasswordLength {
		return nil, domain.NewAuthProviderError(domain.AuthWeakPassword,
			fmt.Sprintf("Password should be at least %d characters", minPasswordLength), nil)
	}
	if len(password) > maxPasswordLength {
		return nil, domain.NewAuthProviderError(domain.AuthWeakPassword,
			fmt.Sprintf("Password should be at most %d bytes", maxPasswordLength), nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.hashCost)
	if err != nil {
		return nil, domain.NewAuthProviderError(domain.AuthWeakPassword, "Password could not be accepted", err)
	}
	now := p.clock.Now()
	cred := &domain.Credential{
		Email:        email,
		IdentityID:   id.At(now),
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := p.credentials.Create(ctx, cred); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewAuthProviderError(domain.AuthUserAlreadyExists, "User already registered", err)
		}
		return nil, domain.NewAuthProviderError(domain.AuthProviderUnavailable, "Sign up failed", err)
	}
	return &domain.Identity{IdentityID: cred.IdentityID, Email: email, CreatedAt: now}, nil
}

// SignIn checks the password and issues a new session with a signed bearer token.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	cred, err := p.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalidCredentials(err)
		}
		return nil, domain.NewAuthProviderError(domain.AuthProviderUnavailable, "Sign in failed", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials(err)
	}

	now := p.clock.Now()
	sess := &domain.Session{
		SessionID:  id.At(now),
		IdentityID: cred.IdentityID,
		Email:      cred.Email,
		Enable:     true,
		ExpiresAt:  now.Add(p.tokens.Expiry()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := p.sessions.Put(ctx, sess); err != nil {
		return nil, domain.NewAuthProviderError(domain.AuthProviderUnavailable, "Sign in failed", err)
	}
	bearer, err := p.tokens.Sign(sess.IdentityID, sess.SessionID, now)
	if err != nil {
		return nil, domain.NewAuthProviderError(domain.AuthProviderUnavailable, "Sign in failed", err)
	}
	sess.Bearer = bearer
	return sess, nil
}

// SignOut revokes the session so its bearer token stops authenticating.
func (p *Provider) SignOut(ctx context.Context, sessionID string) error {
	if err := p.sessions.Disable(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewAuthProviderError(domain.AuthSessionNotFound, "Session not found", err)
		}
		return domain.NewAuthProviderError(domain.AuthProviderUnavailable, "Sign out failed", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its session. Revoked or expired
// sessions fail with domain.ErrUnauthorized even while the token itself is valid.
func (p *Provider) Authenticate(ctx context.Context, bearer string) (*domain.Session, error) {
	claims, err := p.tokens.Verify(bearer)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	}
	sess, err := p.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("session not found: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if sess.IdentityID != claims.IdentityID || !sess.Active(p.clock.Now()) {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	return sess, nil
}

func invalidCredentials(cause error) error {
	return domain.NewAuthProviderError(domain.AuthInvalidCredentials, "Invalid login credentials", cause)
}
