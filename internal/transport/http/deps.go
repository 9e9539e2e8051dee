package http

import (
	"context"
	"time"

	"github.com/travel-atlas/internal/domain"
)

// AccountRepository is the minimal interface the router requires from the account store.
type AccountRepository interface {
	Insert(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	MarkVerified(ctx context.Context, accountID, expectedCode string) error
	ReplaceCode(ctx context.Context, accountID, code string, expiresAt time.Time) error
}

// DestinationRepository is the minimal interface the router requires from the destination store.
type DestinationRepository interface {
	Find(ctx context.Context, country string, region *string) (*domain.Destination, error)
}

// AuthProvider is the identity service: credentials, sessions and bearer resolution.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, bearer string) (*domain.Session, error)
}

// CodeNotifier delivers issued verification codes.
type CodeNotifier interface {
	DeliverCode(ctx context.Context, email, code string, expiresAt time.Time) error
}

// AttemptLimiter throttles verify and resend per email.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo     AccountRepository
	DestinationRepo DestinationRepository
	Auth            AuthProvider
	Notifier        CodeNotifier
	// Limiter is optional.
	Limiter AttemptLimiter
}
