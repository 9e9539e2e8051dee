package domain

import "time"

// Account is one registered user's verification record. The ID is issued by the
// auth provider; Email is unique and never changes after sign-up.
type Account struct {
	AccountID string            `json:"id"`
	Email     string            `json:"email"`
	State     VerificationState `json:"-"`
	CreatedAt time.Time         `json:"created"`
	UpdatedAt time.Time         `json:"updated"`
}

// VerificationState is either Unverified or Verified. The pending code and its
// expiry only exist on Unverified, so they can never be set one without the other.
type VerificationState interface {
	isVerificationState()
}

// Unverified holds the most recently issued code. Issuing a new code replaces it.
type Unverified struct {
	Code      string
	ExpiresAt time.Time
}

// Verified is terminal.
type Verified struct{}

func (Unverified) isVerificationState() {}
func (Verified) isVerificationState()   {}

// IsVerified reports whether the account has completed email verification.
func (a *Account) IsVerified() bool {
	_, ok := a.State.(Verified)
	return ok
}

// Expired reports whether the code is no longer valid at now. The code is still
// valid at the exact expiry instant.
func (u Unverified) Expired(now time.Time) bool {
	return now.After(u.ExpiresAt)
}
