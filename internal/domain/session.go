package domain

import "time"

// Identity is a credentialed user as issued by the auth provider.
type Identity struct {
	IdentityID string    `json:"id" dynamodbav:"identity_id"`
	Email      string    `json:"email" dynamodbav:"email"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
}

// Credential is the auth provider's stored login for an identity. PK: email.
type Credential struct {
	Email        string    `json:"-" dynamodbav:"email"`
	IdentityID   string    `json:"-" dynamodbav:"identity_id"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	CreatedAt    time.Time `json:"-" dynamodbav:"created_at"`
}

// Session is an auth provider session. Bearer is only populated when the session is issued.
type Session struct {
	SessionID  string    `json:"id" dynamodbav:"session_id"`
	IdentityID string    `json:"identity_id" dynamodbav:"identity_id"`
	Email      string    `json:"email" dynamodbav:"email"`
	Enable     bool      `json:"enable" dynamodbav:"enable"`
	ExpiresAt  time.Time `json:"expires_at" dynamodbav:"expires_at"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
	Bearer     string    `json:"-" dynamodbav:"-"`
}

// Active reports whether the session can still authenticate requests at now.
func (s *Session) Active(now time.Time) bool {
	return s.Enable && now.Before(s.ExpiresAt)
}
