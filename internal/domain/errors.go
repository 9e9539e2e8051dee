package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)

// Verification flow errors. Each one is a distinct outcome the UI renders differently.
var (
	ErrAccountNotFound = errors.New("user not found")
	ErrInvalidCode     = errors.New("invalid OTP")
	ErrCodeExpired     = errors.New("OTP has expired")
	ErrNotVerified     = errors.New("email not verified, please verify your email first")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrIdentityMissing = errors.New("no user returned from signup")
	ErrPersistence     = errors.New("account store write failed")
	ErrRateLimited     = errors.New("too many attempts, try again later")
	ErrAuthProvider    = errors.New("auth provider rejected the request")
)

// AuthErrorCode is the closed set of reasons the auth provider may reject a request.
type AuthErrorCode string

const (
	AuthUserAlreadyExists   AuthErrorCode = "user_already_exists"
	AuthWeakPassword        AuthErrorCode = "weak_password"
	AuthInvalidCredentials  AuthErrorCode = "invalid_credentials"
	AuthSessionNotFound     AuthErrorCode = "session_not_found"
	AuthProviderUnavailable AuthErrorCode = "provider_unavailable"
)

// AuthProviderError is a provider rejection translated at the boundary.
// It matches ErrAuthProvider under errors.Is.
type AuthProviderError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

func NewAuthProviderError(code AuthErrorCode, msg string, cause error) *AuthProviderError {
	return &AuthProviderError{Code: code, Message: msg, Err: cause}
}

func (e *AuthProviderError) Error() string { return e.Message }

func (e *AuthProviderError) Unwrap() error { return e.Err }

func (e *AuthProviderError) Is(target error) bool { return target == ErrAuthProvider }
