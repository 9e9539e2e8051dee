package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel-atlas/internal/domain"
	jwtinfra "github.com/travel-atlas/internal/infrastructure/jwt"
	"golang.org/x/crypto/bcrypt"
)

// --- fakes ---

type memCredentials struct {
	mu    sync.Mutex
	items map[string]domain.Credential
	err   error
}

func (m *memCredentials) Create(_ context.Context, c *domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.items[c.Email]; ok {
		return fmt.Errorf("condition not met: %w", domain.ErrConflict)
	}
	m.items[c.Email] = *c
	return nil
}

func (m *memCredentials) GetByEmail(_ context.Context, email string) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[email]
	if !ok {
		return nil, fmt.Errorf("credential not found: %w", domain.ErrNotFound)
	}
	return &c, nil
}

type memSessions struct {
	mu    sync.Mutex
	items map[string]domain.Session
}

func (m *memSessions) Put(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.SessionID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	return &s, nil
}

func (m *memSessions) Disable(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[sessionID]
	if !ok {
		return fmt.Errorf("condition not met: %w", domain.ErrConflict)
	}
	s.Enable = false
	m.items[sessionID] = s
	return nil
}

// fakeTokens encodes the ids into the token string itself.
type fakeTokens struct{}

func (fakeTokens) Sign(identityID, sessionID string, _ time.Time) (string, error) {
	return identityID + "|" + sessionID, nil
}

func (fakeTokens) Verify(tok string) (*jwtinfra.Claims, error) {
	for i := range tok {
		if tok[i] == '|' {
			return &jwtinfra.Claims{IdentityID: tok[:i], SessionID: tok[i+1:]}, nil
		}
	}
	return nil, errors.New("malformed token")
}

func (fakeTokens) Expiry() time.Duration { return time.Hour }

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newTestProvider() (*Provider, *memCredentials, *memSessions, *fixedClock) {
	creds := &memCredentials{items: map[string]domain.Credential{}}
	sessions := &memSessions{items: map[string]domain.Session{}}
	clk := &fixedClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	p := NewProvider(ProviderDeps{
		CredentialRepo: creds,
		SessionRepo:    sessions,
		Tokens:         fakeTokens{},
		Clock:          clk,
		HashCost:       bcrypt.MinCost,
	})
	return p, creds, sessions, clk
}

func authCode(t *testing.T, err error) domain.AuthErrorCode {
	t.Helper()
	var ape *domain.AuthProviderError
	require.True(t, errors.As(err, &ape), "expected AuthProviderError, got %v", err)
	return ape.Code
}

// --- SignUp ---

func TestSignUp_HashesPassword(t *testing.T) {
	p, creds, _, _ := newTestProvider()
	ident, err := p.SignUp(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, ident.IdentityID)

	stored := creds.items["a@x.com"]
	assert.Equal(t, ident.IdentityID, stored.IdentityID)
	assert.NotEqual(t, "pw123456", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123456")))
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	p, _, _, _ := newTestProvider()
	_, err := p.SignUp(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)

	_, err = p.SignUp(context.Background(), "a@x.com", "another-pw")
	assert.Equal(t, domain.AuthUserAlreadyExists, authCode(t, err))
	assert.True(t, errors.Is(err, domain.ErrAuthProvider))
}

func TestSignUp_WeakPassword(t *testing.T) {
	p, creds, _, _ := newTestProvider()
	_, err := p.SignUp(context.Background(), "a@x.com", "123")
	assert.Equal(t, domain.AuthWeakPassword, authCode(t, err))
	assert.Empty(t, creds.items)
}

func TestSignUp_StoreDown(t *testing.T) {
	p, creds, _, _ := newTestProvider()
	creds.err = errors.New("throttled")
	_, err := p.SignUp(context.Background(), "a@x.com", "pw123456")
	assert.Equal(t, domain.AuthProviderUnavailable, authCode(t, err))
}

// --- SignIn / SignOut / Authenticate ---

func TestSignIn_InvalidCredentials(t *testing.T) {
	p, _, _, _ := newTestProvider()
	_, err := p.SignUp(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)

	_, err = p.SignIn(context.Background(), "a@x.com", "wrong-password")
	assert.Equal(t, domain.AuthInvalidCredentials, authCode(t, err))

	_, err = p.SignIn(context.Background(), "nobody@x.com", "pw123456")
	assert.Equal(t, domain.AuthInvalidCredentials, authCode(t, err))
}

func TestSignIn_IssuesActiveSession(t *testing.T) {
	p, _, sessions, clk := newTestProvider()
	ident, err := p.SignUp(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)

	sess, err := p.SignIn(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, ident.IdentityID, sess.IdentityID)
	assert.Equal(t, clk.now.Add(time.Hour), sess.ExpiresAt)
	assert.NotEmpty(t, sess.Bearer)
	assert.True(t, sessions.items[sess.SessionID].Enable)

	got, err := p.Authenticate(context.Background(), sess.Bearer)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, got.SessionID)
}

func TestSignOut_RevokesSession(t *testing.T) {
	p, _, _, _ := newTestProvider()
	_, err := p.SignUp(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	sess, err := p.SignIn(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(context.Background(), sess.SessionID))

	_, err = p.Authenticate(context.Background(), sess.Bearer)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestSignOut_UnknownSession(t *testing.T) {
	p, _, _, _ := newTestProvider()
	err := p.SignOut(context.Background(), "missing")
	assert.Equal(t, domain.AuthSessionNotFound, authCode(t, err))
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	p, _, _, clk := newTestProvider()
	_, err := p.SignUp(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	sess, err := p.SignIn(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)

	clk.now = clk.now.Add(2 * time.Hour)
	_, err = p.Authenticate(context.Background(), sess.Bearer)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestAuthenticate_BadToken(t *testing.T) {
	p, _, _, _ := newTestProvider()
	_, err := p.Authenticate(context.Background(), "garbage")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
