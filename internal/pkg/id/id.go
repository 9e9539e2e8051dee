package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID for the current time.
func New() string {
	return At(time.Now())
}

// At generates a ULID whose timestamp part is t, so identities and sessions
// sort by the moment the auth provider issued them.
func At(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
