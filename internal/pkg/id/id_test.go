package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAt_EncodesTimestamp(t *testing.T) {
	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	u, err := ulid.Parse(At(at))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), u.Time())
}

func TestNew_Unique(t *testing.T) {
	assert.NotEqual(t, New(), New())
	assert.Len(t, New(), 26)
}
