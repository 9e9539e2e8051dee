package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type mockEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestLimiter_NilFailsOpen(t *testing.T) {
	var l *Limiter
	assert.True(t, l.Allow(context.Background(), "resend:a@x.com"))
	assert.Nil(t, NewLimiter(nil, time.Minute, 3))
}

func TestLimiter_EmptyKeyRejected(t *testing.T) {
	l := &Limiter{client: &mockEvaler{result: 1}, window: time.Minute, max: 3}
	assert.False(t, l.Allow(context.Background(), "   "))
}

func TestLimiter_WithinMax(t *testing.T) {
	m := &mockEvaler{result: 2}
	l := &Limiter{client: m, window: 2 * time.Minute, max: 3}

	assert.True(t, l.Allow(context.Background(), "resend:a@x.com"))
	assert.Equal(t, []string{"otp:rl:resend:a@x.com"}, m.lastKeys)
	assert.Equal(t, []interface{}{120}, m.lastArgs)
	assert.Equal(t, allowScript, m.lastScript)
}

func TestLimiter_OverMax(t *testing.T) {
	l := &Limiter{client: &mockEvaler{result: 4}, window: time.Minute, max: 3}
	assert.False(t, l.Allow(context.Background(), "verify:a@x.com"))
}

func TestLimiter_RedisErrorFailsOpen(t *testing.T) {
	l := &Limiter{client: &mockEvaler{err: errors.New("redis down")}, window: time.Minute, max: 3}
	assert.True(t, l.Allow(context.Background(), "verify:a@x.com"))
}

func TestLimiter_KeyCaseIsPreserved(t *testing.T) {
	m := &mockEvaler{result: 1}
	l := &Limiter{client: m, window: time.Minute, max: 3}

	l.Allow(context.Background(), "verify:A@x.com")
	assert.Equal(t, []string{"otp:rl:verify:A@x.com"}, m.lastKeys)
	l.Allow(context.Background(), "verify:a@x.com")
	assert.Equal(t, []string{"otp:rl:verify:a@x.com"}, m.lastKeys)
}
