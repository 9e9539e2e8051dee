package notification

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	to, subject, body string
	err               error
}

func (c *captureMailer) SendEmail(to, subject, body string) error {
	c.to, c.subject, c.body = to, subject, body
	return c.err
}

type capturePublisher struct {
	subject, message string
	attrs            map[string]string
}

func (c *capturePublisher) Publish(_ context.Context, subject, message string, attrs map[string]string) error {
	c.subject, c.message, c.attrs = subject, message, attrs
	return nil
}

var expiry = time.Date(2026, 5, 4, 12, 10, 0, 0, time.UTC)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogNotifier_MasksByDefault(t *testing.T) {
	buf := captureLog(t)
	require.NoError(t, NewLogNotifier(false).DeliverCode(context.Background(), "a@x.com", "482913", expiry))
	assert.NotContains(t, buf.String(), "482913")
	assert.Contains(t, buf.String(), "****13")
}

func TestLogNotifier_RevealsInDevelopment(t *testing.T) {
	buf := captureLog(t)
	require.NoError(t, NewLogNotifier(true).DeliverCode(context.Background(), "a@x.com", "482913", expiry))
	assert.Contains(t, buf.String(), "482913")
}

func TestMailNotifier_RendersCode(t *testing.T) {
	m := &captureMailer{}
	require.NoError(t, NewMailNotifier(m).DeliverCode(context.Background(), "a@x.com", "482913", expiry))
	assert.Equal(t, "a@x.com", m.to)
	assert.Equal(t, subject, m.subject)
	assert.Contains(t, m.body, "<strong>482913</strong>")
}

func TestMailNotifier_PropagatesError(t *testing.T) {
	m := &captureMailer{err: errors.New("smtp down")}
	err := NewMailNotifier(m).DeliverCode(context.Background(), "a@x.com", "482913", expiry)
	assert.ErrorContains(t, err, "smtp down")
}

func TestTopicNotifier_Publishes(t *testing.T) {
	p := &capturePublisher{}
	require.NoError(t, NewTopicNotifier(p).DeliverCode(context.Background(), "a@x.com", "482913", expiry))
	assert.Equal(t, "482913", p.message)
	assert.Equal(t, "a@x.com", p.attrs["email"])
	assert.Equal(t, "2026-05-04T12:10:00Z", p.attrs["expires_at"])
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****13", Mask("482913"))
	assert.Equal(t, "******", Mask("1"))
}
