// Package notification delivers issued verification codes to their owners.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/travel-atlas/internal/infrastructure/smtp"
	"github.com/travel-atlas/internal/infrastructure/sns"
)

const subject = "Your Travel Atlas verification code"

var codeTemplate = template.Must(template.New("code").Parse(
	`<p>Your verification code is <strong>{{.Code}}</strong>.</p>` +
		`<p>It expires at {{.ExpiresAt}}.</p>`,
))

type codeEmail struct {
	Code      string
	ExpiresAt string
}

// LogNotifier is the diagnostic stand-in for real delivery. The code itself is
// only written to the log when reveal is set.
type LogNotifier struct {
	reveal bool
}

func NewLogNotifier(reveal bool) *LogNotifier {
	return &LogNotifier{reveal: reveal}
}

func (n *LogNotifier) DeliverCode(_ context.Context, email, code string, expiresAt time.Time) error {
	shown := Mask(code)
	if n.reveal {
		shown = code
	}
	slog.Info("verification code issued", "email", email, "code", shown, "expires_at", expiresAt.Format(time.RFC3339))
	return nil
}

// MailNotifier sends the code as an HTML email.
type MailNotifier struct {
	mailer smtp.Mailer
}

func NewMailNotifier(mailer smtp.Mailer) *MailNotifier {
	return &MailNotifier{mailer: mailer}
}

func (n *MailNotifier) DeliverCode(_ context.Context, email, code string, expiresAt time.Time) error {
	var body bytes.Buffer
	if err := codeTemplate.Execute(&body, codeEmail{Code: code, ExpiresAt: expiresAt.UTC().Format(time.RFC1123)}); err != nil {
		return fmt.Errorf("render code email: %w", err)
	}
	return n.mailer.SendEmail(email, subject, body.String())
}

// TopicNotifier publishes the code to an SNS topic whose subscribers handle delivery.
type TopicNotifier struct {
	publisher sns.Publisher
}

func NewTopicNotifier(publisher sns.Publisher) *TopicNotifier {
	return &TopicNotifier{publisher: publisher}
}

func (n *TopicNotifier) DeliverCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	return n.publisher.Publish(ctx, subject, code, map[string]string{
		"email":      email,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}

// Mask hides all but the last two digits of a code.
func Mask(code string) string {
	if len(code) <= 2 {
		return "******"
	}
	return "****" + code[len(code)-2:]
}
