package notify

import (
	"context"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
)

type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Message struct {
	To         Address
	Subject    string
	HTML       string
	Categories []string
}

// Mailer delivers one rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer records messages instead of delivering them. Used when no
// SendGrid key is configured.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.With("client", "LogMailer")}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("email delivery disabled, dropping message",
		"email", msg.To.Email,
		"subject", msg.Subject,
		"html_bytes", len(msg.HTML),
	)
	return nil
}
