package mail

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// logMailer writes messages to the structured log instead of delivering them. It is used
// in development when SMTP is disabled so verification codes remain reachable.
type logMailer struct {
	log *zap.Logger
}

// NewLogMailer returns a Mailer that records messages at debug level.
func NewLogMailer(log *zap.Logger) Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &logMailer{log: log}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	recipients := uniqueAddresses(msg.To)
	if len(recipients) == 0 {
		return errors.New("mail: at least one recipient is required")
	}
	m.log.Debug("mail not delivered (smtp disabled)",
		zap.Strings("to", recipients),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
