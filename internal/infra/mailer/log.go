package mailer

import (
	"context"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"go.uber.org/zap"
)

// Log writes messages to the logger instead of delivering them.
// Selected when no relay credentials are configured.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Name() string { return "log" }

func (l *Log) Send(_ context.Context, msg domain.Message) error {
	l.logger.Info("email (log mailer)",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
