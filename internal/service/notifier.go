package service

import (
	"context"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"
	"github.com/devsamp/devsamp-bfa-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Notifier owns best-effort delivery. Failures are logged and counted,
// never returned. Delivery runs detached from the caller's cancellation.
type Notifier struct {
	mailer  port.Mailer
	metrics *observability.Metrics
	logger  *zap.Logger
	timeout time.Duration
}

// NewNotifier wraps mailer with the best-effort policy.
func NewNotifier(mailer port.Mailer, metrics *observability.Metrics, logger *zap.Logger, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Notifier{mailer: mailer, metrics: metrics, logger: logger, timeout: timeout}
}

// Notify attempts one delivery and reports whether it succeeded.
// A panicking mailer counts as a failed delivery.
func (n *Notifier) Notify(ctx context.Context, msg domain.Message) (ok bool) {
	ctx, span := tracer.Start(ctx, "Notifier.Notify")
	defer span.End()
	span.SetAttributes(attribute.String("notification.kind", string(msg.Kind)))

	defer func() {
		if r := recover(); r != nil {
			n.metrics.IncrNotification(msg.Kind, false)
			n.logger.Error("notification panicked",
				zap.String("kind", string(msg.Kind)),
				zap.String("recipient", msg.To),
				zap.String("mailer", n.mailer.Name()),
				zap.Any("panic", r),
			)
			ok = false
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	start := time.Now()
	err := n.mailer.Send(ctx, msg)
	n.metrics.IncrNotification(msg.Kind, err == nil)

	if err != nil {
		span.RecordError(err)
		n.logger.Error("notification failed",
			zap.String("kind", string(msg.Kind)),
			zap.String("recipient", msg.To),
			zap.String("mailer", n.mailer.Name()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return false
	}

	n.logger.Info("notification sent",
		zap.String("kind", string(msg.Kind)),
		zap.String("recipient", msg.To),
		zap.String("mailer", n.mailer.Name()),
		zap.Duration("latency", time.Since(start)),
	)
	return true
}
