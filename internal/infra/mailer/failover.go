package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/resilience"
	"github.com/devsamp/devsamp-bfa-go/internal/port"
)

// ErrNoProviders is returned by an empty failover chain.
var ErrNoProviders = errors.New("no email providers configured")

// Failover tries each provider in order until one succeeds.
type Failover struct {
	providers []port.Mailer
}

func NewFailover(providers ...port.Mailer) *Failover {
	return &Failover{providers: providers}
}

func (f *Failover) Name() string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return "failover(" + strings.Join(names, ",") + ")"
}

func (f *Failover) Send(ctx context.Context, msg domain.Message) error {
	if len(f.providers) == 0 {
		return ErrNoProviders
	}
	var errs []error
	for _, p := range f.providers {
		err := p.Send(ctx, msg)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

// Guarded runs a provider behind a circuit breaker and bulkhead.
type Guarded struct {
	next  port.Mailer
	guard *resilience.Guard
}

func NewGuarded(next port.Mailer, guard *resilience.Guard) *Guarded {
	return &Guarded{next: next, guard: guard}
}

func (g *Guarded) Name() string { return g.next.Name() }

func (g *Guarded) Send(ctx context.Context, msg domain.Message) error {
	return g.guard.Do(ctx, func(ctx context.Context) error {
		return g.next.Send(ctx, msg)
	})
}
