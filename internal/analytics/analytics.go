package analytics

import (
	"context"

	"shortlink/internal/accesslog"
)

// Sink is the analytics store boundary. Write persists one access-log
// record; VisitSum returns the sampled visit total for a slug. Callers on
// the redirect path must treat every error as non-fatal.
type Sink interface {
	Write(ctx context.Context, rec accesslog.Record) error
	VisitSum(ctx context.Context, slug string) (int64, error)
	Close() error
}
