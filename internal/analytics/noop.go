package analytics

import (
	"context"

	"github.com/rs/zerolog"

	"shortlink/internal/accesslog"
)

// NoopSink is used when no analytics DSN is configured. Records are logged
// at debug level and dropped; visit sums are always zero.
type NoopSink struct {
	log *zerolog.Logger
}

func NewNoopSink(log *zerolog.Logger) *NoopSink {
	return &NoopSink{log: log}
}

func (s *NoopSink) Write(ctx context.Context, rec accesslog.Record) error {
	s.log.Debug().
		Strs("indexes", rec.Indexes).
		Strs("blobs", rec.Blobs).
		Floats64("doubles", rec.Doubles).
		Msg("access log dropped, no analytics backend configured")
	return nil
}

func (s *NoopSink) VisitSum(ctx context.Context, slug string) (int64, error) {
	return 0, nil
}

func (s *NoopSink) Close() error { return nil }
