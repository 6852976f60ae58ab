package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/searchops/internal/ir"
)

// Recorder appends parse requests to a Store, assigning ids and seq values.
type Recorder struct {
	store  *Store
	ids    IDGenerator
	clock  *Clock
	logger *slog.Logger
}

// NewRecorder creates a Recorder whose clock resumes after the last stored
// seq. A nil ids uses UUIDv7Generator; a nil logger uses slog.Default().
func NewRecorder(ctx context.Context, s *Store, ids IDGenerator, logger *slog.Logger) (*Recorder, error) {
	last, err := s.LastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("new recorder: %w", err)
	}
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: s, ids: ids, clock: NewClockAt(last), logger: logger}, nil
}

// Record stores one parse and returns the stored record.
func (r *Recorder) Record(ctx context.Context, search, residual string, fields ir.Fields, matches, operators int) (ParseRecord, error) {
	rec := ParseRecord{
		ID:        r.ids.Generate(),
		Seq:       r.clock.Next(),
		Search:    search,
		Residual:  residual,
		Fields:    fields,
		Matches:   matches,
		Operators: operators,
	}

	fp, inserted, err := r.store.WriteParse(ctx, rec)
	if err != nil {
		return ParseRecord{}, err
	}
	rec.Fingerprint = fp
	if rec.Fields == nil {
		rec.Fields = ir.NewFields()
	}

	r.logger.Debug("parse recorded",
		"id", rec.ID,
		"seq", rec.Seq,
		"fingerprint", fp,
		"inserted", inserted,
	)
	return rec, nil
}
