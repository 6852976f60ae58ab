package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/searchops/internal/ir"
)

// ErrNotFound is returned when a parse id is not in the store.
var ErrNotFound = errors.New("parse not found")

// ParseRecord is one stored parse request.
type ParseRecord struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	Search      string    `json:"search"`
	Residual    string    `json:"residual"`
	Fields      ir.Fields `json:"fields"`
	Fingerprint string    `json:"fingerprint"`
	Matches     int       `json:"matches"`
	Operators   int       `json:"operators"`
}

// WriteParse inserts a parse record. Fields are stored as canonical JSON and
// the fingerprint is recomputed from them; rec.Fingerprint is ignored.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency. Returns the stored
// fingerprint and whether a new row was inserted.
func (s *Store) WriteParse(ctx context.Context, rec ParseRecord) (fingerprint string, inserted bool, err error) {
	fields := rec.Fields
	if fields == nil {
		fields = ir.NewFields()
	}

	fieldsJSON, err := ir.MarshalCanonical(fields)
	if err != nil {
		return "", false, fmt.Errorf("write parse: %w", err)
	}
	fingerprint, err = ir.Fingerprint(fields)
	if err != nil {
		return "", false, fmt.Errorf("write parse: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO parses
		(id, seq, search, residual, fields, fingerprint, matches, operators)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Seq,
		rec.Search,
		rec.Residual,
		string(fieldsJSON),
		fingerprint,
		rec.Matches,
		rec.Operators,
	)
	if err != nil {
		return "", false, fmt.Errorf("write parse: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("write parse: rows affected: %w", err)
	}

	return fingerprint, rows > 0, nil
}

// ReadParse returns the parse stored under id, or ErrNotFound.
func (s *Store) ReadParse(ctx context.Context, id string) (ParseRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, search, residual, fields, fingerprint, matches, operators
		FROM parses
		WHERE id = ?
	`, id)

	rec, err := scanParse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ParseRecord{}, fmt.Errorf("read parse %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return ParseRecord{}, fmt.Errorf("read parse %q: %w", id, err)
	}
	return rec, nil
}

// ReadParses returns the most recent limit parses in seq order.
// A limit <= 0 returns every parse.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ReadParses(ctx context.Context, limit int) ([]ParseRecord, error) {
	query := `
		SELECT id, seq, search, residual, fields, fingerprint, matches, operators
		FROM parses
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`
	var args []any
	if limit > 0 {
		query = `
			SELECT id, seq, search, residual, fields, fingerprint, matches, operators
			FROM (
				SELECT * FROM parses
				ORDER BY seq DESC, id COLLATE BINARY DESC
				LIMIT ?
			)
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query parses: %w", err)
	}
	defer rows.Close()

	records := []ParseRecord{}
	for rows.Next() {
		rec, err := scanParse(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parses: %w", err)
	}

	return records, nil
}

// CountByFingerprint returns how many stored parses extracted fields with
// the given fingerprint.
func (s *Store) CountByFingerprint(ctx context.Context, fingerprint string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM parses WHERE fingerprint = ?`, fingerprint,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count by fingerprint: %w", err)
	}
	return count, nil
}

// LastSeq returns the highest stored seq, or 0 for an empty store.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM parses`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParse(row scanner) (ParseRecord, error) {
	var (
		rec        ParseRecord
		fieldsJSON string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Seq,
		&rec.Search,
		&rec.Residual,
		&fieldsJSON,
		&rec.Fingerprint,
		&rec.Matches,
		&rec.Operators,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ParseRecord{}, err
		}
		return ParseRecord{}, fmt.Errorf("scan parse: %w", err)
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return ParseRecord{}, fmt.Errorf("unmarshal fields for parse %s: %w", rec.ID, err)
	}
	return rec, nil
}
