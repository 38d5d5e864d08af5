// Package store persists repeat-finding runs to sqlite so results can be
// listed and reloaded later.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/asynkron/supermaxrep"
	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id has no stored row.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is the summary row of one stored scan.
type Run struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Mode      string    `json:"mode"`
	MinLen    int       `json:"min_len"`
	MinOcc    int       `json:"min_occ"`
	Documents int       `json:"documents"`
	Units     int       `json:"units"`
	Repeats   int       `json:"repeats"`
}

// RunInput is everything SaveRun records for one scan.
type RunInput struct {
	Names   []string
	Options supermaxrep.Options
	Stats   supermaxrep.Stats
	Matches []supermaxrep.Match
}

// Store wraps a sqlite database holding runs.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a scan and its repeats in one transaction.
func (s *Store) SaveRun(ctx context.Context, in RunInput) (Run, error) {
	mode := in.Options.Mode
	if mode == "" {
		mode = supermaxrep.ModeChar
	}
	run := Run{
		ID:        uuid.New(),
		CreatedAt: s.now().UTC(),
		Mode:      string(mode),
		MinLen:    in.Options.MinLen,
		MinOcc:    in.Options.MinOcc,
		Documents: in.Stats.Documents,
		Units:     in.Stats.Units,
		Repeats:   len(in.Matches),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs(id, created_at, mode, min_len, min_occ, documents, units, repeats) VALUES(?,?,?,?,?,?,?,?)`,
		run.ID.String(), run.CreatedAt.Format(timeLayout), run.Mode,
		run.MinLen, run.MinOcc, run.Documents, run.Units, run.Repeats,
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	for i, name := range in.Names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents(run_id, doc_idx, name) VALUES(?,?,?)`,
			run.ID.String(), i, name,
		); err != nil {
			return Run{}, fmt.Errorf("insert document: %w", err)
		}
	}

	for _, m := range in.Matches {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO repeats(run_id, doc_idx, start, len, occurrences, text) VALUES(?,?,?,?,?,?)`,
			run.ID.String(), m.DocIdx, m.Start, m.Len, m.Occurrences, m.Text,
		)
		if err != nil {
			return Run{}, fmt.Errorf("insert repeat: %w", err)
		}
		repeatID, err := res.LastInsertId()
		if err != nil {
			return Run{}, fmt.Errorf("repeat last insert id: %w", err)
		}
		for _, loc := range m.Locations {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO locations(repeat_id, doc_idx, start) VALUES(?,?,?)`,
				repeatID, loc.DocIdx, loc.Start,
			); err != nil {
				return Run{}, fmt.Errorf("insert location: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit tx: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, mode, min_len, min_occ, documents, units, repeats
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun loads a single run summary.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, mode, min_len, min_occ, documents, units, repeats
		 FROM runs WHERE id = ?`, id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// Documents returns the document names of a run, by index.
func (s *Store) Documents(ctx context.Context, id uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM documents WHERE run_id = ? ORDER BY doc_idx`, id.String())
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Repeats loads the stored matches of a run in their original order.
func (s *Store) Repeats(ctx context.Context, id uuid.UUID) ([]supermaxrep.Match, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc_idx, start, len, occurrences, text FROM repeats WHERE run_id = ? ORDER BY id`,
		id.String())
	if err != nil {
		return nil, fmt.Errorf("query repeats: %w", err)
	}

	var ids []int64
	matches := []supermaxrep.Match{}
	for rows.Next() {
		var repeatID int64
		var m supermaxrep.Match
		if err := rows.Scan(&repeatID, &m.DocIdx, &m.Start, &m.Len, &m.Occurrences, &m.Text); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan repeat: %w", err)
		}
		ids = append(ids, repeatID)
		matches = append(matches, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repeats: %w", err)
	}

	for i, repeatID := range ids {
		locs, err := s.locations(ctx, repeatID)
		if err != nil {
			return nil, err
		}
		matches[i].Locations = locs
	}
	return matches, nil
}

func (s *Store) locations(ctx context.Context, repeatID int64) ([]supermaxrep.Location, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_idx, start FROM locations WHERE repeat_id = ? ORDER BY doc_idx, start`, repeatID)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var locs []supermaxrep.Location
	for rows.Next() {
		var loc supermaxrep.Location
		if err := rows.Scan(&loc.DocIdx, &loc.Start); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// CountRows returns the number of rows in table.
func (s *Store) CountRows(table string) (int, error) {
	switch table {
	case "runs", "documents", "repeats", "locations":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	row := s.db.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var id, created string
	if err := row.Scan(&id, &created, &run.Mode, &run.MinLen, &run.MinOcc, &run.Documents, &run.Units, &run.Repeats); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("parse run id: %w", err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	return run, nil
}
