package storage

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// TimeLayout is the fixed-width run timestamp format, so that text order
// is time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one exported snapshot.
type Run struct {
	ID          string
	GeneratedAt time.Time
	RootDir     string
	Strategy    string
	Branch      string
	Commit      string
}

// EndpointRow is one exported endpoint with its controller.
type EndpointRow struct {
	Controller string
	File       string
	Method     string
	HTTPMethod string
	FullPath   string
	Roles      string
}

// Runs lists every run, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := sq.Select("run_id", "generated_at", "root_dir", "strategy", "branch", "commit_sha").
		From("runs").
		OrderBy("generated_at DESC", "run_id").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var generatedAt string
		if err := rows.Scan(&r.ID, &generatedAt, &r.RootDir, &r.Strategy, &r.Branch, &r.Commit); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.GeneratedAt, err = time.Parse(TimeLayout, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run time %q: %w", generatedAt, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunCounts returns the row count of every per-run table for one run.
func (s *Store) RunCounts(runID string) (map[string]int, error) {
	counts := make(map[string]int, len(Tables))
	for _, table := range Tables {
		var n int
		err := sq.Select("COUNT(*)").
			From(table).
			Where(sq.Eq{"run_id": runID}).
			RunWith(s.db).
			QueryRow().
			Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Endpoints returns the endpoints of one run ordered by path then verb.
// Decorated methods without a verb are skipped.
func (s *Store) Endpoints(runID string) ([]EndpointRow, error) {
	rows, err := sq.Select("c.name", "c.file_path", "e.name", "e.http_method", "e.full_path", "e.roles").
		From("endpoints e").
		Join("controllers c ON c.id = e.controller_id").
		Where(sq.And{sq.Eq{"e.run_id": runID}, sq.NotEq{"e.http_method": nil}}).
		OrderBy("e.full_path", "e.http_method", "e.id").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query endpoints: %w", err)
	}
	defer rows.Close()

	out := []EndpointRow{}
	for rows.Next() {
		var e EndpointRow
		if err := rows.Scan(&e.Controller, &e.File, &e.Method, &e.HTTPMethod, &e.FullPath, &e.Roles); err != nil {
			return nil, fmt.Errorf("failed to scan endpoint: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
