package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/josephgoksu/officekit/internal/spec"
)

// Store is a SQLite-backed turn log.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the history database at path.
// ":memory:" gives a private in-process database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		id TEXT PRIMARY KEY,
		user_input TEXT NOT NULL,
		status TEXT NOT NULL,
		host TEXT,
		complexity INTEGER DEFAULT 0,
		should_continue INTEGER DEFAULT 0,
		is_custom_function INTEGER DEFAULT 0,
		tasks TEXT,                 -- JSON array
		code TEXT,
		model TEXT,
		sample_ids TEXT,            -- JSON array
		properties TEXT,            -- JSON object
		measurements TEXT,          -- JSON object
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_turns_created ON turns(created_at);
	CREATE INDEX IF NOT EXISTS idx_turns_host ON turns(host);
	CREATE INDEX IF NOT EXISTS idx_turns_status ON turns(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the final state of a turn. Recording the same spec again
// replaces the earlier row.
func (s *Store) Record(ctx context.Context, sp *spec.Spec, status string) error {
	snap := sp.Appendix.Telemetry.Snapshot()
	props := make(map[string]string)
	measures := make(map[string]float64)
	for k, v := range snap {
		switch val := v.(type) {
		case string:
			props[k] = val
		case float64:
			measures[k] = val
		}
	}

	tasks, err := marshalColumn(sp.Appendix.CodeTaskBreakdown)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	sampleIDs, err := marshalColumn(sp.Appendix.SampleIDs)
	if err != nil {
		return fmt.Errorf("encode sample ids: %w", err)
	}
	propsCol, err := marshalColumn(props)
	if err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}
	measuresCol, err := marshalColumn(measures)
	if err != nil {
		return fmt.Errorf("encode measurements: %w", err)
	}

	createdAt := sp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO turns (
			id, user_input, status, host, complexity, should_continue, is_custom_function,
			tasks, code, model, sample_ids, properties, measurements, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sp.ID, sp.UserInput, status, sp.Appendix.Host, sp.Appendix.Complexity,
		sp.Appendix.ShouldContinue, sp.Appendix.IsCustomFunction,
		tasks, sp.Appendix.CodeSnippet, sp.Appendix.Model, sampleIDs, propsCol, measuresCol,
		createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// Get returns one turn by id. A unique id prefix is accepted.
func (s *Store) Get(ctx context.Context, id string) (*Turn, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_input, status, host, complexity, should_continue, is_custom_function,
		       tasks, code, model, sample_ids, properties, measurements, created_at
		FROM turns WHERE substr(id, 1, ?) = ? ORDER BY id = ? DESC LIMIT 2`,
		utf8.RuneCountInString(id), id, id)
	if err != nil {
		return nil, fmt.Errorf("query turn: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var found []*Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, t)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}

	switch {
	case len(found) == 0:
		return nil, ErrNotFound
	case found[0].ID == id || len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("turn id prefix %q is ambiguous", id)
	}
}

// List returns the most recent turns first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]TurnSummary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var (
		where []string
		args  []any
	)
	if opts.Host != "" {
		where = append(where, "host = ? COLLATE NOCASE")
		args = append(args, opts.Host)
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}

	query := "SELECT id, user_input, status, host, complexity, model, created_at FROM turns"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TurnSummary
	for rows.Next() {
		var (
			t         TurnSummary
			host      sql.NullString
			model     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.UserInput, &t.Status, &host, &t.Complexity, &model, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Host = host.String
		t.Model = model.String
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, t)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return out, nil
}

// Purge deletes turns created before cutoff and returns how many were removed.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM turns WHERE created_at < ?",
		cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("purge turns: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTurn(row scanner) (*Turn, error) {
	var (
		t                                                   Turn
		host, tasks, code, model, sampleIDs, props, measure sql.NullString
		createdAt                                           string
	)
	err := row.Scan(&t.ID, &t.UserInput, &t.Status, &host, &t.Complexity, &t.ShouldContinue,
		&t.IsCustomFunction, &tasks, &code, &model, &sampleIDs, &props, &measure, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan turn: %w", err)
	}

	t.Host = host.String
	t.Code = code.String
	t.Model = model.String
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if err := unmarshalColumn(tasks, &t.Tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if err := unmarshalColumn(sampleIDs, &t.SampleIDs); err != nil {
		return nil, fmt.Errorf("decode sample ids: %w", err)
	}
	if err := unmarshalColumn(props, &t.Properties); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	if err := unmarshalColumn(measure, &t.Measurements); err != nil {
		return nil, fmt.Errorf("decode measurements: %w", err)
	}
	return &t, nil
}
