// Package trace records executed programs into a SQLite database so they
// can be inspected later with remoptrace.
package trace

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/transport"
)

const schema = `
CREATE TABLE IF NOT EXISTS executions (
	id                TEXT PRIMARY KEY,
	created_at        TEXT NOT NULL,
	status            INTEGER NOT NULL,
	instruction_count INTEGER NOT NULL,
	disasm            TEXT NOT NULL,
	results_json      TEXT NOT NULL
);
`

// Entry is one recorded execution.
type Entry struct {
	Id               uuid.UUID
	CreatedAt        time.Time
	Status           int32
	InstructionCount int
	Disasm           string
	ResultsJSON      string
}

// Store is a SQLite-backed execution log.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the trace database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open trace db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init trace db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record stores one completed execution.
func (s *Store) Record(req *transport.Request, resp *transport.Response) error {
	results := make(map[string]string, len(resp.Results))
	for id, v := range resp.Results {
		results[fmt.Sprintf("%d", id)] = v.Inspect()
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO executions (id, created_at, status, instruction_count, disasm, results_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.Program.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
		resp.Status,
		len(req.Instructions),
		bytecode.Disassemble(req.Instructions, req.Program.String()),
		string(resultsJSON),
	)
	if err != nil {
		return fmt.Errorf("record execution: %w", err)
	}
	return nil
}

// List returns the most recent executions, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, created_at, status, instruction_count, disasm, results_json
		 FROM executions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one recorded execution by program id.
func (s *Store) Get(id uuid.UUID) (Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, status, instruction_count, disasm, results_json
		 FROM executions WHERE id = ?`, id.String())
	return scanEntry(row.Scan)
}

func scanEntry(scan func(...interface{}) error) (Entry, error) {
	var e Entry
	var rawId, rawCreated string
	if err := scan(&rawId, &rawCreated, &e.Status, &e.InstructionCount, &e.Disasm, &e.ResultsJSON); err != nil {
		return Entry{}, err
	}
	id, err := uuid.Parse(rawId)
	if err != nil {
		return Entry{}, fmt.Errorf("bad execution id %q: %w", rawId, err)
	}
	e.Id = id
	created, err := time.Parse(time.RFC3339Nano, rawCreated)
	if err != nil {
		return Entry{}, fmt.Errorf("bad timestamp %q: %w", rawCreated, err)
	}
	e.CreatedAt = created
	return e, nil
}
