package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matsen/citecheck/internal/policy"
)

// Revision is one saved version of the scoring rules.
type Revision struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Rules     policy.Rules `json:"rules"`
}

// RulesDB keeps every saved rules version in SQLite. It implements
// policy.Store; Load returns the newest revision.
type RulesDB struct {
	db  *sql.DB
	now func() time.Time
}

var _ policy.Store = (*RulesDB)(nil)

// OpenRulesDB opens or creates a rules database at the given path.
func OpenRulesDB(path string) (*RulesDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &RulesDB{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (d *RulesDB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS rule_revisions (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at INTEGER NOT NULL,
			rules_json TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Load returns the newest rules, or the defaults when nothing was saved.
func (d *RulesDB) Load() (policy.Rules, error) {
	var data string
	err := d.db.QueryRow(`SELECT rules_json FROM rule_revisions ORDER BY seq DESC LIMIT 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return policy.DefaultRules(), nil
	}
	if err != nil {
		return policy.Rules{}, fmt.Errorf("querying rules: %w", err)
	}

	rules := policy.DefaultRules()
	if err := json.Unmarshal([]byte(data), &rules); err != nil {
		return policy.Rules{}, fmt.Errorf("parsing rules: %w", err)
	}
	return rules, nil
}

// Save appends a new revision.
func (d *RulesDB) Save(rules policy.Rules) error {
	_, err := d.SaveRevision(rules)
	return err
}

// SaveRevision appends a new revision and returns it.
func (d *RulesDB) SaveRevision(rules policy.Rules) (Revision, error) {
	data, err := json.Marshal(rules)
	if err != nil {
		return Revision{}, fmt.Errorf("encoding rules: %w", err)
	}

	rev := Revision{
		ID:        uuid.NewString(),
		CreatedAt: d.now().UTC(),
		Rules:     rules,
	}
	_, err = d.db.Exec(
		`INSERT INTO rule_revisions (id, created_at, rules_json) VALUES (?, ?, ?)`,
		rev.ID, rev.CreatedAt.UnixNano(), string(data),
	)
	if err != nil {
		return Revision{}, fmt.Errorf("inserting revision: %w", err)
	}
	return rev, nil
}

// History returns up to limit revisions, newest first. A non-positive
// limit returns all of them.
func (d *RulesDB) History(limit int) ([]Revision, error) {
	query := `SELECT id, created_at, rules_json FROM rule_revisions ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	revs := []Revision{}
	for rows.Next() {
		var (
			rev     Revision
			created int64
			data    string
		)
		if err := rows.Scan(&rev.ID, &created, &data); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		rev.CreatedAt = time.Unix(0, created).UTC()
		rev.Rules = policy.DefaultRules()
		if err := json.Unmarshal([]byte(data), &rev.Rules); err != nil {
			return nil, fmt.Errorf("parsing revision %s: %w", rev.ID, err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return revs, nil
}
