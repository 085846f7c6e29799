package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"skilltree/internal/skill"
)

const schema = `
CREATE TABLE IF NOT EXISTS skills (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	parent_id INTEGER REFERENCES skills(id)
);
CREATE INDEX IF NOT EXISTS idx_skills_parent ON skills(parent_id);

CREATE TABLE IF NOT EXISTS counters (
	id       INTEGER PRIMARY KEY,
	skill_id INTEGER NOT NULL REFERENCES skills(id),
	name     TEXT NOT NULL,
	unit     TEXT,
	value    REAL NOT NULL DEFAULT 0,
	target   REAL
);
CREATE INDEX IF NOT EXISTS idx_counters_skill ON counters(skill_id);
`

// SQLite persists the state in a SQLite database. Save rewrites both
// tables inside one transaction, so replace-all operations either commit
// fully or leave the previous state in place.
type SQLite struct {
	conn *sql.DB
	Path string
}

// OpenSQLite opens (creating if needed) a SQLite database with WAL mode
// and foreign keys enabled, and ensures the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{conn: conn, Path: path}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) Load() (*skill.State, error) {
	st := skill.NewState()

	rows, err := s.conn.Query(`SELECT id, name, parent_id FROM skills`)
	if err != nil {
		return nil, fmt.Errorf("querying skills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sk skill.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.ParentID); err != nil {
			return nil, fmt.Errorf("scanning skill: %w", err)
		}
		st.Skills[sk.ID] = sk
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := s.conn.Query(`SELECT id, skill_id, name, unit, value, target FROM counters`)
	if err != nil {
		return nil, fmt.Errorf("querying counters: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var c skill.Counter
		if err := crows.Scan(&c.ID, &c.SkillID, &c.Name, &c.Unit, &c.Value, &c.Target); err != nil {
			return nil, fmt.Errorf("scanning counter: %w", err)
		}
		st.Counters[c.ID] = c
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *SQLite) Save(st *skill.State) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Ascending-ID insert order does not guarantee parents precede their
	// children after reparenting, so FK checks wait until commit.
	if _, err := tx.Exec(`PRAGMA defer_foreign_keys=ON`); err != nil {
		return fmt.Errorf("deferring foreign keys: %w", err)
	}

	// Counters reference skills, so they go first on delete, last on insert.
	if _, err := tx.Exec(`DELETE FROM counters`); err != nil {
		return fmt.Errorf("clearing counters: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM skills`); err != nil {
		return fmt.Errorf("clearing skills: %w", err)
	}

	for _, id := range st.SkillIDs() {
		sk := st.Skills[id]
		if _, err := tx.Exec(
			`INSERT INTO skills (id, name, parent_id) VALUES (?, ?, ?)`,
			sk.ID, sk.Name, sk.ParentID,
		); err != nil {
			return fmt.Errorf("inserting skill %d: %w", sk.ID, err)
		}
	}
	for _, id := range st.CounterIDs() {
		c := st.Counters[id]
		if _, err := tx.Exec(
			`INSERT INTO counters (id, skill_id, name, unit, value, target) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.SkillID, c.Name, c.Unit, c.Value, c.Target,
		); err != nil {
			return fmt.Errorf("inserting counter %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}
