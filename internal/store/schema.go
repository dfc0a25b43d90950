package store

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is an additive column change. It runs only when the column is
// missing and is recorded in schema_migrations once applied.
type migration struct {
	version int
	name    string
	table   string
	column  string
	ddl     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "add_task_note",
		table:   "tasks",
		column:  "note",
		ddl:     "ALTER TABLE tasks ADD COLUMN note TEXT",
	},
}

// AppliedMigration is a row of schema_migrations.
type AppliedMigration struct {
	Version   int
	Name      string
	AppliedAt string
}

func (s *Store) ensureSchema() error {
	steps := []struct {
		what string
		ddl  string
	}{
		{"create tasks table", `
		CREATE TABLE IF NOT EXISTS tasks (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			total_seconds INTEGER DEFAULT 0,
			created_at    TEXT DEFAULT (datetime('now', 'localtime'))
		)`},
		{"create favourites table", `
		CREATE TABLE IF NOT EXISTS favourites (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			name             TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			created_at       TEXT DEFAULT (datetime('now', 'localtime'))
		)`},
		{"create tasks index", `CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at)`},
		{"create schema_migrations table", `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`},
	}
	for _, st := range steps {
		if _, err := s.db.Exec(st.ddl); err != nil {
			return fmt.Errorf("%s: %w", st.what, err)
		}
	}
	return s.migrate()
}

func (s *Store) migrate() error {
	applied := make(map[int]bool)
	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return err
		}
		applied[v] = true
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := s.applyMigration(m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

func (s *Store) applyMigration(m migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := columnExists(tx, m.table, m.column)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := tx.Exec(m.ddl); err != nil {
			return err
		}
		slog.Info("schema migration applied", "version", m.version, "name", m.name)
	}

	_, err = tx.Exec(
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, datetime('now', 'localtime'))`,
		m.version, m.name,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			found = true
		}
	}
	return found, rows.Err()
}

// AppliedMigrations lists recorded migrations in version order.
func (s *Store) AppliedMigrations() ([]AppliedMigration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT version, name, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()

	var out []AppliedMigration
	for rows.Next() {
		var m AppliedMigration
		if err := rows.Scan(&m.Version, &m.Name, &m.AppliedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
