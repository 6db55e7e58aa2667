package kv

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed sql/*.sql
var schemaFS embed.FS

// revision is one embedded schema step, named NNNN_name.sql.
type revision struct {
	version int
	name    string
	ddl     string
}

func loadRevisions() ([]revision, error) {
	entries, err := fs.ReadDir(schemaFS, "sql")
	if err != nil {
		return nil, err
	}
	revs := make([]revision, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			return nil, fmt.Errorf("schema file %s: no numeric prefix: %w", name, err)
		}
		ddl, err := schemaFS.ReadFile("sql/" + name)
		if err != nil {
			return nil, err
		}
		revs = append(revs, revision{version: version, name: name, ddl: string(ddl)})
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].version < revs[j].version })
	return revs, nil
}

// Migrate brings the workspace database up to the current schema. The
// schema_version table records the last applied revision, so reopening an
// existing workspace only runs what it is missing; a fresh database gets
// everything. All pending revisions apply inside one transaction.
func (s *Store) Migrate() error {
	revs, err := loadRevisions()
	if err != nil {
		return err
	}
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_version(version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	current := 0
	err = tx.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&current)
	if err == sql.ErrNoRows {
		if _, err := tx.Exec(`INSERT INTO schema_version(version) VALUES (0)`); err != nil {
			return fmt.Errorf("seed schema_version: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("read schema_version: %w", err)
	}

	for _, rev := range revs {
		if rev.version <= current {
			continue
		}
		if _, err := tx.Exec(rev.ddl); err != nil {
			return fmt.Errorf("apply %s: %w", rev.name, err)
		}
		if _, err := tx.Exec(`UPDATE schema_version SET version=?`, rev.version); err != nil {
			return fmt.Errorf("record %s: %w", rev.name, err)
		}
		current = rev.version
	}
	return tx.Commit()
}
