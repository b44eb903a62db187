package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"rvu-tracker/internal/models"
)

// PostgresStore persists snapshots in Postgres, for deployments where the
// study list must survive the server process.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects and ensures the schema exists.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scanned_studies (
			id TEXT PRIMARY KEY,
			position INT NOT NULL,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			rvu DOUBLE PRECISION NOT NULL,
			quantity INT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			original_text TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS report_meta (
			id INT PRIMARY KEY,
			physician TEXT NOT NULL DEFAULT '',
			group_name TEXT NOT NULL DEFAULT '',
			hospital TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, code, name, rvu, quantity, confidence, original_text FROM scanned_studies ORDER BY position ASC")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load studies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st models.ScannedStudy
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.RVU, &st.Quantity, &st.Confidence, &st.OriginalText); err != nil {
			return Snapshot{}, fmt.Errorf("failed to scan study: %w", err)
		}
		snap.Studies = append(snap.Studies, st)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load studies: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT physician, group_name, hospital FROM report_meta WHERE id = 1").
		Scan(&snap.Meta.Physician, &snap.Meta.Group, &snap.Meta.Hospital)
	if err != nil && err != sql.ErrNoRows {
		return Snapshot{}, fmt.Errorf("failed to load report meta: %w", err)
	}

	return snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM scanned_studies"); err != nil {
		return fmt.Errorf("failed to clear studies: %w", err)
	}
	for i, st := range snap.Studies {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO scanned_studies (id, position, code, name, rvu, quantity, confidence, original_text) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
			st.ID, i, st.Code, st.Name, st.RVU, st.Quantity, st.Confidence, st.OriginalText)
		if err != nil {
			return fmt.Errorf("failed to insert study %s: %w", st.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO report_meta (id, physician, group_name, hospital) VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET physician = $1, group_name = $2, hospital = $3`,
		snap.Meta.Physician, snap.Meta.Group, snap.Meta.Hospital)
	if err != nil {
		return fmt.Errorf("failed to save report meta: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
