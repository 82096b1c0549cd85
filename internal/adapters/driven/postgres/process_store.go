package postgres

import (
	"context"
	"database/sql"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ProcessStore = (*ProcessStore)(nil)

// ProcessStore implements driven.ProcessStore using PostgreSQL
type ProcessStore struct {
	db *DB
}

// NewProcessStore creates a new ProcessStore
func NewProcessStore(db *DB) *ProcessStore {
	return &ProcessStore{db: db}
}

// Save creates or updates a process
func (s *ProcessStore) Save(ctx context.Context, process *domain.Process) error {
	query := `
		INSERT INTO processes (id, name, category, frequency_per_month, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			frequency_per_month = EXCLUDED.frequency_per_month,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		process.ID,
		process.Name,
		process.Category,
		process.FrequencyPerMonth,
		process.CreatedAt,
		process.UpdatedAt,
	)
	return err
}

// Get retrieves a process by ID
func (s *ProcessStore) Get(ctx context.Context, id string) (*domain.Process, error) {
	query := `
		SELECT id, name, category, frequency_per_month, created_at, updated_at
		FROM processes
		WHERE id = $1
	`

	var process domain.Process
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&process.ID,
		&process.Name,
		&process.Category,
		&process.FrequencyPerMonth,
		&process.CreatedAt,
		&process.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &process, nil
}

// List retrieves processes, most recently updated first
func (s *ProcessStore) List(ctx context.Context, limit, offset int) ([]*domain.Process, error) {
	query := `
		SELECT id, name, category, frequency_per_month, created_at, updated_at
		FROM processes
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var processes []*domain.Process
	for rows.Next() {
		var process domain.Process
		err := rows.Scan(
			&process.ID,
			&process.Name,
			&process.Category,
			&process.FrequencyPerMonth,
			&process.CreatedAt,
			&process.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		processes = append(processes, &process)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return processes, nil
}

// Delete deletes a process. Steps go with it via ON DELETE CASCADE.
func (s *ProcessStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM processes WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Count returns the total number of processes
func (s *ProcessStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM processes`).Scan(&count)
	return count, err
}
