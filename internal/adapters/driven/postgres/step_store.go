package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.StepStore = (*StepStore)(nil)

// StepStore implements driven.StepStore using PostgreSQL.
// The list fields (tools, inputs, outputs) are stored as text arrays so
// order survives the round trip.
type StepStore struct {
	db *DB
}

// NewStepStore creates a new StepStore
func NewStepStore(db *DB) *StepStore {
	return &StepStore{db: db}
}

// SaveBatch stores all steps of one process atomically, replacing any
// steps already stored for that process
func (s *StepStore) SaveBatch(ctx context.Context, processID string, steps []*domain.ProcessStep) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM process_steps WHERE process_id = $1`, processID); err != nil {
			return err
		}

		query := `
			INSERT INTO process_steps
				(id, process_id, ordinal, declared_number, title, description,
				 tools, inputs, outputs, duration_minutes, frequency_per_month,
				 pain_points, provenance, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		for _, step := range steps {
			_, err := tx.ExecContext(ctx, query,
				step.ID,
				processID,
				step.Ordinal,
				step.DeclaredNumber,
				step.Title,
				step.Description,
				pq.Array(step.Tools),
				pq.Array(step.Inputs),
				pq.Array(step.Outputs),
				step.DurationMinutes,
				step.FrequencyPerMonth,
				step.PainPoints,
				step.Provenance,
				step.CreatedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByProcess retrieves the steps of a process in ordinal order
func (s *StepStore) ListByProcess(ctx context.Context, processID string) ([]*domain.ProcessStep, error) {
	query := `
		SELECT id, process_id, ordinal, declared_number, title, description,
		       tools, inputs, outputs, duration_minutes, frequency_per_month,
		       pain_points, provenance, created_at
		FROM process_steps
		WHERE process_id = $1
		ORDER BY ordinal ASC
	`

	rows, err := s.db.QueryContext(ctx, query, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []*domain.ProcessStep
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return steps, nil
}

// Get retrieves a single step by ID
func (s *StepStore) Get(ctx context.Context, id string) (*domain.ProcessStep, error) {
	query := `
		SELECT id, process_id, ordinal, declared_number, title, description,
		       tools, inputs, outputs, duration_minutes, frequency_per_month,
		       pain_points, provenance, created_at
		FROM process_steps
		WHERE id = $1
	`

	row := s.db.QueryRowContext(ctx, query, id)
	step, err := scanStep(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return step, nil
}

// DeleteByProcess removes all steps of a process
func (s *StepStore) DeleteByProcess(ctx context.Context, processID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM process_steps WHERE process_id = $1`, processID)
	return err
}

// scanner abstracts sql.Row and sql.Rows for the shared scan
type scanner interface {
	Scan(dest ...any) error
}

func scanStep(row scanner) (*domain.ProcessStep, error) {
	var step domain.ProcessStep
	err := row.Scan(
		&step.ID,
		&step.ProcessID,
		&step.Ordinal,
		&step.DeclaredNumber,
		&step.Title,
		&step.Description,
		pq.Array(&step.Tools),
		pq.Array(&step.Inputs),
		pq.Array(&step.Outputs),
		&step.DurationMinutes,
		&step.FrequencyPerMonth,
		&step.PainPoints,
		&step.Provenance,
		&step.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &step, nil
}
