package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniapply/uniapply-api/internal/models"
)

// ProgramRepository manages persistence for degree programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs a ProgramRepository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns every program.
func (r *ProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	const query = `SELECT id, university_id, name, degree, language, years, deadline, fee, currency,
        COALESCE(description, '') AS description FROM programs ORDER BY name`
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// Create inserts a new program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	if program.Currency == "" {
		program.Currency = "USD"
	}
	const query = `INSERT INTO programs (id, university_id, name, degree, language, years, deadline, fee, currency, description)
        VALUES (:id, :university_id, :name, :degree, :language, :years, :deadline, :fee, :currency, :description)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// Delete removes a program row. Returns the number of rows removed.
func (r *ProgramRepository) Delete(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM programs WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete program rows: %w", err)
	}
	return affected, nil
}
