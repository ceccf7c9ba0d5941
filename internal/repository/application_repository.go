package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/uniapply/uniapply-api/internal/models"
)

// ApplicationRepository manages persistence for applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// List returns applications joined with their owning agent's contact fields,
// restricted to an owner when the filter requires it.
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationDetail, error) {
	query := `SELECT a.id, a.student_id, a.program_id, a.status, a.semester, a.created_at, a.files, a.user_id,
        u.name AS agent_name, u.phone AS agent_phone, u.country_code AS agent_country_code
        FROM applications a LEFT JOIN users u ON u.id = a.user_id`
	args := []interface{}{}
	if filter.OwnerID != "" {
		query += ` WHERE a.user_id = $1`
		args = append(args, filter.OwnerID)
	}
	query += ` ORDER BY a.created_at DESC`
	var applications []models.ApplicationDetail
	if err := r.db.SelectContext(ctx, &applications, query, args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return applications, nil
}

// FindByID fetches an application by ID.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	const query = `SELECT id, student_id, program_id, status, semester, created_at, files, user_id
        FROM applications WHERE id = $1 LIMIT 1`
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &app, nil
}

// Exists reports whether an application id is already taken.
func (r *ApplicationRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM applications WHERE id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check application id: %w", err)
	}
	return true, nil
}

// Create inserts a new application.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	const query = `INSERT INTO applications (id, student_id, program_id, status, semester, created_at, files, user_id)
        VALUES (:id, :student_id, :program_id, :status, :semester, :created_at, :files, :user_id)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// UpdateStatus stores a new workflow status.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE applications SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}

// UpdateFiles replaces the stored attachment list.
func (r *ApplicationRepository) UpdateFiles(ctx context.Context, id string, files []string) error {
	const query = `UPDATE applications SET files = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, pq.StringArray(files)); err != nil {
		return fmt.Errorf("update application files: %w", err)
	}
	return nil
}
