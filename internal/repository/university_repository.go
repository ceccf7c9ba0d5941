package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniapply/uniapply-api/internal/models"
)

// UniversityRepository manages persistence for catalog universities.
type UniversityRepository struct {
	db *sqlx.DB
}

// NewUniversityRepository constructs a UniversityRepository.
func NewUniversityRepository(db *sqlx.DB) *UniversityRepository {
	return &UniversityRepository{db: db}
}

// List returns every university.
func (r *UniversityRepository) List(ctx context.Context) ([]models.University, error) {
	const query = `SELECT id, name, website, country, description, logo FROM universities ORDER BY name`
	var universities []models.University
	if err := r.db.SelectContext(ctx, &universities, query); err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return universities, nil
}

// FindByID fetches a university by ID.
func (r *UniversityRepository) FindByID(ctx context.Context, id string) (*models.University, error) {
	const query = `SELECT id, name, website, country, description, logo FROM universities WHERE id = $1 LIMIT 1`
	var uni models.University
	if err := r.db.GetContext(ctx, &uni, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find university: %w", err)
	}
	return &uni, nil
}

// ExistsByName checks whether a university with the given name exists.
// Import treats names as unique.
func (r *UniversityRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT 1 FROM universities WHERE name = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check university name: %w", err)
	}
	return true, nil
}

// Create inserts a new university.
func (r *UniversityRepository) Create(ctx context.Context, uni *models.University) error {
	if uni.ID == "" {
		uni.ID = uuid.NewString()
	}
	const query = `INSERT INTO universities (id, name, website, country, description, logo)
        VALUES (:id, :name, :website, :country, :description, :logo)`
	if _, err := r.db.NamedExecContext(ctx, query, uni); err != nil {
		return fmt.Errorf("create university: %w", err)
	}
	return nil
}

// Update persists all mutable fields of a university.
func (r *UniversityRepository) Update(ctx context.Context, uni *models.University) error {
	const query = `UPDATE universities SET name = :name, website = :website, country = :country,
        description = :description, logo = :logo WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, uni); err != nil {
		return fmt.Errorf("update university: %w", err)
	}
	return nil
}

// Delete removes a university row. Returns the number of rows removed.
func (r *UniversityRepository) Delete(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM universities WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete university: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete university rows: %w", err)
	}
	return affected, nil
}
