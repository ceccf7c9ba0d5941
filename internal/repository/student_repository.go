package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniapply/uniapply-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, first_name, last_name, passport_number, father_name, mother_name,
        gender, phone, email, nationality, degree_target, dob, residence_country, user_id`

// List returns students, restricted to an owner when the filter requires it.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	args := []interface{}{}
	if filter.OwnerID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, filter.OwnerID)
	}
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ExistsByPassport checks if a student with the given passport number exists.
func (r *StudentRepository) ExistsByPassport(ctx context.Context, passportNumber string) (bool, error) {
	const query = `SELECT 1 FROM students WHERE passport_number = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, passportNumber); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check passport: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	const query = `INSERT INTO students (id, first_name, last_name, passport_number, father_name,
        mother_name, gender, phone, email, nationality, degree_target, dob, residence_country, user_id)
        VALUES (:id, :first_name, :last_name, :passport_number, :father_name, :mother_name, :gender,
        :phone, :email, :nationality, :degree_target, :dob, :residence_country, :user_id)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
