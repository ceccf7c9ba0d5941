package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	ExistsByPassport(ctx context.Context, passportNumber string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

// CreateStudentRequest carries the full student field set. Agents must supply
// their owning user id.
type CreateStudentRequest struct {
	FirstName        string  `json:"firstName" validate:"required"`
	LastName         string  `json:"lastName" validate:"required"`
	PassportNumber   string  `json:"passportNumber" validate:"required"`
	FatherName       string  `json:"fatherName" validate:"required"`
	MotherName       string  `json:"motherName" validate:"required"`
	Gender           string  `json:"gender" validate:"required"`
	Phone            string  `json:"phone" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Nationality      string  `json:"nationality" validate:"required"`
	DegreeTarget     string  `json:"degreeTarget" validate:"required"`
	DOB              string  `json:"dob" validate:"required"`
	ResidenceCountry string  `json:"residenceCountry" validate:"required"`
	Role             string  `json:"role"`
	UserID           *string `json:"user_id"`
}

// StudentService manages applicant records.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students, restricted to the agent's own records when the
// caller is an agent with a user id.
func (s *StudentService) List(ctx context.Context, role models.Role, userID string) ([]models.Student, error) {
	filter := models.StudentFilter{}
	if role.ScopedToOwn() && userID != "" {
		filter.OwnerID = userID
	}
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// Create registers a new student. The agent ownership check runs before
// field validation so a missing user_id always reports as such.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if models.ParseRole(req.Role).ScopedToOwn() && (req.UserID == nil || *req.UserID == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Agent user_id required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all student fields are required")
	}

	exists, err := s.repo.ExistsByPassport(ctx, req.PassportNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check passport number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Passport number already exists")
	}

	student := &models.Student{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		PassportNumber:   req.PassportNumber,
		FatherName:       req.FatherName,
		MotherName:       req.MotherName,
		Gender:           req.Gender,
		Phone:            req.Phone,
		Email:            req.Email,
		Nationality:      req.Nationality,
		DegreeTarget:     req.DegreeTarget,
		DOB:              req.DOB,
		ResidenceCountry: req.ResidenceCountry,
		UserID:           req.UserID,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID))
	return student, nil
}
