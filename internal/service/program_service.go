package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

const programsCacheKey = "programs:list"

type programRepository interface {
	List(ctx context.Context) ([]models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id string) (int64, error)
}

// CreateProgramRequest adds a degree program to the catalog.
type CreateProgramRequest struct {
	UniversityID string  `json:"universityId" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Degree       string  `json:"degree" validate:"required"`
	Language     string  `json:"language"`
	Years        int     `json:"years"`
	Deadline     string  `json:"deadline"`
	Fee          float64 `json:"fee"`
	Currency     string  `json:"currency"`
	Description  string  `json:"description"`
	Role         string  `json:"role"`
}

// ProgramService manages the program catalog.
type ProgramService struct {
	repo      programRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService constructs a ProgramService.
func NewProgramService(repo programRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every program, served from cache when warm.
func (s *ProgramService) List(ctx context.Context) ([]models.Program, error) {
	var cached []models.Program
	if s.cache.Get(ctx, programsCacheKey, &cached) {
		return cached, nil
	}
	programs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	if programs == nil {
		programs = []models.Program{}
	}
	s.cache.Set(ctx, programsCacheKey, programs)
	return programs, nil
}

// Create adds a program. Agents are not allowed to modify the catalog.
func (s *ProgramService) Create(ctx context.Context, req CreateProgramRequest) (*models.Program, error) {
	if models.ParseRole(req.Role).ScopedToOwn() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Agents are not allowed to add programs")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "universityId, name and degree are required")
	}

	program := &models.Program{
		UniversityID: req.UniversityID,
		Name:         req.Name,
		Degree:       req.Degree,
		Language:     req.Language,
		Years:        req.Years,
		Deadline:     req.Deadline,
		Fee:          req.Fee,
		Currency:     req.Currency,
		Description:  req.Description,
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}
	s.cache.Invalidate(ctx, programsCacheKey)
	return program, nil
}

// Delete removes a program.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "Program not found")
	}
	s.cache.Invalidate(ctx, programsCacheKey)
	return nil
}
