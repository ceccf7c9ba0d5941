package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

const universitiesCacheKey = "universities:list"

type universityRepository interface {
	List(ctx context.Context) ([]models.University, error)
	FindByID(ctx context.Context, id string) (*models.University, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, uni *models.University) error
	Update(ctx context.Context, uni *models.University) error
	Delete(ctx context.Context, id string) (int64, error)
}

// CreateUniversityRequest creates a catalog entry. Role is echoed from the
// caller so agent submissions can be rejected.
type CreateUniversityRequest struct {
	Name        string  `json:"name" validate:"required"`
	Website     string  `json:"website"`
	Country     string  `json:"country"`
	Description string  `json:"description"`
	Logo        *string `json:"logo"`
	Role        string  `json:"role"`
}

// UpdateUniversityRequest is a partial merge. Logo uses NullableString so an
// explicit null clears the stored value while an absent key keeps it.
type UpdateUniversityRequest struct {
	Name        *string               `json:"name"`
	Website     *string               `json:"website"`
	Country     *string               `json:"country"`
	Description *string               `json:"description"`
	Logo        models.NullableString `json:"logo"`
}

// ImportResult summarises a spreadsheet import.
type ImportResult struct {
	Imported     int                 `json:"imported"`
	Universities []models.University `json:"universities"`
}

// UniversityService manages the university catalog.
type UniversityService struct {
	repo      universityRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUniversityService constructs a UniversityService.
func NewUniversityService(repo universityRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *UniversityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UniversityService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every university, served from cache when warm.
func (s *UniversityService) List(ctx context.Context) ([]models.University, error) {
	var cached []models.University
	if s.cache.Get(ctx, universitiesCacheKey, &cached) {
		return cached, nil
	}
	universities, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list universities")
	}
	if universities == nil {
		universities = []models.University{}
	}
	s.cache.Set(ctx, universitiesCacheKey, universities)
	return universities, nil
}

// Create adds a university. Agents are not allowed to modify the catalog.
func (s *UniversityService) Create(ctx context.Context, req CreateUniversityRequest) (*models.University, error) {
	if models.ParseRole(req.Role).ScopedToOwn() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Agents are not allowed to add universities")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Name is required")
	}

	uni := &models.University{
		Name:        req.Name,
		Website:     req.Website,
		Country:     req.Country,
		Description: req.Description,
		Logo:        req.Logo,
	}
	if err := s.repo.Create(ctx, uni); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create university")
	}
	s.cache.Invalidate(ctx, universitiesCacheKey)
	return uni, nil
}

// Update merges the provided fields into the stored record.
func (s *UniversityService) Update(ctx context.Context, id string, req UpdateUniversityRequest) (*models.University, error) {
	uni, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "University not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch university")
	}

	if req.Name != nil {
		uni.Name = *req.Name
	}
	if req.Website != nil {
		uni.Website = *req.Website
	}
	if req.Country != nil {
		uni.Country = *req.Country
	}
	if req.Description != nil {
		uni.Description = *req.Description
	}
	if req.Logo.Set {
		uni.Logo = req.Logo.Value
	}

	if err := s.repo.Update(ctx, uni); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update university")
	}
	s.cache.Invalidate(ctx, universitiesCacheKey)
	return uni, nil
}

// Delete removes a university.
func (s *UniversityService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete university")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "University not found")
	}
	s.cache.Invalidate(ctx, universitiesCacheKey)
	return nil
}

// importHeaders maps spreadsheet column headers to canonical field names.
// English and Arabic headers are both accepted.
var importHeaders = map[string]string{
	"name":        "name",
	"اسم":         "name",
	"website":     "website",
	"موقع":        "website",
	"country":     "country",
	"دولة":        "country",
	"description": "description",
	"وصف":         "description",
	"logo":        "logo",
	"شعار":        "logo",
}

// Import parses an xlsx workbook and inserts one university per row.
// Rows with an empty name or a name that already exists are skipped.
func (s *UniversityService) Import(ctx context.Context, file io.Reader) (*ImportResult, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse spreadsheet: "+err.Error())
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "spreadsheet has no sheets")
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse spreadsheet: "+err.Error())
	}
	if len(rows) == 0 {
		return &ImportResult{Universities: []models.University{}}, nil
	}

	columns := map[int]string{}
	for i, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if field, ok := importHeaders[key]; ok {
			columns[i] = field
		}
	}

	result := &ImportResult{Universities: []models.University{}}
	for _, row := range rows[1:] {
		fields := map[string]string{}
		for i, cell := range row {
			if field, ok := columns[i]; ok {
				fields[field] = strings.TrimSpace(cell)
			}
		}

		name := fields["name"]
		if name == "" {
			continue
		}
		exists, err := s.repo.ExistsByName(ctx, name)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check university name")
		}
		if exists {
			continue
		}

		country := fields["country"]
		if country == "" {
			country = "Turkey"
		}
		var logo *string
		if v := fields["logo"]; strings.HasPrefix(v, "http") {
			logo = &v
		}

		uni := &models.University{
			Name:        name,
			Website:     fields["website"],
			Country:     country,
			Description: fields["description"],
			Logo:        logo,
		}
		if err := s.repo.Create(ctx, uni); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import university")
		}
		result.Imported++
		result.Universities = append(result.Universities, *uni)
	}

	if result.Imported > 0 {
		s.cache.Invalidate(ctx, universitiesCacheKey)
	}
	s.logger.Info("universities imported", zap.Int("count", result.Imported))
	return result, nil
}
