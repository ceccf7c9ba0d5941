package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniapply/uniapply-api/internal/service"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
	"github.com/uniapply/uniapply-api/pkg/response"
)

// UniversityHandler exposes university catalog endpoints.
type UniversityHandler struct {
	universities *service.UniversityService
}

// NewUniversityHandler constructs UniversityHandler.
func NewUniversityHandler(universities *service.UniversityService) *UniversityHandler {
	return &UniversityHandler{universities: universities}
}

// List godoc
// @Summary List universities
// @Tags Universities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /universities [get]
func (h *UniversityHandler) List(c *gin.Context) {
	universities, err := h.universities.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, universities)
}

// Create godoc
// @Summary Create university
// @Tags Universities
// @Accept json
// @Produce json
// @Param payload body service.CreateUniversityRequest true "University payload"
// @Success 201 {object} response.Envelope
// @Router /universities [post]
func (h *UniversityHandler) Create(c *gin.Context) {
	var req service.CreateUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	uni, err := h.universities.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, uni)
}

// Update godoc
// @Summary Update university
// @Tags Universities
// @Accept json
// @Produce json
// @Param id path string true "University ID"
// @Param payload body service.UpdateUniversityRequest true "Partial payload"
// @Success 200 {object} response.Envelope
// @Router /universities/{id} [put]
func (h *UniversityHandler) Update(c *gin.Context) {
	var req service.UpdateUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	uni, err := h.universities.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, uni)
}

// Delete godoc
// @Summary Delete university
// @Tags Universities
// @Produce json
// @Param id path string true "University ID"
// @Success 204
// @Router /universities/{id} [delete]
func (h *UniversityHandler) Delete(c *gin.Context) {
	if err := h.universities.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Import godoc
// @Summary Import universities from a spreadsheet
// @Tags Universities
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} response.Envelope
// @Router /universities/import [post]
func (h *UniversityHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No file uploaded"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	result, err := h.universities.Import(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
