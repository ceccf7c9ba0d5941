package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniapply/uniapply-api/internal/models"
	"github.com/uniapply/uniapply-api/internal/service"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
	"github.com/uniapply/uniapply-api/pkg/response"
)

// ApplicationHandler exposes application workflow endpoints.
type ApplicationHandler struct {
	applications *service.ApplicationService
}

// NewApplicationHandler constructs ApplicationHandler.
func NewApplicationHandler(applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// List godoc
// @Summary List applications
// @Tags Applications
// @Produce json
// @Param role query string false "Caller role; agent scopes the listing"
// @Param user_id query string false "Agent user id"
// @Success 200 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	role := models.ParseRole(c.Query("role"))
	views, err := h.applications.List(c.Request.Context(), role, c.Query("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// Create godoc
// @Summary Create application
// @Tags Applications
// @Accept multipart/form-data
// @Produce json
// @Param studentId formData string true "Student ID"
// @Param programId formData string true "Program ID"
// @Param status formData string false "Initial status"
// @Param semester formData string false "Target semester"
// @Param role formData string false "Caller role"
// @Param user_id formData string false "Owning agent id"
// @Param files formData file false "Attachments"
// @Success 201 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	h.create(c, true)
}

// CreateV2 godoc
// @Summary Create application without an owner
// @Tags Applications
// @Accept multipart/form-data
// @Produce json
// @Param studentId formData string true "Student ID"
// @Param programId formData string true "Program ID"
// @Param status formData string false "Initial status"
// @Param semester formData string false "Target semester"
// @Param files formData file false "Attachments"
// @Success 201 {object} response.Envelope
// @Router /applications_v2 [post]
func (h *ApplicationHandler) CreateV2(c *gin.Context) {
	h.create(c, false)
}

func (h *ApplicationHandler) create(c *gin.Context, withOwner bool) {
	uploads, closers, err := formUploads(c, "files")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeAll(closers)

	req := service.CreateApplicationRequest{
		StudentID: c.PostForm("studentId"),
		ProgramID: c.PostForm("programId"),
		Status:    c.PostForm("status"),
		Semester:  c.PostForm("semester"),
		Role:      c.PostForm("role"),
		UserID:    c.PostForm("user_id"),
		Files:     uploads,
	}
	app, urls, err := h.applications.Create(c.Request.Context(), req, withOwner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": app.ID, "files": urls})
}

// Files godoc
// @Summary List application attachments
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/files [get]
func (h *ApplicationHandler) Files(c *gin.Context) {
	infos, err := h.applications.Files(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, infos)
}

// AddFiles godoc
// @Summary Append attachments to an application
// @Tags Applications
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Application ID"
// @Param files formData file true "Attachments"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/files [post]
func (h *ApplicationHandler) AddFiles(c *gin.Context) {
	uploads, closers, err := formUploads(c, "files")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeAll(closers)

	infos, err := h.applications.AddFiles(c.Request.Context(), c.Param("id"), uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, infos)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary Update application status
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body object true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Status is required"))
		return
	}
	app, err := h.applications.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": app.ID, "status": app.Status})
}

// Export godoc
// @Summary Export applications
// @Tags Applications
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param role query string false "Caller role; agent scopes the export"
// @Param user_id query string false "Agent user id"
// @Success 200 {file} file
// @Router /applications/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	role := models.ParseRole(c.Query("role"))
	format := c.DefaultQuery("format", "csv")
	body, contentType, err := h.applications.Export(c.Request.Context(), role, c.Query("user_id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := "applications." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

// formUploads extracts the named multipart file streams. A request without a
// multipart body yields an empty slice rather than an error.
func formUploads(c *gin.Context, field string) ([]service.FileUpload, []multipart.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart {
			return nil, nil, nil
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart form")
	}

	headers := form.File[field]
	uploads := make([]service.FileUpload, 0, len(headers))
	closers := make([]multipart.File, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll(closers)
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read upload")
		}
		uploads = append(uploads, service.FileUpload{Name: header.Filename, Content: file})
		closers = append(closers, file)
	}
	return uploads, closers, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
