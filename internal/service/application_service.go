package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
	"github.com/uniapply/uniapply-api/pkg/export"
	"github.com/uniapply/uniapply-api/pkg/storage"
)

const appIDProbes = 10

type applicationRepository interface {
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationDetail, error)
	FindByID(ctx context.Context, id string) (*models.Application, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, app *models.Application) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateFiles(ctx context.Context, id string, files []string) error
}

type notificationWriter interface {
	Create(ctx context.Context, n *models.Notification) error
}

type fileStore interface {
	SaveUpload(originalName string, r io.Reader) (string, error)
}

// FileUpload is one attachment stream received from a multipart form.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// CreateApplicationRequest carries the multipart form fields of the v1
// create endpoint. The v2 endpoint drops the ownership fields.
type CreateApplicationRequest struct {
	StudentID string
	ProgramID string
	Status    string
	Semester  string
	Role      string
	UserID    string
	Files     []FileUpload
}

// ApplicationService manages application records and their attachments.
type ApplicationService struct {
	repo          applicationRepository
	notifications notificationWriter
	store         fileStore
	csv           *export.CSVExporter
	pdf           *export.PDFExporter
	uploadsBase   string
	logger        *zap.Logger
}

// NewApplicationService constructs an ApplicationService. uploadsBase is the
// URL prefix under which stored files are served, e.g. "/api/uploads".
func NewApplicationService(repo applicationRepository, notifications notificationWriter, store fileStore, uploadsBase string, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		repo:          repo,
		notifications: notifications,
		store:         store,
		csv:           export.NewCSVExporter(),
		pdf:           export.NewPDFExporter(),
		uploadsBase:   strings.TrimSuffix(uploadsBase, "/"),
		logger:        logger,
	}
}

// List returns applications with file download URLs and owner contact info,
// restricted to the agent's own records when the caller is an agent.
func (s *ApplicationService) List(ctx context.Context, role models.Role, userID string) ([]models.ApplicationView, error) {
	filter := models.ApplicationFilter{}
	if role.ScopedToOwn() && userID != "" {
		filter.OwnerID = userID
	}
	details, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}

	views := make([]models.ApplicationView, 0, len(details))
	for i := range details {
		d := &details[i]
		views = append(views, models.ApplicationView{
			ID:               d.ID,
			StudentID:        d.StudentID,
			ProgramID:        d.ProgramID,
			Status:           d.Status,
			Semester:         d.Semester,
			CreatedAt:        d.CreatedAt,
			Files:            s.fileURLs(d.Files),
			UserID:           d.UserID,
			AgentName:        d.AgentName,
			AgentPhone:       d.AgentPhone,
			AgentCountryCode: d.AgentCountryCode,
		})
	}
	return views, nil
}

// Create stores the attachments and inserts the application with a fresh
// APP###### id. When withOwner is false the ownership field is dropped.
func (s *ApplicationService) Create(ctx context.Context, req CreateApplicationRequest, withOwner bool) (*models.Application, []string, error) {
	stored := make([]string, 0, len(req.Files))
	for _, upload := range req.Files {
		name, err := s.store.SaveUpload(upload.Name, upload.Content)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attachment")
		}
		stored = append(stored, name)
	}

	id, err := s.generateID(ctx)
	if err != nil {
		return nil, nil, err
	}

	app := &models.Application{
		ID:        id,
		StudentID: req.StudentID,
		ProgramID: req.ProgramID,
		Status:    req.Status,
		Semester:  req.Semester,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Files:     pq.StringArray(stored),
	}
	if withOwner && req.UserID != "" {
		app.UserID = &req.UserID
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}

	s.logger.Info("application created", zap.String("application_id", app.ID), zap.Int("files", len(stored)))
	return app, s.fileURLs(app.Files), nil
}

// Files returns display name / download URL pairs for an application's
// attachments.
func (s *ApplicationService) Files(ctx context.Context, id string) ([]models.FileInfo, error) {
	app, err := s.findApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	infos := make([]models.FileInfo, 0, len(app.Files))
	for _, stored := range app.Files {
		infos = append(infos, models.FileInfo{
			Name: storage.DisplayName(stored),
			URL:  s.fileURL(stored),
		})
	}
	return infos, nil
}

// AddFiles appends uploads to the application's attachment list.
func (s *ApplicationService) AddFiles(ctx context.Context, id string, uploads []FileUpload) ([]models.FileInfo, error) {
	if len(uploads) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "No files uploaded")
	}
	app, err := s.findApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	files := append([]string{}, app.Files...)
	for _, upload := range uploads {
		stored, err := s.store.SaveUpload(upload.Name, upload.Content)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attachment")
		}
		files = append(files, stored)
	}
	if err := s.repo.UpdateFiles(ctx, id, files); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attachments")
	}

	infos := make([]models.FileInfo, 0, len(files))
	for _, stored := range files {
		infos = append(infos, models.FileInfo{Name: storage.DisplayName(stored), URL: s.fileURL(stored)})
	}
	return infos, nil
}

// UpdateStatus stores a new workflow status and notifies the owner when the
// application has one. The status value is free text and stored verbatim.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	if status == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Status is required")
	}
	app, err := s.findApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}
	app.Status = status

	if app.UserID != nil {
		n := &models.Notification{
			UserID:    *app.UserID,
			Title:     "تحديث حالة الطلب",
			Message:   fmt.Sprintf("تم تغيير حالة طلبك #%s إلى %s", app.ID, status),
			Link:      "/applications/" + app.ID,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
			Type:      models.NotificationStatus,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
		}
	}
	return app, nil
}

// Export renders the role-scoped application list as csv or pdf.
func (s *ApplicationService) Export(ctx context.Context, role models.Role, userID, format string) ([]byte, string, error) {
	views, err := s.List(ctx, role, userID)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Student", "Program", "Status", "Semester", "Created", "Agent"},
	}
	for _, v := range views {
		agent := ""
		if v.AgentName != nil {
			agent = *v.AgentName
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":       v.ID,
			"Student":  v.StudentID,
			"Program":  v.ProgramID,
			"Status":   v.Status,
			"Semester": v.Semester,
			"Created":  v.CreatedAt,
			"Agent":    agent,
		})
	}

	switch format {
	case "csv", "":
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return body, "text/csv", nil
	case "pdf":
		body, err := s.pdf.Render(dataset, "Applications")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return body, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *ApplicationService) findApplication(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch application")
	}
	return app, nil
}

// generateID probes random APP###### candidates and falls back to a
// uuid-derived suffix when every probe collides.
func (s *ApplicationService) generateID(ctx context.Context) (string, error) {
	for i := 0; i < appIDProbes; i++ {
		candidate := "APP" + fmt.Sprintf("%06d", rand.Intn(1000000))
		taken, err := s.repo.Exists(ctx, candidate)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate application id")
		}
		if !taken {
			return candidate, nil
		}
	}
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "APP" + strings.ToUpper(hex[:6]), nil
}

func (s *ApplicationService) fileURL(stored string) string {
	return s.uploadsBase + "/" + stored
}

func (s *ApplicationService) fileURLs(stored []string) []string {
	urls := make([]string, 0, len(stored))
	for _, f := range stored {
		urls = append(urls, s.fileURL(f))
	}
	return urls
}
