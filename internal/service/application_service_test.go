package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

type mockApplicationRepo struct {
	byID          map[string]*models.Application
	details       []models.ApplicationDetail
	existingIDs   map[string]bool
	allIDsTaken   bool
	created       []*models.Application
	statusUpdates map[string]string
	fileUpdates   map[string][]string
	lastFilter    models.ApplicationFilter
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{
		byID:          map[string]*models.Application{},
		existingIDs:   map[string]bool{},
		statusUpdates: map[string]string{},
		fileUpdates:   map[string][]string{},
	}
}

func (m *mockApplicationRepo) List(_ context.Context, filter models.ApplicationFilter) ([]models.ApplicationDetail, error) {
	m.lastFilter = filter
	return m.details, nil
}

func (m *mockApplicationRepo) FindByID(_ context.Context, id string) (*models.Application, error) {
	if app, ok := m.byID[id]; ok {
		copied := *app
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockApplicationRepo) Exists(_ context.Context, id string) (bool, error) {
	return m.allIDsTaken || m.existingIDs[id], nil
}

func (m *mockApplicationRepo) Create(_ context.Context, app *models.Application) error {
	m.created = append(m.created, app)
	return nil
}

func (m *mockApplicationRepo) UpdateStatus(_ context.Context, id, status string) error {
	m.statusUpdates[id] = status
	return nil
}

func (m *mockApplicationRepo) UpdateFiles(_ context.Context, id string, files []string) error {
	m.fileUpdates[id] = files
	return nil
}

type capturingNotifier struct {
	created []*models.Notification
}

func (c *capturingNotifier) Create(_ context.Context, n *models.Notification) error {
	c.created = append(c.created, n)
	return nil
}

type mockFileStore struct {
	saved []string
}

func (m *mockFileStore) SaveUpload(originalName string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	stored := fmt.Sprintf("uuid-%d_%s", len(m.saved), originalName)
	m.saved = append(m.saved, stored)
	return stored, nil
}

func newApplicationService(repo *mockApplicationRepo, notifier *capturingNotifier, store *mockFileStore) *ApplicationService {
	return NewApplicationService(repo, notifier, store, "/api/uploads", nil)
}

func TestApplicationServiceCreateGeneratesID(t *testing.T) {
	repo := newMockApplicationRepo()
	store := &mockFileStore{}
	svc := newApplicationService(repo, &capturingNotifier{}, store)

	app, urls, err := svc.Create(context.Background(), CreateApplicationRequest{
		StudentID: "s1",
		ProgramID: "p1",
		Status:    "PENDING",
		Semester:  "Fall 2025",
		UserID:    "agent-1",
		Files: []FileUpload{
			{Name: "passport.png", Content: strings.NewReader("img")},
			{Name: "transcript.pdf", Content: strings.NewReader("pdf")},
		},
	}, true)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^APP\d{6}$`), app.ID)
	require.NotNil(t, app.UserID)
	assert.Equal(t, "agent-1", *app.UserID)
	assert.NotEmpty(t, app.CreatedAt)
	require.Len(t, app.Files, 2)
	assert.Equal(t, store.saved[0], app.Files[0])
	require.Len(t, urls, 2)
	assert.Equal(t, "/api/uploads/"+store.saved[0], urls[0])
}

func TestApplicationServiceCreateWithoutOwner(t *testing.T) {
	repo := newMockApplicationRepo()
	svc := newApplicationService(repo, &capturingNotifier{}, &mockFileStore{})

	app, _, err := svc.Create(context.Background(), CreateApplicationRequest{
		StudentID: "s1",
		ProgramID: "p1",
		UserID:    "agent-1",
	}, false)
	require.NoError(t, err)
	assert.Nil(t, app.UserID)
}

func TestApplicationServiceIDFallsBackToHex(t *testing.T) {
	repo := newMockApplicationRepo()
	// Every numeric probe collides, forcing the uuid-derived fallback.
	repo.allIDsTaken = true
	svc := newApplicationService(repo, &capturingNotifier{}, &mockFileStore{})

	id, err := svc.generateID(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^APP[0-9A-F]{6}$`), id)
}

func TestApplicationServiceListScopesAgents(t *testing.T) {
	repo := newMockApplicationRepo()
	owner := "agent-1"
	name := "Agent Smith"
	repo.details = []models.ApplicationDetail{{
		Application: models.Application{ID: "APP000123", Files: []string{"u1_passport.png"}, UserID: &owner},
		AgentName:   &name,
	}}
	svc := newApplicationService(repo, &capturingNotifier{}, &mockFileStore{})

	views, err := svc.List(context.Background(), models.RoleAgent, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "agent-1", repo.lastFilter.OwnerID)
	require.Len(t, views, 1)
	assert.Equal(t, []string{"/api/uploads/u1_passport.png"}, views[0].Files)
	require.NotNil(t, views[0].AgentName)
	assert.Equal(t, "Agent Smith", *views[0].AgentName)

	_, err = svc.List(context.Background(), models.RoleAdmin, "agent-1")
	require.NoError(t, err)
	assert.Empty(t, repo.lastFilter.OwnerID)
}

func TestApplicationServiceFilesStripStoredPrefix(t *testing.T) {
	repo := newMockApplicationRepo()
	repo.byID["APP000123"] = &models.Application{ID: "APP000123", Files: []string{"abc-def_passport.png"}}
	svc := newApplicationService(repo, &capturingNotifier{}, &mockFileStore{})

	infos, err := svc.Files(context.Background(), "APP000123")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "passport.png", infos[0].Name)
	assert.Equal(t, "/api/uploads/abc-def_passport.png", infos[0].URL)
}

func TestApplicationServiceAddFilesAppends(t *testing.T) {
	repo := newMockApplicationRepo()
	repo.byID["APP000123"] = &models.Application{ID: "APP000123", Files: []string{"old_a.png"}}
	store := &mockFileStore{}
	svc := newApplicationService(repo, &capturingNotifier{}, store)

	infos, err := svc.AddFiles(context.Background(), "APP000123", []FileUpload{
		{Name: "b.png", Content: strings.NewReader("img")},
	})
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, []string{"old_a.png", store.saved[0]}, repo.fileUpdates["APP000123"])
}

func TestApplicationServiceAddFilesRequiresUploads(t *testing.T) {
	svc := newApplicationService(newMockApplicationRepo(), &capturingNotifier{}, &mockFileStore{})
	_, err := svc.AddFiles(context.Background(), "APP000123", nil)
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestApplicationServiceUpdateStatusNotifiesOwner(t *testing.T) {
	owner := "u1"
	repo := newMockApplicationRepo()
	repo.byID["APP000123"] = &models.Application{ID: "APP000123", Status: "PENDING", UserID: &owner}
	notifier := &capturingNotifier{}
	svc := newApplicationService(repo, notifier, &mockFileStore{})

	app, err := svc.UpdateStatus(context.Background(), "APP000123", "APPROVED")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", app.Status)
	assert.Equal(t, "APPROVED", repo.statusUpdates["APP000123"])

	require.Len(t, notifier.created, 1)
	n := notifier.created[0]
	assert.Equal(t, "u1", n.UserID)
	assert.Equal(t, models.NotificationStatus, n.Type)
	assert.Contains(t, n.Message, "APP000123")
	assert.Contains(t, n.Message, "APPROVED")
	assert.Equal(t, "/applications/APP000123", n.Link)
}

func TestApplicationServiceUpdateStatusUnownedSkipsNotification(t *testing.T) {
	repo := newMockApplicationRepo()
	repo.byID["APP000123"] = &models.Application{ID: "APP000123", Status: "PENDING"}
	notifier := &capturingNotifier{}
	svc := newApplicationService(repo, notifier, &mockFileStore{})

	_, err := svc.UpdateStatus(context.Background(), "APP000123", "REJECTED")
	require.NoError(t, err)
	assert.Empty(t, notifier.created)
}

func TestApplicationServiceUpdateStatusValidation(t *testing.T) {
	svc := newApplicationService(newMockApplicationRepo(), &capturingNotifier{}, &mockFileStore{})

	_, err := svc.UpdateStatus(context.Background(), "APP000123", "")
	require.Error(t, err)
	e := appErrors.FromError(err)
	assert.Equal(t, 400, e.Status)
	assert.Equal(t, "Status is required", e.Message)

	_, err = svc.UpdateStatus(context.Background(), "missing", "APPROVED")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestApplicationServiceExportCSV(t *testing.T) {
	repo := newMockApplicationRepo()
	repo.details = []models.ApplicationDetail{{
		Application: models.Application{ID: "APP000123", StudentID: "s1", ProgramID: "p1", Status: "PENDING"},
	}}
	svc := newApplicationService(repo, &capturingNotifier{}, &mockFileStore{})

	body, contentType, err := svc.Export(context.Background(), models.RoleAdmin, "", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(body), "APP000123")

	_, _, err = svc.Export(context.Background(), models.RoleAdmin, "", "xml")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}
