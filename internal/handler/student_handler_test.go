package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniapply/uniapply-api/internal/models"
	"github.com/uniapply/uniapply-api/internal/service"
	"github.com/uniapply/uniapply-api/pkg/response"
)

type studentRepoMock struct {
	students []models.Student
}

func (m *studentRepoMock) List(_ context.Context, _ models.StudentFilter) ([]models.Student, error) {
	return m.students, nil
}

func (m *studentRepoMock) ExistsByPassport(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (m *studentRepoMock) Create(_ context.Context, student *models.Student) error {
	student.ID = "generated-id"
	return nil
}

func TestStudentHandlerCreateAgentWithoutOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStudentHandler(service.NewStudentService(&studentRepoMock{}, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]string{"role": "agent", "firstName": "Ali"})
	req, _ := http.NewRequest(http.MethodPost, "/students", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "Agent user_id required", envelope.Error.Message)
}

func TestStudentHandlerListScopesAgents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStudentHandler(service.NewStudentService(&studentRepoMock{
		students: []models.Student{{ID: "s1"}},
	}, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/students?role=agent&user_id=agent-1", nil)
	c.Request = req

	handler.List(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
