package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

type mockProgramRepo struct {
	programs []models.Program
	created  []*models.Program
	deleted  int64
}

func (m *mockProgramRepo) List(_ context.Context) ([]models.Program, error) {
	return m.programs, nil
}

func (m *mockProgramRepo) Create(_ context.Context, program *models.Program) error {
	program.ID = "generated-id"
	m.created = append(m.created, program)
	return nil
}

func (m *mockProgramRepo) Delete(_ context.Context, _ string) (int64, error) {
	return m.deleted, nil
}

func TestProgramServiceCreateForbiddenForAgents(t *testing.T) {
	svc := NewProgramService(&mockProgramRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateProgramRequest{
		UniversityID: "uni-1",
		Name:         "Computer Engineering",
		Degree:       "Bachelor",
		Role:         "agent",
	})
	require.Error(t, err)
	e := appErrors.FromError(err)
	assert.Equal(t, 403, e.Status)
	assert.Equal(t, "Agents are not allowed to add programs", e.Message)
}

func TestProgramServiceCreate(t *testing.T) {
	repo := &mockProgramRepo{}
	svc := NewProgramService(repo, nil, nil, nil)

	program, err := svc.Create(context.Background(), CreateProgramRequest{
		UniversityID: "uni-1",
		Name:         "Computer Engineering",
		Degree:       "Bachelor",
		Years:        4,
		Fee:          4500,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated-id", program.ID)
	require.Len(t, repo.created, 1)
}

func TestProgramServiceCreateRequiresCoreFields(t *testing.T) {
	svc := NewProgramService(&mockProgramRepo{}, nil, nil, nil)
	_, err := svc.Create(context.Background(), CreateProgramRequest{Name: "Orphan Program"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestProgramServiceDeleteNotFound(t *testing.T) {
	svc := NewProgramService(&mockProgramRepo{deleted: 0}, nil, nil, nil)
	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
