package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

type mockStudentRepo struct {
	students   []models.Student
	passports  map[string]bool
	created    []*models.Student
	lastFilter models.StudentFilter
}

func (m *mockStudentRepo) List(_ context.Context, filter models.StudentFilter) ([]models.Student, error) {
	m.lastFilter = filter
	if filter.OwnerID == "" {
		return m.students, nil
	}
	var scoped []models.Student
	for _, s := range m.students {
		if s.UserID != nil && *s.UserID == filter.OwnerID {
			scoped = append(scoped, s)
		}
	}
	return scoped, nil
}

func (m *mockStudentRepo) ExistsByPassport(_ context.Context, passportNumber string) (bool, error) {
	return m.passports[passportNumber], nil
}

func (m *mockStudentRepo) Create(_ context.Context, student *models.Student) error {
	student.ID = "generated-id"
	m.created = append(m.created, student)
	return nil
}

func validStudentRequest() CreateStudentRequest {
	return CreateStudentRequest{
		FirstName:        "Ali",
		LastName:         "Hasan",
		PassportNumber:   "P100",
		FatherName:       "F",
		MotherName:       "M",
		Gender:           "male",
		Phone:            "555",
		Email:            "ali@example.com",
		Nationality:      "SY",
		DegreeTarget:     "Bachelor",
		DOB:              "2000-01-01",
		ResidenceCountry: "TR",
	}
}

func TestStudentServiceAgentRequiresOwner(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{passports: map[string]bool{}}, nil, nil)

	// The ownership check runs before field validation: an otherwise empty
	// agent request still reports the missing user_id.
	_, err := svc.Create(context.Background(), CreateStudentRequest{Role: "agent"})
	require.Error(t, err)
	e := appErrors.FromError(err)
	assert.Equal(t, 400, e.Status)
	assert.Equal(t, "Agent user_id required", e.Message)
}

func TestStudentServiceCreateRejectsDuplicatePassport(t *testing.T) {
	repo := &mockStudentRepo{passports: map[string]bool{"P100": true}}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, 409, appErrors.FromError(err).Status)
}

func TestStudentServiceCreateWithAgentOwner(t *testing.T) {
	repo := &mockStudentRepo{passports: map[string]bool{}}
	svc := NewStudentService(repo, nil, nil)

	owner := "agent-1"
	req := validStudentRequest()
	req.Role = "agent"
	req.UserID = &owner

	student, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, student.UserID)
	assert.Equal(t, "agent-1", *student.UserID)
}

func TestStudentServiceListScopesAgents(t *testing.T) {
	owner := "agent-1"
	repo := &mockStudentRepo{students: []models.Student{
		{ID: "s1"},
		{ID: "s2", UserID: &owner},
	}}
	svc := NewStudentService(repo, nil, nil)

	scoped, err := svc.List(context.Background(), models.RoleAgent, "agent-1")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "s2", scoped[0].ID)
	assert.Equal(t, "agent-1", repo.lastFilter.OwnerID)

	all, err := svc.List(context.Background(), models.RoleAdmin, "agent-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Empty(t, repo.lastFilter.OwnerID)
}
