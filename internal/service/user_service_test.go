package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

type mockUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	created []*models.User
	updated []*models.User
	deleted int64
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) List(_ context.Context) ([]models.User, error) {
	var users []models.User
	for _, u := range m.byID {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "generated-id"
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	m.updated = append(m.updated, user)
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, _ string) (int64, error) {
	return m.deleted, nil
}

func TestUserServiceCreateDefaultsRoleAndHashesPassword(t *testing.T) {
	repo := &mockUserRepo{byEmail: map[string]*models.User{}}
	svc := NewUserService(repo, nil, nil)

	info, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Agent Smith",
		Email:    "smith@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, info.Role)
	require.Len(t, repo.created, 1)
	assert.NotEqual(t, "secret123", repo.created[0].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created[0].PasswordHash), []byte("secret123")))
}

func TestUserServiceCreateRejectsDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{byEmail: map[string]*models.User{
		"smith@example.com": {ID: "u1"},
	}}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Agent Smith",
		Email:    "smith@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, 409, appErrors.FromError(err).Status)
}

func TestUserServiceCreateRequiresCoreFields(t *testing.T) {
	svc := NewUserService(&mockUserRepo{byEmail: map[string]*models.User{}}, nil, nil)
	_, err := svc.Create(context.Background(), CreateUserRequest{Email: "smith@example.com"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestUserServiceUpdateProfilePartialMerge(t *testing.T) {
	phone := "555"
	repo := &mockUserRepo{
		byEmail: map[string]*models.User{},
		byID: map[string]*models.User{
			"u1": {ID: "u1", Name: "Agent", Email: "a@e.com", PasswordHash: "old-hash", Phone: &phone},
		},
	}
	svc := NewUserService(repo, nil, nil)

	// phone key present with null clears it; countryCode absent stays nil;
	// empty password keeps the old hash.
	empty := ""
	info, err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{
		ID:       "u1",
		Password: &empty,
		Phone:    models.NullableString{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, info.Phone)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, "old-hash", repo.updated[0].PasswordHash)
}

func TestUserServiceUpdateProfileUnknownUser(t *testing.T) {
	svc := NewUserService(&mockUserRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}, nil, nil)
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{ID: "missing"})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestUserServiceDeleteNotFound(t *testing.T) {
	svc := NewUserService(&mockUserRepo{deleted: 0}, nil, nil)
	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestUserServiceEnsureDefaultAdminSeedsOnce(t *testing.T) {
	repo := &mockUserRepo{byEmail: map[string]*models.User{}}
	svc := NewUserService(repo, nil, nil)

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background(), "admin@admin.com", "admin123"))
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.RoleAdmin, repo.created[0].Role)

	repo.byEmail["admin@admin.com"] = repo.created[0]
	require.NoError(t, svc.EnsureDefaultAdmin(context.Background(), "admin@admin.com", "admin123"))
	assert.Len(t, repo.created, 1)
}
