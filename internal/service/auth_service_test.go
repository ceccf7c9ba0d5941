package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

type mockAuthUsers struct {
	users map[string]*models.User
}

func (m *mockAuthUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := m.users[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(repo *mockAuthUsers) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret", Expiration: time.Hour})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockAuthUsers{users: map[string]*models.User{
		"admin@admin.com": {
			ID:           "u1",
			Name:         "Admin",
			Email:        "admin@admin.com",
			PasswordHash: hashPassword(t, "secret123"),
			Role:         models.RoleAdmin,
		},
	}}
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "admin@admin.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginFailureIsGeneric(t *testing.T) {
	repo := &mockAuthUsers{users: map[string]*models.User{
		"admin@admin.com": {
			ID:           "u1",
			Email:        "admin@admin.com",
			PasswordHash: hashPassword(t, "secret123"),
		},
	}}
	svc := newAuthService(repo)

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := svc.Login(context.Background(), LoginRequest{Email: "nobody@admin.com", Password: "secret123"})
	_, wrongErr := svc.Login(context.Background(), LoginRequest{Email: "admin@admin.com", Password: "wrong"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, appErrors.FromError(unknownErr).Message, appErrors.FromError(wrongErr).Message)
	assert.Equal(t, 401, appErrors.FromError(unknownErr).Status)
	assert.Equal(t, 401, appErrors.FromError(wrongErr).Status)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockAuthUsers{})
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}
