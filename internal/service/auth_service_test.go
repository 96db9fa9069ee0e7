package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type mockUserRepo struct {
	users            map[string]*models.User
	lastLoginUpdated bool
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = map[string]*models.User{}
	}
	if user.ID == "" {
		user.ID = "user-" + user.Username
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	m.users[id].PasswordHash = passwordHash
	return nil
}

var testAuthConfig = AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "sis-api", BcryptCost: bcrypt.MinCost}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo, *mockAudit) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", Username: "amina", PasswordHash: string(hash), Role: models.RoleStudent, StudentID: strPtr("stu-1"), Active: true},
		"user-2": {ID: "user-2", Username: "dormant", PasswordHash: string(hash), Role: models.RoleAdmin, Active: false},
	}}
	students := &mockStudentRepo{students: map[string]*models.Student{"stu-1": {ID: "stu-1"}}}
	audit := &mockAudit{}
	return NewAuthService(repo, students, audit, nil, nil, testAuthConfig), repo, audit
}

func TestAuthServiceLogin(t *testing.T) {
	svc, repo, audit := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "amina", Password: "s3cret!", IP: "127.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "stu-1", claims.StudentID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc, _, audit := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "amina", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "s3cret!"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "dormant", Password: "s3cret!"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "amina"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	assert.Empty(t, audit.entries)
}

func TestAuthServiceLoginAuditFailureIgnored(t *testing.T) {
	svc, _, audit := newAuthFixture(t)
	audit.err = errors.New("audit down")

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "amina", Password: "s3cret!"})
	require.NoError(t, err)
}

func TestAuthServiceValidateTokenRejects(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("garbage")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	other := NewAuthService(&mockUserRepo{}, nil, nil, nil, nil, AuthConfig{AccessTokenSecret: "other", Issuer: "sis-api"})
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "amina", Password: "s3cret!"})
	require.NoError(t, err)
	_, err = other.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sis-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte(testAuthConfig.AccessTokenSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceCreateUser(t *testing.T) {
	svc, repo, audit := newAuthFixture(t)

	user, err := svc.CreateUser(context.Background(), models.CreateUserRequest{Username: "registrar", Password: "longpass", Role: models.RoleAdmin, StudentID: strPtr("stu-1")}, "user-2")
	require.NoError(t, err)
	assert.Nil(t, user.StudentID)
	assert.NotEqual(t, "longpass", user.PasswordHash)
	assert.Contains(t, repo.users, user.ID)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionUserCreate, audit.entries[0].Action)

	_, err = svc.CreateUser(context.Background(), models.CreateUserRequest{Username: "registrar", Password: "longpass", Role: models.RoleAdmin}, "user-2")
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.CreateUser(context.Background(), models.CreateUserRequest{Username: "newstudent", Password: "longpass", Role: models.RoleStudent}, "user-2")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.CreateUser(context.Background(), models.CreateUserRequest{Username: "newstudent", Password: "longpass", Role: models.RoleStudent, StudentID: strPtr("ghost")}, "user-2")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestAuthServiceEnsureAdmin(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewAuthService(repo, nil, nil, nil, nil, testAuthConfig)

	_, err := svc.EnsureAdmin(context.Background(), "", "")
	assert.Error(t, err)

	created, err := svc.EnsureAdmin(context.Background(), "admin", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(context.Background(), "admin", "changeme")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.users, 1)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "changeme"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
}

func TestAuthServiceChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "user-1", models.ChangePasswordRequest{OldPassword: "nope", NewPassword: "brandnew"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	require.NoError(t, svc.ChangePassword(ctx, "user-1", models.ChangePasswordRequest{OldPassword: "s3cret!", NewPassword: "brandnew"}))
	_, err = svc.Login(ctx, models.LoginRequest{Username: "amina", Password: "brandnew"})
	require.NoError(t, err)
}
