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

	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/internal/repository"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

type mockAuthRepo struct {
	users     map[string]*models.User
	createErr error
	findErr   error
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{users: make(map[string]*models.User)}
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "test"})
}

func TestAuthRegisterStudentIssuesClassSectionClaim(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newAuthService(repo)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "asha@example.com", FullName: "Asha", Role: models.RoleStudent, ClassSection: "10A", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "10A", resp.User.ClassSection)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	identity := claims.Identity()
	assert.True(t, identity.IsStudent())
	assert.Equal(t, "10A", identity.ClassSection)
	assert.Equal(t, resp.User.ID, identity.ID)
}

func TestAuthRegisterStudentWithoutSection(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "asha@example.com", FullName: "Asha", Role: models.RoleStudent, Password: "secret1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthRegisterTeacherDropsSection(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newAuthService(repo)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "rao@example.com", FullName: "Ms Rao", Role: models.RoleTeacher, ClassSection: "10A", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.User.ClassSection)
	assert.Nil(t, repo.users[resp.User.ID].ClassSection)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newAuthService(repo)
	req := models.RegisterRequest{Email: "rao@example.com", FullName: "Ms Rao", Role: models.RoleTeacher, Password: "secret1"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrAlreadyRegistered))
}

func TestAuthLogin(t *testing.T) {
	repo := newMockAuthRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["u1"] = &models.User{ID: "u1", Email: "rao@example.com", PasswordHash: string(hash), FullName: "Ms Rao", Role: models.RoleTeacher}
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "rao@example.com", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "rao@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "password"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())
	other := NewAuthService(newMockAuthRepo(), nil, nil, AuthConfig{AccessTokenSecret: "other", AccessTokenExpiry: time.Hour})

	token, err := other.generateAccessToken(&models.User{ID: "u1", Role: models.RoleTeacher}, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthValidateTokenRejectsUnknownRole(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())
	claims := &models.JWTClaims{
		UserID: "u1",
		Role:   models.UserRole("janitor"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthValidateTokenExpired(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())
	token, err := svc.generateAccessToken(&models.User{ID: "u1", Role: models.RoleTeacher}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthMe(t *testing.T) {
	repo := newMockAuthRepo()
	section := "10B"
	repo.users["s1"] = &models.User{ID: "s1", Email: "s@example.com", FullName: "Ravi", Role: models.RoleStudent, ClassSection: &section}
	svc := newAuthService(repo)

	info, err := svc.Me(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "10B", info.ClassSection)

	_, err = svc.Me(context.Background(), "ghost")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
