package service

import (
	"context"
	"testing"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func testUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test User",
	}
}

func TestLoginAndVerifyToken(t *testing.T) {
	user := testUser(t, "inspector@example.com", "correct horse")
	repo := &fakeUserRepo{users: map[string]*models.User{user.Email: user}}
	svc := NewAuthService(repo, "test-secret")

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "inspector@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)

	userID, err := svc.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := testUser(t, "inspector@example.com", "correct horse")
	repo := &fakeUserRepo{users: map[string]*models.User{user.Email: user}}
	svc := NewAuthService(repo, "test-secret")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "inspector@example.com",
		Password: "wrong horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, "test-secret")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "anything",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, "test-secret")

	_, err := svc.Login(context.Background(), LoginRequest{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	user := testUser(t, "inspector@example.com", "correct horse")
	repo := &fakeUserRepo{users: map[string]*models.User{user.Email: user}}

	issuer := NewAuthService(repo, "secret-a")
	result, err := issuer.Login(context.Background(), LoginRequest{
		Email:    "inspector@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	verifier := NewAuthService(repo, "secret-b")
	_, err = verifier.VerifyToken(result.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, "test-secret")

	_, err := svc.VerifyToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
