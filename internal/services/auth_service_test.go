package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/models"
	"github.com/simlok-project/backend/internal/utils"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	return NewAuthService(users, key, 8*time.Hour), users, key
}

func seedUser(t *testing.T, users *fakeUserRepo, password string, role models.UserRole, active bool) *models.User {
	t.Helper()

	// MinCost keeps the test fast; verification is cost-independent.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		ID:           uuid.New(),
		Email:        "verifier@simlok.id",
		PasswordHash: string(hash),
		Name:         "Budi Santoso",
		Role:         role,
		IsActive:     active,
	}
	users.users[u.ID] = u
	return u
}

func TestLoginIssuesRoleBearingToken(t *testing.T) {
	svc, users, key := newAuthFixture(t)
	u := seedUser(t, users, "s3cret-pass", models.RoleVerifier, true)

	resp, err := svc.Login(context.Background(), &dtos.LoginRequest{
		Email:    u.Email,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, int((8 * time.Hour).Seconds()), resp.ExpiresIn)
	require.Equal(t, u.ID.String(), resp.User.ID)

	tok, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	require.Equal(t, TokenIssuer, claims["iss"])
	require.Equal(t, u.ID.String(), claims["sub"])
	require.Equal(t, string(models.RoleVerifier), claims["role"])
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	u := seedUser(t, users, "s3cret-pass", models.RoleVerifier, true)

	// Wrong password and unknown email answer identically.
	_, err := svc.Login(context.Background(), &dtos.LoginRequest{Email: u.Email, Password: "wrong"})
	wrongPass := requireAppError(t, err, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials)

	_, err = svc.Login(context.Background(), &dtos.LoginRequest{Email: "nobody@simlok.id", Password: "s3cret-pass"})
	unknown := requireAppError(t, err, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials)

	require.Equal(t, wrongPass.Message, unknown.Message)
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	u := seedUser(t, users, "s3cret-pass", models.RoleVerifier, false)

	_, err := svc.Login(context.Background(), &dtos.LoginRequest{Email: u.Email, Password: "s3cret-pass"})
	requireAppError(t, err, http.StatusForbidden, utils.ErrCodeForbidden)
}
