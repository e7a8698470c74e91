package services

import (
	"context"
	"crypto/rsa"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/utils"
)

// TokenIssuer identifies this service in the tokens it signs.
const TokenIssuer = "SIMLOK"

type AuthService struct {
	userRepo   repositories.UserRepository
	privateKey *rsa.PrivateKey
	tokenTTL   time.Duration
}

func NewAuthService(userRepo repositories.UserRepository, privateKey *rsa.PrivateKey, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		privateKey: privateKey,
		tokenTTL:   tokenTTL,
	}
}

// Login checks credentials and issues an RS256 access token carrying the
// user's role. Failures are indistinguishable on purpose (unknown email vs
// wrong password).
func (s *AuthService) Login(ctx context.Context, req *dtos.LoginRequest) (*dtos.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid email or password")
	}
	if !user.IsActive {
		return nil, utils.NewAppError(http.StatusForbidden, utils.ErrCodeForbidden, "Account is deactivated")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  TokenIssuer,
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := tok.SignedString(s.privateKey)
	if err != nil {
		return nil, err
	}

	return &dtos.LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        dtos.NewUserDTO(user),
	}, nil
}
