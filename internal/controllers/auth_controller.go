package controllers

import (
	"net/http"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/services"
	"github.com/simlok-project/backend/internal/utils"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(as *services.AuthService) *AuthController {
	return &AuthController{authService: as}
}

// LoginHandler => POST /api/v1/auth/login
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	resp, err := c.authService.Login(r.Context(), &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
