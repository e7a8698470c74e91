package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/services"
	"github.com/simlok-project/backend/internal/utils"
)

// UserController hosts the admin-only account management endpoints.
type UserController struct {
	userService *services.UserService
}

func NewUserController(us *services.UserService) *UserController {
	return &UserController{userService: us}
}

// CreateHandler => POST /api/v1/admin/users
func (c *UserController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateUserRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	resp, err := c.userService.Create(r.Context(), &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// ListHandler => GET /api/v1/admin/users
func (c *UserController) ListHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	resp, err := c.userService.List(r.Context(), q.Get("role"), limit, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetHandler => GET /api/v1/admin/users/{id}
func (c *UserController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathUUID(r, mux.Vars(r), "id")
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	resp, err := c.userService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// UpdateHandler => PATCH /api/v1/admin/users/{id}
func (c *UserController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathUUID(r, mux.Vars(r), "id")
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	var req dtos.UpdateUserRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	resp, err := c.userService.Update(r.Context(), id, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// DeleteHandler => DELETE /api/v1/admin/users/{id}
func (c *UserController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathUUID(r, mux.Vars(r), "id")
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	if err := c.userService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
