package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/services"
	"github.com/simlok-project/backend/internal/utils"
)

type SubmissionController struct {
	subService *services.SubmissionService
	userRepo   repositories.UserRepository
}

func NewSubmissionController(ss *services.SubmissionService, userRepo repositories.UserRepository) *SubmissionController {
	return &SubmissionController{subService: ss, userRepo: userRepo}
}

// CreateHandler => POST /api/v1/submissions (vendor)
func (c *SubmissionController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, appErr := currentUser(r, c.userRepo)
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	var req dtos.CreateSubmissionRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	resp, err := c.subService.Create(r.Context(), user, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// ListHandler => GET /api/v1/submissions (role scoped)
func (c *SubmissionController) ListHandler(w http.ResponseWriter, r *http.Request) {
	user, appErr := currentUser(r, c.userRepo)
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	resp, err := c.subService.List(r.Context(), user, q.Get("search"), q.Get("status"), limit, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetHandler => GET /api/v1/submissions/{id}
func (c *SubmissionController) GetHandler(w http.ResponseWriter, r *http.Request) {
	user, appErr := currentUser(r, c.userRepo)
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	id, appErr := pathUUID(r, mux.Vars(r), "id")
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	resp, err := c.subService.Get(r.Context(), user, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ReviewHandler => PATCH /api/v1/submissions/{id}/review (reviewer)
func (c *SubmissionController) ReviewHandler(w http.ResponseWriter, r *http.Request) {
	if _, appErr := currentUser(r, c.userRepo); appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	id, appErr := pathUUID(r, mux.Vars(r), "id")
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	var req dtos.ReviewSubmissionRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	resp, err := c.subService.Review(r.Context(), id, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// DecideHandler => PATCH /api/v1/submissions/{id}/approval (approver)
func (c *SubmissionController) DecideHandler(w http.ResponseWriter, r *http.Request) {
	user, appErr := currentUser(r, c.userRepo)
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	id, appErr := pathUUID(r, mux.Vars(r), "id")
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	var req dtos.ApproveSubmissionRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	resp, err := c.subService.Decide(r.Context(), user, id, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// QrImageHandler => GET /api/v1/submissions/{id}/qrcode
func (c *SubmissionController) QrImageHandler(w http.ResponseWriter, r *http.Request) {
	user, appErr := currentUser(r, c.userRepo)
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	id, appErr := pathUUID(r, mux.Vars(r), "id")
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	png, err := c.subService.QrImage(r.Context(), user, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
