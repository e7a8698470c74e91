package controllers

import (
	"net/http"
	"strconv"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/services"
	"github.com/simlok-project/backend/internal/utils"
)

type QrVerifyController struct {
	verifyService *services.VerifyService
	userRepo      repositories.UserRepository
}

func NewQrVerifyController(vs *services.VerifyService, userRepo repositories.UserRepository) *QrVerifyController {
	return &QrVerifyController{verifyService: vs, userRepo: userRepo}
}

// ----------------------------------------------------------------
// POST /api/v1/qr/verify
// ----------------------------------------------------------------
func (c *QrVerifyController) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, appErr := currentUser(r, c.userRepo)
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}
	if !user.CanVerify() {
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", nil,
		)
		return
	}

	var req dtos.VerifyScanRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}

	resp, err := c.verifyService.VerifyScan(ctx, user, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/v1/qr/verify
// ----------------------------------------------------------------
func (c *QrVerifyController) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, appErr := currentUser(r, c.userRepo)
	if appErr != nil {
		utils.HandleAppError(w, appErr)
		return
	}
	if !user.CanVerify() {
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", nil,
		)
		return
	}

	q := r.URL.Query()
	params := services.ScanHistoryParams{
		SubmissionID: q.Get("submission_id"),
		Search:       q.Get("search"),
		Status:       q.Get("status"),
		DateFrom:     q.Get("dateFrom"),
		DateTo:       q.Get("dateTo"),
		Location:     q.Get("location"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid limit", nil)
			return
		}
		params.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid offset", nil)
			return
		}
		params.Offset = n
	}

	resp, err := c.verifyService.ScanHistory(ctx, user, params)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
