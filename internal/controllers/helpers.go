package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/simlok-project/backend/internal/middleware"
	"github.com/simlok-project/backend/internal/models"
	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/utils"
)

var validate = validator.New()

// currentUser resolves the authenticated caller from the request context
// into a full user record. A token for a deleted or deactivated account is
// rejected here even though its signature is still valid.
func currentUser(r *http.Request, userRepo repositories.UserRepository) (*models.User, *utils.AppError) {
	ctxUserID, ok := r.Context().Value(middleware.ContextKeyUserID).(string)
	if !ok {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context")
	}

	id, err := uuid.Parse(ctxUserID)
	if err != nil {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Malformed userID in context")
	}

	user, err := userRepo.GetByID(r.Context(), id)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Failed to load user",
			Err:        err,
		}
	}
	if user == nil || !user.IsActive {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Account not found or deactivated")
	}
	return user, nil
}

// decodeAndValidate parses the JSON body into dst and runs struct validation.
func decodeAndValidate(r *http.Request, dst any) *utils.AppError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    "Invalid JSON body",
			Err:        err,
		}
	}
	if err := validate.Struct(dst); err != nil {
		return &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    err.Error(),
			Err:        err,
		}
	}
	return nil
}

func pathUUID(r *http.Request, vars map[string]string, key string) (uuid.UUID, *utils.AppError) {
	id, err := uuid.Parse(vars[key])
	if err != nil {
		return uuid.Nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid "+key)
	}
	return id, nil
}
