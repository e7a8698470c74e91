package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	ErrCodeInvalidPayload        = "invalid_payload"
	ErrCodeValidation            = "validation_error"
	ErrCodeUnauthorized          = "unauthorized"
	ErrCodeForbidden             = "forbidden"
	ErrCodeTokenExpired          = "token_expired"
	ErrCodeInvalidCredentials    = "invalid_credentials"
	ErrCodeInternal              = "internal_server_error"
	ErrCodeNotFound              = "not_found"
	ErrCodeConflict              = "conflict"
	ErrCodeRateLimitExceeded     = "rate_limit_exceeded"
	ErrCodeSubmissionNotApproved = "submission_not_approved"
	ErrCodeDuplicateScanSameDay  = "duplicate_scan_same_day"
	ErrCodeQrOutOfWindow         = "qr_out_of_validity_window"
)

// ErrorResponse carries a machine-readable code, a public message and an
// optional `Details` field with additional info (like a previous scan).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// RespondErrorWithCode builds a JSON error response with a standard
// code and message. The optional `details` is included if non-nil.
func RespondErrorWithCode(
	w http.ResponseWriter,
	status int,
	errorCode string,
	publicMessage string,
	details any,
	devErrs ...error,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errBody := ErrorResponse{
		Code:    errorCode,
		Message: publicMessage,
	}
	if details != nil {
		errBody.Details = details
	}
	_ = json.NewEncoder(w).Encode(errBody)

	// devErr is optional; only handle if provided
	if len(devErrs) > 0 && devErrs[0] != nil {
		Logger.WithFields(logrus.Fields{
			"status": status,
			"error":  devErrs[0].Error(),
		}).Error(publicMessage)
	} else {
		Logger.WithFields(logrus.Fields{
			"status": status,
		}).Error(publicMessage)
	}
}

// RespondWithJSON for successful cases
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
