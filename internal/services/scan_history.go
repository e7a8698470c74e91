package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/models"
	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/utils"
)

const (
	historyDefaultLimit = 50
	historyMaxLimit     = 100
)

// ScanHistoryParams are the raw GET query parameters; the service clamps
// limits and applies role scoping.
type ScanHistoryParams struct {
	SubmissionID string
	Search       string
	Status       string
	DateFrom     string
	DateTo       string
	Location     string
	Limit        int
	Offset       int
}

// ScanHistory lists scans for the caller. Verifier-level callers are scoped
// to their own rows; admin-level callers see everything. All date/time
// fields in the response are rendered in the fixed business timezone.
func (s *VerifyService) ScanHistory(
	ctx context.Context,
	caller *models.User,
	params ScanHistoryParams,
) (*dtos.ScanHistoryResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = historyDefaultLimit
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	filter := repositories.ScanHistoryFilter{
		Search:   params.Search,
		Location: params.Location,
		Limit:    limit,
		Offset:   offset,
	}

	if !caller.IsAdminLevel() {
		filter.ScannedBy = &caller.ID
	}

	if params.SubmissionID != "" {
		id, err := uuid.Parse(params.SubmissionID)
		if err != nil {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid submission_id")
		}
		filter.SubmissionID = &id
	}

	if params.Status != "" {
		status := models.ApprovalStatusType(params.Status)
		switch status {
		case models.ApprovalStatusPending, models.ApprovalStatusApproved, models.ApprovalStatusRejected:
			filter.ApprovalStatus = &status
		default:
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid status filter")
		}
	}

	// Date filters are civil dates in the business timezone; dateTo is
	// inclusive, so the upper bound is the start of the following day.
	if params.DateFrom != "" {
		from, err := time.ParseInLocation("2006-01-02", params.DateFrom, s.loc)
		if err != nil {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid dateFrom, expected YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if params.DateTo != "" {
		to, err := time.ParseInLocation("2006-01-02", params.DateTo, s.loc)
		if err != nil {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid dateTo, expected YYYY-MM-DD")
		}
		toExclusive := to.AddDate(0, 0, 1)
		filter.DateTo = &toExclusive
	}

	scans, total, err := s.scanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]dtos.ScanHistoryEntryDTO, 0, len(scans))
	for _, scan := range scans {
		entries = append(entries, dtos.NewScanHistoryEntryDTO(scan, s.loc))
	}

	return &dtos.ScanHistoryResponse{
		Scans: entries,
		Pagination: dtos.PaginationDTO{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(entries) < total,
		},
	}, nil
}
