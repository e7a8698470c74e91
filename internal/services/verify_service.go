package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/models"
	"github.com/simlok-project/backend/internal/qrtoken"
	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/utils"
)

// ScanOutcomeKind tags the result of a scan-record attempt. The duplicate
// cases are ordinary results, not errors: the storage layer's unique index
// is the enforcement mechanism and losing the insert race is expected.
type ScanOutcomeKind int

const (
	ScanInserted ScanOutcomeKind = iota
	ScanDuplicateDetected
	ScanDuplicateUnknown
)

type ScanOutcome struct {
	Kind ScanOutcomeKind

	// Scan is the newly inserted row (ScanInserted only).
	Scan *models.QrScan
	// Prior is the already-existing same-day row (ScanDuplicateDetected only).
	Prior *models.QrScan
}

type VerifyService struct {
	subRepo  repositories.SubmissionRepository
	scanRepo repositories.QrScanRepository
	codec    *qrtoken.Codec
	loc      *time.Location

	// now is swappable for tests.
	now func() time.Time
}

func NewVerifyService(
	subRepo repositories.SubmissionRepository,
	scanRepo repositories.QrScanRepository,
	codec *qrtoken.Codec,
	loc *time.Location,
) *VerifyService {
	return &VerifyService{
		subRepo:  subRepo,
		scanRepo: scanRepo,
		codec:    codec,
		loc:      loc,
		now:      time.Now,
	}
}

// VerifyScan runs the full verification pipeline: decode, window check,
// status gate, duplicate guard, response normalization. All business
// failures come back as *utils.AppError; only storage faults surface as
// plain errors for the controller's 500 path.
func (s *VerifyService) VerifyScan(
	ctx context.Context,
	verifier *models.User,
	req *dtos.VerifyScanRequest,
) (*dtos.VerifyScanResponse, error) {
	qrData := req.EffectiveQrData()
	if qrData == "" {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, "QR data is required")
	}

	payload, err := s.codec.Decode(qrData)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    "QR code could not be decoded",
			Err:        err,
		}
	}

	if !qrtoken.ValidIdentifier(payload.ID) {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, "QR code carries a malformed submission id")
	}
	submissionID, err := uuid.Parse(payload.ID)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, "QR code carries a malformed submission id")
	}

	sub, err := s.subRepo.GetWithRelations(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Submission not found")
	}
	if sub.ApprovalStatus != models.ApprovalStatusApproved {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeSubmissionNotApproved, "Submission has not been approved")
	}

	// The token's window wins when present; a token without dates falls
	// back to the permit's stored implementation window.
	start := payload.StartDate
	if start == nil {
		start = sub.ImplementationStartDate
	}
	end := payload.EndDate
	if end == nil {
		end = sub.ImplementationEndDate
	}
	if appErr := s.checkValidityWindow(start, end, s.now()); appErr != nil {
		return nil, appErr
	}

	outcome, err := s.recordScan(ctx, sub.ID, verifier, req.EffectiveLocation(), req.Notes)
	if err != nil {
		return nil, err
	}

	switch outcome.Kind {
	case ScanInserted:
		return &dtos.VerifyScanResponse{
			Success:   true,
			Message:   "QR code verified successfully",
			ScanID:    outcome.Scan.ID.String(),
			ScannedAt: outcome.Scan.ScannedAt.In(s.loc).Format(time.RFC3339),
			ScannedBy: verifier.Name,
			Data: dtos.VerifyScanData{
				Submission: dtos.NewVerifiedSubmissionDTO(sub),
			},
		}, nil

	case ScanDuplicateDetected:
		return nil, &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeDuplicateScanSameDay,
			Message:    "This submission was already scanned by you today",
			Details: dtos.DuplicateScanDetails{
				Error: utils.ErrCodeDuplicateScanSameDay,
				PreviousScan: &dtos.PreviousScanDTO{
					ScanDate:    outcome.Prior.ScannedAt.In(s.loc).Format(time.RFC3339),
					ScanID:      outcome.Prior.ID.String(),
					ScannerName: outcome.Prior.ScannerName,
				},
			},
		}

	default: // ScanDuplicateUnknown
		return nil, &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeDuplicateScanSameDay,
			Message:    "This submission was already scanned by you today",
			Details: dtos.DuplicateScanDetails{
				Error: utils.ErrCodeDuplicateScanSameDay,
			},
		}
	}
}

// checkValidityWindow decides admissibility of "today" (in the fixed
// business timezone) against an optional [start, end] civil-date range.
func (s *VerifyService) checkValidityWindow(start, end *time.Time, now time.Time) *utils.AppError {
	nl := now.In(s.loc)
	today := time.Date(nl.Year(), nl.Month(), nl.Day(), 0, 0, 0, 0, time.UTC)

	if start != nil && end != nil && dateOnly(*start).After(dateOnly(*end)) {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeQrOutOfWindow, "Permit is not available")
	}

	if start != nil {
		sd := dateOnly(*start)
		if today.Before(sd) {
			return utils.NewAppError(
				http.StatusBadRequest,
				utils.ErrCodeQrOutOfWindow,
				fmt.Sprintf("Permit is not yet valid (starts %s)", sd.Format("2006-01-02")),
			)
		}
	}
	if end != nil {
		ed := dateOnly(*end)
		if today.After(ed) {
			return utils.NewAppError(
				http.StatusBadRequest,
				utils.ErrCodeQrOutOfWindow,
				fmt.Sprintf("Permit has expired (ended %s)", ed.Format("2006-01-02")),
			)
		}
	}
	return nil
}

// recordScan enforces the one-scan-per-verifier-per-day invariant with an
// optimistic check-then-insert. The pre-check is a fast path for a friendly
// duplicate message; the unique index on (submission_id, scanned_by, civil
// day) is what actually guarantees the invariant, so an insert failing with
// a unique violation is treated as the authoritative duplicate signal and
// answered with one fallback re-query.
func (s *VerifyService) recordScan(
	ctx context.Context,
	submissionID uuid.UUID,
	verifier *models.User,
	location, notes string,
) (ScanOutcome, error) {
	now := s.now()
	dayStart, dayEnd := utils.DayBounds(now, s.loc)

	existing, err := s.scanRepo.FindSameDayScan(ctx, submissionID, verifier.ID, dayStart, dayEnd)
	if err != nil {
		return ScanOutcome{}, err
	}
	if existing != nil {
		return ScanOutcome{Kind: ScanDuplicateDetected, Prior: existing}, nil
	}

	scan := &models.QrScan{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		ScannedBy:    verifier.ID,
		ScannedAt:    now,
		ScannerName:  verifier.Name,
		ScanLocation: optionalString(location),
		Notes:        optionalString(notes),
	}

	err = s.scanRepo.Create(ctx, scan)
	if err == nil {
		return ScanOutcome{Kind: ScanInserted, Scan: scan}, nil
	}
	if !repositories.IsUniqueViolation(err) {
		return ScanOutcome{}, err
	}

	// Lost the race: another request for the same verifier+submission+day
	// committed between the pre-check and our insert.
	prior, qErr := s.scanRepo.FindSameDayScan(ctx, submissionID, verifier.ID, dayStart, dayEnd)
	if qErr != nil || prior == nil {
		return ScanOutcome{Kind: ScanDuplicateUnknown}, nil
	}
	return ScanOutcome{Kind: ScanDuplicateDetected, Prior: prior}, nil
}

// dateOnly truncates a stored window date to its civil day. Window dates are
// encoded as UTC midnights, but the driver may hand them back re-zoned to
// server-local time, so the calendar day is always read in UTC.
func dateOnly(t time.Time) time.Time {
	u := t.In(time.UTC)
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
