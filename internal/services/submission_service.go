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

type SubmissionService struct {
	subRepo      repositories.SubmissionRepository
	codec        *qrtoken.Codec
	notification *NotificationService
	loc          *time.Location
}

func NewSubmissionService(
	subRepo repositories.SubmissionRepository,
	codec *qrtoken.Codec,
	notification *NotificationService,
	loc *time.Location,
) *SubmissionService {
	return &SubmissionService{
		subRepo:      subRepo,
		codec:        codec,
		notification: notification,
		loc:          loc,
	}
}

func (s *SubmissionService) Create(ctx context.Context, vendor *models.User, req *dtos.CreateSubmissionRequest) (*dtos.SubmissionDTO, error) {
	start, err := parseCivilDate(req.ImplementationStartDate)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid implementation_start_date, expected YYYY-MM-DD")
	}
	end, err := parseCivilDate(req.ImplementationEndDate)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid implementation_end_date, expected YYYY-MM-DD")
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "implementation_start_date is after implementation_end_date")
	}

	vendorName := vendor.Name
	if vendor.VendorName != nil && *vendor.VendorName != "" {
		vendorName = *vendor.VendorName
	}

	sub := &models.Submission{
		ID:                      uuid.New(),
		VendorID:                vendor.ID,
		VendorName:              vendorName,
		OfficerName:             req.OfficerName,
		JobDescription:          req.JobDescription,
		WorkLocation:            req.WorkLocation,
		WorkingHours:            req.WorkingHours,
		ApprovalStatus:          models.ApprovalStatusPending,
		ReviewStatus:            models.ReviewStatusPending,
		ImplementationStartDate: start,
		ImplementationEndDate:   end,
	}

	for _, w := range req.Workers {
		sub.Workers = append(sub.Workers, models.SubmissionWorker{
			WorkerName:  w.WorkerName,
			WorkerPhoto: w.WorkerPhoto,
		})
	}
	for _, d := range req.Documents {
		docType := models.DocumentType(d.DocType)
		switch docType {
		case models.DocTypeSika, models.DocTypeSimja, models.DocTypeIDCard, models.DocTypeOther:
		default:
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Unknown document type: "+d.DocType)
		}
		sub.Documents = append(sub.Documents, models.SupportDocument{
			DocType:  docType,
			FileName: d.FileName,
			FileURL:  d.FileURL,
		})
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	dto := dtos.NewSubmissionDTO(sub)
	return &dto, nil
}

func (s *SubmissionService) List(ctx context.Context, caller *models.User, search, status string, limit, offset int) (*dtos.SubmissionListResponse, error) {
	if limit <= 0 {
		limit = historyDefaultLimit
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	filter := repositories.SubmissionFilter{
		Search: search,
		Limit:  limit,
		Offset: offset,
	}
	if caller.Role == models.RoleVendor {
		filter.VendorID = &caller.ID
	}
	if status != "" {
		st := models.ApprovalStatusType(status)
		switch st {
		case models.ApprovalStatusPending, models.ApprovalStatusApproved, models.ApprovalStatusRejected:
			filter.ApprovalStatus = &st
		default:
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid status filter")
		}
	}

	subs, total, err := s.subRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.SubmissionDTO, 0, len(subs))
	for _, sub := range subs {
		out = append(out, dtos.NewSubmissionDTO(sub))
	}

	return &dtos.SubmissionListResponse{
		Submissions: out,
		Pagination: dtos.PaginationDTO{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(out) < total,
		},
	}, nil
}

func (s *SubmissionService) Get(ctx context.Context, caller *models.User, id uuid.UUID) (*dtos.SubmissionDTO, error) {
	sub, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	dto := dtos.NewSubmissionDTO(sub)
	return &dto, nil
}

// Review records the reviewer's assessment. Only pending submissions can be
// reviewed.
func (s *SubmissionService) Review(ctx context.Context, id uuid.UUID, req *dtos.ReviewSubmissionRequest) (*dtos.SubmissionDTO, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Submission not found")
	}
	if sub.ApprovalStatus != models.ApprovalStatusPending {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "Submission has already been decided")
	}

	status := models.ReviewStatusType(req.ReviewStatus)
	if err := s.subRepo.SetReview(ctx, id, status, req.Notes); err != nil {
		return nil, err
	}

	sub.ReviewStatus = status
	if req.Notes != nil {
		sub.Notes = req.Notes
	}
	dto := dtos.NewSubmissionDTO(sub)
	return &dto, nil
}

// Decide applies the approver's final decision. Approval requires a passing
// review, assigns the SIMLOK number, signs the permit QR token and notifies
// the vendor.
func (s *SubmissionService) Decide(ctx context.Context, approver *models.User, id uuid.UUID, req *dtos.ApproveSubmissionRequest) (*dtos.SubmissionDTO, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Submission not found")
	}
	if sub.ApprovalStatus != models.ApprovalStatusPending {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "Submission has already been decided")
	}

	status := models.ApprovalStatusType(req.ApprovalStatus)

	var simlokNumber, token *string
	if status == models.ApprovalStatusApproved {
		if sub.ReviewStatus != models.ReviewStatusMeets {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Submission has not passed review")
		}

		number, err := s.nextSimlokNumber(ctx)
		if err != nil {
			return nil, err
		}
		simlokNumber = &number

		signed, err := s.codec.Issue(sub.ID.String(), sub.ImplementationStartDate, sub.ImplementationEndDate)
		if err != nil {
			return nil, err
		}
		token = &signed
	}

	if err := s.subRepo.SetApproval(ctx, id, status, approver.ID, simlokNumber, token, req.Notes); err != nil {
		return nil, err
	}

	sub.ApprovalStatus = status
	sub.SimlokNumber = simlokNumber
	sub.QrToken = token
	sub.ApprovedBy = &approver.ID
	now := time.Now()
	sub.ApprovedAt = &now
	if req.Notes != nil {
		sub.Notes = req.Notes
	}

	if err := s.notification.NotifyApprovalDecision(ctx, sub, status == models.ApprovalStatusApproved); err != nil {
		utils.Logger.WithError(err).Error("Failed to record approval notification")
	}

	dto := dtos.NewSubmissionDTO(sub)
	return &dto, nil
}

// QrImage renders the permit's QR code PNG. Only approved submissions have
// a token to render.
func (s *SubmissionService) QrImage(ctx context.Context, caller *models.User, id uuid.UUID) ([]byte, error) {
	sub, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if sub.ApprovalStatus != models.ApprovalStatusApproved || sub.QrToken == nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeSubmissionNotApproved, "Submission has no issued QR code")
	}
	return qrtoken.RenderPNG(*sub.QrToken)
}

// loadOwned fetches a submission and enforces vendor row scoping.
func (s *SubmissionService) loadOwned(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Submission, error) {
	sub, err := s.subRepo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Submission not found")
	}
	if caller.Role == models.RoleVendor && sub.VendorID != caller.ID {
		return nil, utils.NewAppError(http.StatusForbidden, utils.ErrCodeForbidden, "Not your submission")
	}
	return sub, nil
}

// nextSimlokNumber produces "NNNN/SIMLOK/MM/YYYY" using the count of
// approvals so far this year.
func (s *SubmissionService) nextSimlokNumber(ctx context.Context) (string, error) {
	now := time.Now().In(s.loc)
	count, err := s.subRepo.CountApprovedInYear(ctx, now.Year())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d/SIMLOK/%02d/%d", count+1, int(now.Month()), now.Year()), nil
}

func parseCivilDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
