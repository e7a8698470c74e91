package dtos

import (
	"time"

	"github.com/simlok-project/backend/internal/models"
)

type CreateSubmissionWorker struct {
	WorkerName  string  `json:"worker_name" validate:"required"`
	WorkerPhoto *string `json:"worker_photo,omitempty"`
}

type CreateSubmissionDocument struct {
	DocType  string `json:"doc_type" validate:"required"`
	FileName string `json:"file_name" validate:"required"`
	FileURL  string `json:"file_url" validate:"required"`
}

type CreateSubmissionRequest struct {
	OfficerName             string                     `json:"officer_name" validate:"required"`
	JobDescription          string                     `json:"job_description" validate:"required"`
	WorkLocation            string                     `json:"work_location" validate:"required"`
	WorkingHours            string                     `json:"working_hours" validate:"required"`
	ImplementationStartDate *string                    `json:"implementation_start_date,omitempty"`
	ImplementationEndDate   *string                    `json:"implementation_end_date,omitempty"`
	Workers                 []CreateSubmissionWorker   `json:"workers" validate:"dive"`
	Documents               []CreateSubmissionDocument `json:"documents" validate:"dive"`
}

type ReviewSubmissionRequest struct {
	ReviewStatus string  `json:"review_status" validate:"required,oneof=MEETS_REQUIREMENTS NOT_MEETS_REQUIREMENTS"`
	Notes        *string `json:"notes,omitempty"`
}

type ApproveSubmissionRequest struct {
	ApprovalStatus string  `json:"approval_status" validate:"required,oneof=APPROVED REJECTED"`
	Notes          *string `json:"notes,omitempty"`
}

type SubmissionDTO struct {
	ID                      string  `json:"id"`
	SimlokNumber            *string `json:"simlok_number,omitempty"`
	VendorID                string  `json:"vendor_id"`
	VendorName              string  `json:"vendor_name"`
	OfficerName             string  `json:"officer_name"`
	JobDescription          string  `json:"job_description"`
	WorkLocation            string  `json:"work_location"`
	WorkingHours            string  `json:"working_hours"`
	ApprovalStatus          string  `json:"approval_status"`
	ReviewStatus            string  `json:"review_status"`
	ImplementationStartDate *string `json:"implementation_start_date,omitempty"`
	ImplementationEndDate   *string `json:"implementation_end_date,omitempty"`
	Notes                   *string `json:"notes,omitempty"`
	ApprovedAt              *string `json:"approved_at,omitempty"`
	CreatedAt               string  `json:"created_at"`

	Workers   []WorkerDTO          `json:"workers,omitempty"`
	Documents []SupportDocumentDTO `json:"documents,omitempty"`
}

func NewSubmissionDTO(s *models.Submission) SubmissionDTO {
	dto := SubmissionDTO{
		ID:             s.ID.String(),
		SimlokNumber:   s.SimlokNumber,
		VendorID:       s.VendorID.String(),
		VendorName:     s.VendorName,
		OfficerName:    s.OfficerName,
		JobDescription: s.JobDescription,
		WorkLocation:   s.WorkLocation,
		WorkingHours:   s.WorkingHours,
		ApprovalStatus: string(s.ApprovalStatus),
		ReviewStatus:   string(s.ReviewStatus),
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}

	if s.ImplementationStartDate != nil {
		v := civilDateString(*s.ImplementationStartDate)
		dto.ImplementationStartDate = &v
	}
	if s.ImplementationEndDate != nil {
		v := civilDateString(*s.ImplementationEndDate)
		dto.ImplementationEndDate = &v
	}
	if s.ApprovedAt != nil {
		v := s.ApprovedAt.Format(time.RFC3339)
		dto.ApprovedAt = &v
	}

	for _, w := range s.Workers {
		dto.Workers = append(dto.Workers, WorkerDTO{
			ID:          w.ID.String(),
			WorkerName:  w.WorkerName,
			WorkerPhoto: w.WorkerPhoto,
		})
	}
	for _, d := range s.Documents {
		dto.Documents = append(dto.Documents, SupportDocumentDTO{
			ID:       d.ID.String(),
			DocType:  string(d.DocType),
			FileName: d.FileName,
			FileURL:  d.FileURL,
		})
	}

	return dto
}

type SubmissionListResponse struct {
	Submissions []SubmissionDTO `json:"submissions"`
	Pagination  PaginationDTO   `json:"pagination"`
}
