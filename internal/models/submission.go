package models

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatusType string

const (
	ApprovalStatusPending  ApprovalStatusType = "PENDING"
	ApprovalStatusApproved ApprovalStatusType = "APPROVED"
	ApprovalStatusRejected ApprovalStatusType = "REJECTED"
)

type ReviewStatusType string

const (
	ReviewStatusPending  ReviewStatusType = "PENDING"
	ReviewStatusMeets    ReviewStatusType = "MEETS_REQUIREMENTS"
	ReviewStatusNotMeets ReviewStatusType = "NOT_MEETS_REQUIREMENTS"
)

type DocumentType string

const (
	DocTypeSika   DocumentType = "SIKA"
	DocTypeSimja  DocumentType = "SIMJA"
	DocTypeIDCard DocumentType = "ID_CARD"
	DocTypeOther  DocumentType = "OTHER"
)

// Submission is a vendor's work-permit request. Once approved the
// descriptive fields are immutable; only status/notes change afterwards.
type Submission struct {
	ID             uuid.UUID          `json:"id"`
	SimlokNumber   *string            `json:"simlok_number,omitempty"`
	VendorID       uuid.UUID          `json:"vendor_id"`
	VendorName     string             `json:"vendor_name"`
	OfficerName    string             `json:"officer_name"`
	JobDescription string             `json:"job_description"`
	WorkLocation   string             `json:"work_location"`
	WorkingHours   string             `json:"working_hours"`
	ApprovalStatus ApprovalStatusType `json:"approval_status"`
	ReviewStatus   ReviewStatusType   `json:"review_status"`

	// Permit validity window; either side may be open.
	ImplementationStartDate *time.Time `json:"implementation_start_date,omitempty"`
	ImplementationEndDate   *time.Time `json:"implementation_end_date,omitempty"`

	QrToken    *string    `json:"-"`
	Notes      *string    `json:"notes,omitempty"`
	ApprovedBy *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Loaded separately by the repository.
	Workers   []SubmissionWorker `json:"workers,omitempty"`
	Documents []SupportDocument  `json:"documents,omitempty"`
}

type SubmissionWorker struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	WorkerName   string    `json:"worker_name"`
	WorkerPhoto  *string   `json:"worker_photo,omitempty"`
}

type SupportDocument struct {
	ID           uuid.UUID    `json:"id"`
	SubmissionID uuid.UUID    `json:"submission_id"`
	DocType      DocumentType `json:"doc_type"`
	FileName     string       `json:"file_name"`
	FileURL      string       `json:"file_url"`
	UploadedAt   time.Time    `json:"uploaded_at"`
}
