package dtos

import (
	"time"

	"github.com/simlok-project/backend/internal/models"
)

const civilDateLayout = "2006-01-02"

// civilDateString renders a stored window date. The convention is UTC
// midnight in storage and on the wire, but the driver may hand the value
// back re-zoned to server-local time, so the calendar day is always read
// in UTC.
func civilDateString(t time.Time) string {
	return t.In(time.UTC).Format(civilDateLayout)
}

/*
VerifyScanRequest is the body of POST /api/v1/qr/verify. Older mobile
builds send `qrData` / `scan_location`, current ones `qr_data` /
`scanLocation`; both spellings are accepted.
*/
type VerifyScanRequest struct {
	QrData          string `json:"qr_data"`
	QrDataLegacy    string `json:"qrData"`
	ScanLocation    string `json:"scanLocation"`
	ScanLocationAlt string `json:"scan_location"`
	Notes           string `json:"notes"`
}

func (r *VerifyScanRequest) EffectiveQrData() string {
	if r.QrData != "" {
		return r.QrData
	}
	return r.QrDataLegacy
}

func (r *VerifyScanRequest) EffectiveLocation() string {
	if r.ScanLocation != "" {
		return r.ScanLocation
	}
	return r.ScanLocationAlt
}

type WorkerDTO struct {
	ID          string  `json:"id"`
	WorkerName  string  `json:"worker_name"`
	WorkerPhoto *string `json:"worker_photo,omitempty"`
}

type SupportDocumentDTO struct {
	ID       string `json:"id"`
	DocType  string `json:"doc_type"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

// GroupedDocumentsDTO buckets support documents by category the way the
// dashboard expects them.
type GroupedDocumentsDTO struct {
	Sika    []SupportDocumentDTO `json:"sika"`
	Simja   []SupportDocumentDTO `json:"simja"`
	IDCards []SupportDocumentDTO `json:"id_cards"`
	Others  []SupportDocumentDTO `json:"others"`
}

type TaskDTO struct {
	Description string `json:"description"`
	Location    string `json:"location"`
}

type ImplementationDTO struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

/*
VerifiedSubmissionDTO is the client-facing projection of a submission in
verify responses. Several business fields are exposed under both their
canonical name and one or more legacy aliases (`title`, `vendor`,
`location`, the nested `task` and `implementation` objects) because older
dashboard and scanner builds still read the old keys. Aliasing lives here,
at the boundary, and nowhere else: every alias is filled from the same
underlying value in NewVerifiedSubmissionDTO.
*/
type VerifiedSubmissionDTO struct {
	ID           string  `json:"id"`
	SimlokNumber *string `json:"simlok_number,omitempty"`

	VendorName string `json:"vendor_name"`
	Vendor     string `json:"vendor"`

	OfficerName string `json:"officer_name"`

	JobDescription string  `json:"job_description"`
	Title          string  `json:"title"`
	Task           TaskDTO `json:"task"`

	WorkLocation string `json:"work_location"`
	Location     string `json:"location"`

	WorkingHours   string `json:"working_hours"`
	ApprovalStatus string `json:"approval_status"`

	ImplementationStartDate *string           `json:"implementation_start_date,omitempty"`
	ImplementationEndDate   *string           `json:"implementation_end_date,omitempty"`
	Implementation          ImplementationDTO `json:"implementation"`

	Workers     []WorkerDTO `json:"workers"`
	WorkerNames []string    `json:"worker_names"`

	SupportDocuments GroupedDocumentsDTO `json:"support_documents"`
}

// NewVerifiedSubmissionDTO maps a stored submission (with relations loaded)
// into the normalized response shape.
func NewVerifiedSubmissionDTO(s *models.Submission) VerifiedSubmissionDTO {
	dto := VerifiedSubmissionDTO{
		ID:           s.ID.String(),
		SimlokNumber: s.SimlokNumber,

		VendorName: s.VendorName,
		Vendor:     s.VendorName,

		OfficerName: s.OfficerName,

		JobDescription: s.JobDescription,
		Title:          s.JobDescription,
		Task: TaskDTO{
			Description: s.JobDescription,
			Location:    s.WorkLocation,
		},

		WorkLocation: s.WorkLocation,
		Location:     s.WorkLocation,

		WorkingHours:   s.WorkingHours,
		ApprovalStatus: string(s.ApprovalStatus),

		Workers:     []WorkerDTO{},
		WorkerNames: []string{},
		SupportDocuments: GroupedDocumentsDTO{
			Sika:    []SupportDocumentDTO{},
			Simja:   []SupportDocumentDTO{},
			IDCards: []SupportDocumentDTO{},
			Others:  []SupportDocumentDTO{},
		},
	}

	if s.ImplementationStartDate != nil {
		v := civilDateString(*s.ImplementationStartDate)
		dto.ImplementationStartDate = &v
		dto.Implementation.StartDate = &v
	}
	if s.ImplementationEndDate != nil {
		v := civilDateString(*s.ImplementationEndDate)
		dto.ImplementationEndDate = &v
		dto.Implementation.EndDate = &v
	}

	for _, w := range s.Workers {
		dto.Workers = append(dto.Workers, WorkerDTO{
			ID:          w.ID.String(),
			WorkerName:  w.WorkerName,
			WorkerPhoto: w.WorkerPhoto,
		})
		dto.WorkerNames = append(dto.WorkerNames, w.WorkerName)
	}

	for _, d := range s.Documents {
		docDTO := SupportDocumentDTO{
			ID:       d.ID.String(),
			DocType:  string(d.DocType),
			FileName: d.FileName,
			FileURL:  d.FileURL,
		}
		switch d.DocType {
		case models.DocTypeSika:
			dto.SupportDocuments.Sika = append(dto.SupportDocuments.Sika, docDTO)
		case models.DocTypeSimja:
			dto.SupportDocuments.Simja = append(dto.SupportDocuments.Simja, docDTO)
		case models.DocTypeIDCard:
			dto.SupportDocuments.IDCards = append(dto.SupportDocuments.IDCards, docDTO)
		default:
			dto.SupportDocuments.Others = append(dto.SupportDocuments.Others, docDTO)
		}
	}

	return dto
}

type VerifyScanData struct {
	Submission VerifiedSubmissionDTO `json:"submission"`
}

type VerifyScanResponse struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	ScanID    string         `json:"scan_id"`
	ScannedAt string         `json:"scanned_at"`
	ScannedBy string         `json:"scanned_by"`
	Data      VerifyScanData `json:"data"`
}

// PreviousScanDTO rides in the 409 details so the scanner app can tell the
// verifier when and by whom the permit was already checked today.
type PreviousScanDTO struct {
	ScanDate    string `json:"scanDate"`
	ScanID      string `json:"scanId"`
	ScannerName string `json:"scannerName"`
}

type DuplicateScanDetails struct {
	Error        string           `json:"error"`
	PreviousScan *PreviousScanDTO `json:"previousScan,omitempty"`
}

type ScanHistoryEntryDTO struct {
	ID           string  `json:"id"`
	SubmissionID string  `json:"submission_id"`
	ScannedBy    string  `json:"scanned_by"`
	ScannedAt    string  `json:"scanned_at"`
	ScannerName  string  `json:"scanner_name"`
	ScanLocation *string `json:"scan_location,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	Submission *ScanHistorySubmissionDTO `json:"submission,omitempty"`
}

type ScanHistorySubmissionDTO struct {
	ID                      string  `json:"id"`
	SimlokNumber            *string `json:"simlok_number,omitempty"`
	VendorName              string  `json:"vendor_name"`
	JobDescription          string  `json:"job_description"`
	WorkLocation            string  `json:"work_location"`
	ApprovalStatus          string  `json:"approval_status"`
	ImplementationStartDate *string `json:"implementation_start_date,omitempty"`
	ImplementationEndDate   *string `json:"implementation_end_date,omitempty"`
}

type PaginationDTO struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type ScanHistoryResponse struct {
	Scans      []ScanHistoryEntryDTO `json:"scans"`
	Pagination PaginationDTO         `json:"pagination"`
}

// NewScanHistoryEntryDTO renders a scan row with all timestamps in the
// fixed business timezone.
func NewScanHistoryEntryDTO(scan *models.QrScan, loc *time.Location) ScanHistoryEntryDTO {
	dto := ScanHistoryEntryDTO{
		ID:           scan.ID.String(),
		SubmissionID: scan.SubmissionID.String(),
		ScannedBy:    scan.ScannedBy.String(),
		ScannedAt:    scan.ScannedAt.In(loc).Format(time.RFC3339),
		ScannerName:  scan.ScannerName,
		ScanLocation: scan.ScanLocation,
		Notes:        scan.Notes,
	}

	if s := scan.Submission; s != nil {
		sub := &ScanHistorySubmissionDTO{
			ID:             s.ID.String(),
			SimlokNumber:   s.SimlokNumber,
			VendorName:     s.VendorName,
			JobDescription: s.JobDescription,
			WorkLocation:   s.WorkLocation,
			ApprovalStatus: string(s.ApprovalStatus),
		}
		if s.ImplementationStartDate != nil {
			v := civilDateString(*s.ImplementationStartDate)
			sub.ImplementationStartDate = &v
		}
		if s.ImplementationEndDate != nil {
			v := civilDateString(*s.ImplementationEndDate)
			sub.ImplementationEndDate = &v
		}
		dto.Submission = sub
	}

	return dto
}
