package models

import (
	"time"

	"github.com/google/uuid"
)

// QrScan records one accepted on-site verification. Rows are created by the
// verify operation and never updated or deleted by this service. The table
// carries a unique index over (submission_id, scanned_by, civil scan day)
// which is the authoritative enforcement of the one-scan-per-verifier-per-day
// invariant.
type QrScan struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	ScannedBy    uuid.UUID `json:"scanned_by"`
	ScannedAt    time.Time `json:"scanned_at"`
	ScannerName  string    `json:"scanner_name"`
	ScanLocation *string   `json:"scan_location,omitempty"`
	Notes        *string   `json:"notes,omitempty"`

	// Joined submission summary, populated by history list queries only.
	Submission *Submission `json:"submission,omitempty"`
}
