package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/simlok-project/backend/internal/models"
)

// ScanHistoryFilter narrows scan history queries. ScannedBy is set by the
// service layer for verifier-level callers so they only see their own rows.
type ScanHistoryFilter struct {
	SubmissionID   *uuid.UUID
	ScannedBy      *uuid.UUID
	ApprovalStatus *models.ApprovalStatusType
	Search         string
	DateFrom       *time.Time
	DateTo         *time.Time
	Location       string
	Limit          int
	Offset         int
}

type QrScanRepository interface {
	// Create inserts a single scan row. A same-day duplicate for the same
	// (submission, verifier) pair fails with a unique-constraint violation;
	// callers detect it with IsUniqueViolation.
	Create(ctx context.Context, scan *models.QrScan) error
	// FindSameDayScan returns the scan by this verifier for this submission
	// with scanned_at inside [from, to), or nil when none exists.
	FindSameDayScan(ctx context.Context, submissionID, scannedBy uuid.UUID, from, to time.Time) (*models.QrScan, error)
	List(ctx context.Context, f ScanHistoryFilter) ([]*models.QrScan, int, error)
}

type qrScanRepo struct {
	db DB
}

func NewQrScanRepository(db DB) QrScanRepository {
	return &qrScanRepo{db: db}
}

func (r *qrScanRepo) Create(ctx context.Context, scan *models.QrScan) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO qr_scans (
            id, submission_id, scanned_by, scanned_at, scanner_name,
            scan_location, notes
        ) VALUES ($1,$2,$3,$4,$5,$6,$7)
    `,
		scan.ID, scan.SubmissionID, scan.ScannedBy, scan.ScannedAt,
		scan.ScannerName, scan.ScanLocation, scan.Notes,
	)
	return err
}

func (r *qrScanRepo) FindSameDayScan(
	ctx context.Context,
	submissionID, scannedBy uuid.UUID,
	from, to time.Time,
) (*models.QrScan, error) {
	row := r.db.QueryRow(ctx, baseSelectQrScan()+`
        WHERE submission_id=$1 AND scanned_by=$2
          AND scanned_at >= $3 AND scanned_at < $4
        ORDER BY scanned_at
        LIMIT 1
    `, submissionID, scannedBy, from, to)
	return r.scanQrScan(row)
}

func (r *qrScanRepo) List(ctx context.Context, f ScanHistoryFilter) ([]*models.QrScan, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SubmissionID != nil {
		where += " AND qs.submission_id=" + arg(*f.SubmissionID)
	}
	if f.ScannedBy != nil {
		where += " AND qs.scanned_by=" + arg(*f.ScannedBy)
	}
	if f.ApprovalStatus != nil {
		where += " AND s.approval_status=" + arg(*f.ApprovalStatus)
	}
	if f.DateFrom != nil {
		where += " AND qs.scanned_at >= " + arg(*f.DateFrom)
	}
	if f.DateTo != nil {
		where += " AND qs.scanned_at < " + arg(*f.DateTo)
	}
	if f.Location != "" {
		where += " AND qs.scan_location ILIKE " + arg("%"+f.Location+"%")
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where += fmt.Sprintf(
			" AND (s.vendor_name ILIKE %s OR s.job_description ILIKE %s OR qs.scanner_name ILIKE %s)",
			p, p, p,
		)
	}

	countQuery := `
        SELECT COUNT(*)
        FROM qr_scans qs
        JOIN submissions s ON s.id = qs.submission_id` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := baseSelectQrScanJoined() + where +
		" ORDER BY qs.scanned_at DESC LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.QrScan
	for rows.Next() {
		scan, err := r.scanQrScanJoined(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, scan)
	}
	return out, total, rows.Err()
}

func baseSelectQrScan() string {
	return `
        SELECT
            id, submission_id, scanned_by, scanned_at, scanner_name,
            scan_location, notes
        FROM qr_scans`
}

func baseSelectQrScanJoined() string {
	return `
        SELECT
            qs.id, qs.submission_id, qs.scanned_by, qs.scanned_at,
            qs.scanner_name, qs.scan_location, qs.notes,
            s.id, s.simlok_number, s.vendor_name, s.job_description,
            s.work_location, s.approval_status,
            s.implementation_start_date, s.implementation_end_date
        FROM qr_scans qs
        JOIN submissions s ON s.id = qs.submission_id`
}

func (r *qrScanRepo) scanQrScan(row pgx.Row) (*models.QrScan, error) {
	var scan models.QrScan
	err := row.Scan(
		&scan.ID, &scan.SubmissionID, &scan.ScannedBy, &scan.ScannedAt,
		&scan.ScannerName, &scan.ScanLocation, &scan.Notes,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &scan, nil
}

func (r *qrScanRepo) scanQrScanJoined(row pgx.Row) (*models.QrScan, error) {
	var scan models.QrScan
	var sub models.Submission
	err := row.Scan(
		&scan.ID, &scan.SubmissionID, &scan.ScannedBy, &scan.ScannedAt,
		&scan.ScannerName, &scan.ScanLocation, &scan.Notes,
		&sub.ID, &sub.SimlokNumber, &sub.VendorName, &sub.JobDescription,
		&sub.WorkLocation, &sub.ApprovalStatus,
		&sub.ImplementationStartDate, &sub.ImplementationEndDate,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	scan.Submission = &sub
	return &scan, nil
}
