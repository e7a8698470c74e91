package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/simlok-project/backend/internal/models"
)

// SubmissionFilter narrows List results. Zero values mean "no filter".
type SubmissionFilter struct {
	VendorID       *uuid.UUID
	ApprovalStatus *models.ApprovalStatusType
	Search         string
	Limit          int
	Offset         int
}

type SubmissionRepository interface {
	Create(ctx context.Context, s *models.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	// GetWithRelations loads the submission plus its worker list and
	// support documents.
	GetWithRelations(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	List(ctx context.Context, f SubmissionFilter) ([]*models.Submission, int, error)
	SetReview(ctx context.Context, id uuid.UUID, status models.ReviewStatusType, notes *string) error
	SetApproval(ctx context.Context, id uuid.UUID, status models.ApprovalStatusType,
		approvedBy uuid.UUID, simlokNumber, qrToken *string, notes *string) error
	CountApprovedInYear(ctx context.Context, year int) (int, error)
}

type submissionRepo struct {
	db DB
}

func NewSubmissionRepository(db DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, s *models.Submission) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO submissions (
            id, vendor_id, vendor_name, officer_name, job_description,
            work_location, working_hours, approval_status, review_status,
            implementation_start_date, implementation_end_date,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())
    `,
		s.ID, s.VendorID, s.VendorName, s.OfficerName, s.JobDescription,
		s.WorkLocation, s.WorkingHours, s.ApprovalStatus, s.ReviewStatus,
		s.ImplementationStartDate, s.ImplementationEndDate,
	)
	if err != nil {
		return err
	}

	for i := range s.Workers {
		w := &s.Workers[i]
		if w.ID == uuid.Nil {
			w.ID = uuid.New()
		}
		w.SubmissionID = s.ID
		if _, err := r.db.Exec(ctx, `
            INSERT INTO submission_workers (id, submission_id, worker_name, worker_photo)
            VALUES ($1,$2,$3,$4)
        `, w.ID, w.SubmissionID, w.WorkerName, w.WorkerPhoto); err != nil {
			return err
		}
	}

	for i := range s.Documents {
		d := &s.Documents[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.SubmissionID = s.ID
		if _, err := r.db.Exec(ctx, `
            INSERT INTO support_documents (id, submission_id, doc_type, file_name, file_url, uploaded_at)
            VALUES ($1,$2,$3,$4,$5,NOW())
        `, d.ID, d.SubmissionID, d.DocType, d.FileName, d.FileURL); err != nil {
			return err
		}
	}

	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	row := r.db.QueryRow(ctx, baseSelectSubmission()+" WHERE id=$1", id)
	return r.scanSubmission(row)
}

func (r *submissionRepo) GetWithRelations(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil || s == nil {
		return s, err
	}

	workers, err := r.listWorkers(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Workers = workers

	docs, err := r.listDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Documents = docs

	return s, nil
}

func (r *submissionRepo) List(ctx context.Context, f SubmissionFilter) ([]*models.Submission, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.VendorID != nil {
		where += " AND vendor_id=" + arg(*f.VendorID)
	}
	if f.ApprovalStatus != nil {
		where += " AND approval_status=" + arg(*f.ApprovalStatus)
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where += fmt.Sprintf(" AND (vendor_name ILIKE %s OR job_description ILIKE %s OR work_location ILIKE %s)", p, p, p)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM submissions"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := baseSelectSubmission() + where + " ORDER BY created_at DESC LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		s, err := r.scanSubmission(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *submissionRepo) SetReview(ctx context.Context, id uuid.UUID, status models.ReviewStatusType, notes *string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE submissions
        SET review_status=$1, notes=COALESCE($2, notes), updated_at=NOW()
        WHERE id=$3
    `, status, notes, id)
	return err
}

func (r *submissionRepo) SetApproval(
	ctx context.Context,
	id uuid.UUID,
	status models.ApprovalStatusType,
	approvedBy uuid.UUID,
	simlokNumber, qrToken *string,
	notes *string,
) error {
	_, err := r.db.Exec(ctx, `
        UPDATE submissions
        SET approval_status=$1, approved_by=$2, approved_at=NOW(),
            simlok_number=COALESCE($3, simlok_number),
            qr_token=COALESCE($4, qr_token),
            notes=COALESCE($5, notes),
            updated_at=NOW()
        WHERE id=$6
    `, status, approvedBy, simlokNumber, qrToken, notes, id)
	return err
}

func (r *submissionRepo) CountApprovedInYear(ctx context.Context, year int) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM submissions
        WHERE approval_status='APPROVED'
          AND approved_at >= $1 AND approved_at < $2
    `,
		time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC),
	).Scan(&n)
	return n, err
}

func (r *submissionRepo) listWorkers(ctx context.Context, submissionID uuid.UUID) ([]models.SubmissionWorker, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, submission_id, worker_name, worker_photo
        FROM submission_workers WHERE submission_id=$1 ORDER BY worker_name
    `, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SubmissionWorker
	for rows.Next() {
		var w models.SubmissionWorker
		if err := rows.Scan(&w.ID, &w.SubmissionID, &w.WorkerName, &w.WorkerPhoto); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *submissionRepo) listDocuments(ctx context.Context, submissionID uuid.UUID) ([]models.SupportDocument, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, submission_id, doc_type, file_name, file_url, uploaded_at
        FROM support_documents WHERE submission_id=$1 ORDER BY uploaded_at
    `, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SupportDocument
	for rows.Next() {
		var d models.SupportDocument
		if err := rows.Scan(&d.ID, &d.SubmissionID, &d.DocType, &d.FileName, &d.FileURL, &d.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func baseSelectSubmission() string {
	return `
        SELECT
            id, simlok_number, vendor_id, vendor_name, officer_name,
            job_description, work_location, working_hours,
            approval_status, review_status,
            implementation_start_date, implementation_end_date,
            qr_token, notes, approved_by, approved_at,
            created_at, updated_at
        FROM submissions`
}

func (r *submissionRepo) scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID, &s.SimlokNumber, &s.VendorID, &s.VendorName, &s.OfficerName,
		&s.JobDescription, &s.WorkLocation, &s.WorkingHours,
		&s.ApprovalStatus, &s.ReviewStatus,
		&s.ImplementationStartDate, &s.ImplementationEndDate,
		&s.QrToken, &s.Notes, &s.ApprovedBy, &s.ApprovedAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
