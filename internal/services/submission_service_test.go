package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/simlok-project/backend/internal/dtos"
	"github.com/simlok-project/backend/internal/models"
	"github.com/simlok-project/backend/internal/qrtoken"
	"github.com/simlok-project/backend/internal/utils"
)

type fakeNotificationRepo struct {
	created []*models.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	f.created = append(f.created, n)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, _ *models.UserRole, _, _ int) ([]*models.User, int, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

type submissionFixture struct {
	svc    *SubmissionService
	subs   *fakeSubmissionRepo
	notifs *fakeNotificationRepo
	codec  *qrtoken.Codec
	vendor *models.User
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	subs := newFakeSubmissionRepo()
	notifs := &fakeNotificationRepo{}
	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	codec := qrtoken.NewCodec(testQrSecret)
	notification := NewNotificationService(notifs, users, nil, "no-reply@simlok.id")

	vendorName := "PT Maju Jaya"
	return &submissionFixture{
		svc:    NewSubmissionService(subs, codec, notification, loc),
		subs:   subs,
		notifs: notifs,
		codec:  codec,
		vendor: &models.User{
			ID:         uuid.New(),
			Name:       "Vendor Account",
			Role:       models.RoleVendor,
			VendorName: &vendorName,
			IsActive:   true,
		},
	}
}

func (fx *submissionFixture) pendingSubmission(review models.ReviewStatusType) *models.Submission {
	sub := &models.Submission{
		ID:                      uuid.New(),
		VendorID:                fx.vendor.ID,
		VendorName:              "PT Maju Jaya",
		OfficerName:             "Siti Rahma",
		JobDescription:          "Pipeline inspection",
		WorkLocation:            "Area 3",
		ApprovalStatus:          models.ApprovalStatusPending,
		ReviewStatus:            review,
		ImplementationStartDate: civilDate(2026, 3, 10),
		ImplementationEndDate:   civilDate(2026, 3, 20),
	}
	fx.subs.subs[sub.ID] = sub
	return sub
}

func TestCreateSubmission(t *testing.T) {
	fx := newSubmissionFixture(t)

	start := "2026-03-10"
	end := "2026-03-20"
	dto, err := fx.svc.Create(context.Background(), fx.vendor, &dtos.CreateSubmissionRequest{
		OfficerName:             "Siti Rahma",
		JobDescription:          "Pipeline inspection",
		WorkLocation:            "Area 3",
		WorkingHours:            "08:00 - 17:00",
		ImplementationStartDate: &start,
		ImplementationEndDate:   &end,
		Workers: []dtos.CreateSubmissionWorker{
			{WorkerName: "Agus"},
		},
		Documents: []dtos.CreateSubmissionDocument{
			{DocType: "SIKA", FileName: "sika.pdf", FileURL: "/files/sika.pdf"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "PT Maju Jaya", dto.VendorName)
	require.Equal(t, string(models.ApprovalStatusPending), dto.ApprovalStatus)
	require.Equal(t, string(models.ReviewStatusPending), dto.ReviewStatus)
	require.Len(t, fx.subs.subs, 1)
}

func TestCreateSubmissionRejectsBadInput(t *testing.T) {
	fx := newSubmissionFixture(t)

	bad := "10-03-2026"
	_, err := fx.svc.Create(context.Background(), fx.vendor, &dtos.CreateSubmissionRequest{
		OfficerName:             "Siti Rahma",
		JobDescription:          "Pipeline inspection",
		WorkLocation:            "Area 3",
		ImplementationStartDate: &bad,
	})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	start := "2026-03-20"
	end := "2026-03-10"
	_, err = fx.svc.Create(context.Background(), fx.vendor, &dtos.CreateSubmissionRequest{
		OfficerName:             "Siti Rahma",
		JobDescription:          "Pipeline inspection",
		WorkLocation:            "Area 3",
		ImplementationStartDate: &start,
		ImplementationEndDate:   &end,
	})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	_, err = fx.svc.Create(context.Background(), fx.vendor, &dtos.CreateSubmissionRequest{
		OfficerName:    "Siti Rahma",
		JobDescription: "Pipeline inspection",
		WorkLocation:   "Area 3",
		Documents: []dtos.CreateSubmissionDocument{
			{DocType: "PASSPORT", FileName: "x.pdf", FileURL: "/x.pdf"},
		},
	})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
}

func TestReviewOnlyWhilePending(t *testing.T) {
	fx := newSubmissionFixture(t)
	sub := fx.pendingSubmission(models.ReviewStatusPending)

	dto, err := fx.svc.Review(context.Background(), sub.ID, &dtos.ReviewSubmissionRequest{
		ReviewStatus: string(models.ReviewStatusMeets),
	})
	require.NoError(t, err)
	require.Equal(t, string(models.ReviewStatusMeets), dto.ReviewStatus)

	sub.ApprovalStatus = models.ApprovalStatusApproved
	_, err = fx.svc.Review(context.Background(), sub.ID, &dtos.ReviewSubmissionRequest{
		ReviewStatus: string(models.ReviewStatusNotMeets),
	})
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeConflict)
}

func TestDecideApprovalIssuesNumberAndToken(t *testing.T) {
	fx := newSubmissionFixture(t)
	fx.subs.approvedThisYear = 41
	sub := fx.pendingSubmission(models.ReviewStatusMeets)
	approver := &models.User{ID: uuid.New(), Name: "Approver", Role: models.RoleApprover}

	dto, err := fx.svc.Decide(context.Background(), approver, sub.ID, &dtos.ApproveSubmissionRequest{
		ApprovalStatus: string(models.ApprovalStatusApproved),
	})
	require.NoError(t, err)
	require.Equal(t, string(models.ApprovalStatusApproved), dto.ApprovalStatus)

	require.NotNil(t, fx.subs.lastSimlokNumber)
	now := time.Now()
	wantPrefix := "0042/SIMLOK/"
	wantSuffix := fmt.Sprintf("/%d", now.Year())
	require.True(t, strings.HasPrefix(*fx.subs.lastSimlokNumber, wantPrefix), "got %s", *fx.subs.lastSimlokNumber)
	require.True(t, strings.HasSuffix(*fx.subs.lastSimlokNumber, wantSuffix), "got %s", *fx.subs.lastSimlokNumber)

	// The stored token must decode back to this submission with its
	// implementation window.
	require.NotNil(t, fx.subs.lastQrToken)
	payload, err := fx.codec.Decode(*fx.subs.lastQrToken)
	require.NoError(t, err)
	require.Equal(t, sub.ID.String(), payload.ID)
	require.NotNil(t, payload.StartDate)
	require.Equal(t, "2026-03-10", payload.StartDate.Format("2006-01-02"))

	// Vendor gets an in-app notification.
	require.Len(t, fx.notifs.created, 1)
	require.Equal(t, fx.vendor.ID, fx.notifs.created[0].UserID)
}

func TestDecideApprovalRequiresPassingReview(t *testing.T) {
	fx := newSubmissionFixture(t)
	sub := fx.pendingSubmission(models.ReviewStatusPending)
	approver := &models.User{ID: uuid.New(), Name: "Approver", Role: models.RoleApprover}

	_, err := fx.svc.Decide(context.Background(), approver, sub.ID, &dtos.ApproveSubmissionRequest{
		ApprovalStatus: string(models.ApprovalStatusApproved),
	})
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
}

func TestDecideRejectionSkipsNumberAndToken(t *testing.T) {
	fx := newSubmissionFixture(t)
	sub := fx.pendingSubmission(models.ReviewStatusNotMeets)
	approver := &models.User{ID: uuid.New(), Name: "Approver", Role: models.RoleApprover}

	dto, err := fx.svc.Decide(context.Background(), approver, sub.ID, &dtos.ApproveSubmissionRequest{
		ApprovalStatus: string(models.ApprovalStatusRejected),
	})
	require.NoError(t, err)
	require.Equal(t, string(models.ApprovalStatusRejected), dto.ApprovalStatus)
	require.Nil(t, fx.subs.lastSimlokNumber)
	require.Nil(t, fx.subs.lastQrToken)
	require.Len(t, fx.notifs.created, 1)
}

func TestDecideTwiceConflicts(t *testing.T) {
	fx := newSubmissionFixture(t)
	sub := fx.pendingSubmission(models.ReviewStatusMeets)
	approver := &models.User{ID: uuid.New(), Name: "Approver", Role: models.RoleApprover}

	_, err := fx.svc.Decide(context.Background(), approver, sub.ID, &dtos.ApproveSubmissionRequest{
		ApprovalStatus: string(models.ApprovalStatusApproved),
	})
	require.NoError(t, err)

	_, err = fx.svc.Decide(context.Background(), approver, sub.ID, &dtos.ApproveSubmissionRequest{
		ApprovalStatus: string(models.ApprovalStatusRejected),
	})
	requireAppError(t, err, http.StatusConflict, utils.ErrCodeConflict)
}

func TestGetScopedToOwnVendor(t *testing.T) {
	fx := newSubmissionFixture(t)
	sub := fx.pendingSubmission(models.ReviewStatusPending)

	other := &models.User{ID: uuid.New(), Name: "Other Vendor", Role: models.RoleVendor}
	_, err := fx.svc.Get(context.Background(), other, sub.ID)
	requireAppError(t, err, http.StatusForbidden, utils.ErrCodeForbidden)

	dto, err := fx.svc.Get(context.Background(), fx.vendor, sub.ID)
	require.NoError(t, err)
	require.Equal(t, sub.ID.String(), dto.ID)
}

func TestQrImageRequiresIssuedToken(t *testing.T) {
	fx := newSubmissionFixture(t)
	sub := fx.pendingSubmission(models.ReviewStatusMeets)

	_, err := fx.svc.QrImage(context.Background(), fx.vendor, sub.ID)
	requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeSubmissionNotApproved)

	token, err := fx.codec.Issue(sub.ID.String(), sub.ImplementationStartDate, sub.ImplementationEndDate)
	require.NoError(t, err)
	sub.ApprovalStatus = models.ApprovalStatusApproved
	sub.QrToken = &token

	img, err := fx.svc.QrImage(context.Background(), fx.vendor, sub.ID)
	require.NoError(t, err)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img[:4])
}
