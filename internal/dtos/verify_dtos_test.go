package dtos

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/simlok-project/backend/internal/models"
)

func TestVerifyScanRequestPrefersCanonicalKeys(t *testing.T) {
	r := &VerifyScanRequest{
		QrData:          "canonical",
		QrDataLegacy:    "legacy",
		ScanLocation:    "Gate A",
		ScanLocationAlt: "Gate B",
	}
	require.Equal(t, "canonical", r.EffectiveQrData())
	require.Equal(t, "Gate A", r.EffectiveLocation())

	r = &VerifyScanRequest{QrDataLegacy: "legacy", ScanLocationAlt: "Gate B"}
	require.Equal(t, "legacy", r.EffectiveQrData())
	require.Equal(t, "Gate B", r.EffectiveLocation())
}

func TestNewVerifiedSubmissionDTOFillsAllAliases(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	number := "0042/SIMLOK/03/2026"

	sub := &models.Submission{
		ID:                      uuid.New(),
		SimlokNumber:            &number,
		VendorName:              "PT Maju Jaya",
		OfficerName:             "Siti Rahma",
		JobDescription:          "Pipeline inspection",
		WorkLocation:            "Area 3",
		WorkingHours:            "08:00 - 17:00",
		ApprovalStatus:          models.ApprovalStatusApproved,
		ImplementationStartDate: &start,
		ImplementationEndDate:   &end,
		Workers: []models.SubmissionWorker{
			{ID: uuid.New(), WorkerName: "Agus"},
			{ID: uuid.New(), WorkerName: "Rina"},
		},
		Documents: []models.SupportDocument{
			{ID: uuid.New(), DocType: models.DocTypeSika, FileName: "sika.pdf"},
			{ID: uuid.New(), DocType: models.DocTypeSimja, FileName: "simja.pdf"},
			{ID: uuid.New(), DocType: models.DocTypeIDCard, FileName: "ktp.jpg"},
			{ID: uuid.New(), DocType: models.DocTypeOther, FileName: "misc.pdf"},
		},
	}

	dto := NewVerifiedSubmissionDTO(sub)

	// Every legacy alias mirrors its canonical field.
	require.Equal(t, dto.VendorName, dto.Vendor)
	require.Equal(t, dto.JobDescription, dto.Title)
	require.Equal(t, dto.JobDescription, dto.Task.Description)
	require.Equal(t, dto.WorkLocation, dto.Location)
	require.Equal(t, dto.WorkLocation, dto.Task.Location)
	require.Equal(t, dto.ImplementationStartDate, dto.Implementation.StartDate)
	require.Equal(t, dto.ImplementationEndDate, dto.Implementation.EndDate)

	require.NotNil(t, dto.ImplementationStartDate)
	require.Equal(t, "2026-03-10", *dto.ImplementationStartDate)
	require.NotNil(t, dto.ImplementationEndDate)
	require.Equal(t, "2026-03-20", *dto.ImplementationEndDate)

	require.Equal(t, []string{"Agus", "Rina"}, dto.WorkerNames)
	require.Len(t, dto.Workers, 2)

	require.Len(t, dto.SupportDocuments.Sika, 1)
	require.Len(t, dto.SupportDocuments.Simja, 1)
	require.Len(t, dto.SupportDocuments.IDCards, 1)
	require.Len(t, dto.SupportDocuments.Others, 1)
}

func TestVerifiedSubmissionDTODatesIgnoreStoredZone(t *testing.T) {
	// UTC midnights re-zoned to server-local time, the shape the driver
	// returns on a host west of UTC. The rendered day must not shift.
	serverLocal := time.FixedZone("UTC-5", -5*3600)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).In(serverLocal)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC).In(serverLocal)

	sub := &models.Submission{
		ID:                      uuid.New(),
		ImplementationStartDate: &start,
		ImplementationEndDate:   &end,
	}

	dto := NewVerifiedSubmissionDTO(sub)
	require.NotNil(t, dto.ImplementationStartDate)
	require.Equal(t, "2026-03-10", *dto.ImplementationStartDate)
	require.NotNil(t, dto.ImplementationEndDate)
	require.Equal(t, "2026-03-20", *dto.ImplementationEndDate)

	entry := NewScanHistoryEntryDTO(&models.QrScan{
		ID:           uuid.New(),
		SubmissionID: sub.ID,
		ScannedBy:    uuid.New(),
		ScannedAt:    start,
		ScannerName:  "Budi Santoso",
		Submission:   sub,
	}, time.UTC)
	require.NotNil(t, entry.Submission)
	require.Equal(t, "2026-03-10", *entry.Submission.ImplementationStartDate)
	require.Equal(t, "2026-03-20", *entry.Submission.ImplementationEndDate)
}

func TestNewVerifiedSubmissionDTOEmptyCollections(t *testing.T) {
	dto := NewVerifiedSubmissionDTO(&models.Submission{ID: uuid.New()})

	// Clients iterate these; they must serialize as [] rather than null.
	require.NotNil(t, dto.Workers)
	require.NotNil(t, dto.WorkerNames)
	require.NotNil(t, dto.SupportDocuments.Sika)
	require.NotNil(t, dto.SupportDocuments.Simja)
	require.NotNil(t, dto.SupportDocuments.IDCards)
	require.NotNil(t, dto.SupportDocuments.Others)

	require.Nil(t, dto.ImplementationStartDate)
	require.Nil(t, dto.Implementation.StartDate)
}

func TestNewScanHistoryEntryDTORendersInLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	at := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC) // 01:30 next day in WIB

	scan := &models.QrScan{
		ID:           uuid.New(),
		SubmissionID: uuid.New(),
		ScannedBy:    uuid.New(),
		ScannedAt:    at,
		ScannerName:  "Budi Santoso",
	}

	dto := NewScanHistoryEntryDTO(scan, loc)
	require.Equal(t, "2026-03-10T01:30:00+07:00", dto.ScannedAt)
	require.Nil(t, dto.Submission)
}
