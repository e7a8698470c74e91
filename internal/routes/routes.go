package routes

const (
	// Health
	Health = "/health"

	// Auth
	AuthLogin = "/api/v1/auth/login"

	// QR verification (verifier/admin)
	QrVerify = "/api/v1/qr/verify"

	// Submissions
	Submissions         = "/api/v1/submissions"
	SubmissionByID      = "/api/v1/submissions/{id}"
	SubmissionReview    = "/api/v1/submissions/{id}/review"
	SubmissionApproval  = "/api/v1/submissions/{id}/approval"
	SubmissionQrCode    = "/api/v1/submissions/{id}/qrcode"

	// Admin account management
	AdminUsers     = "/api/v1/admin/users"
	AdminUserByID  = "/api/v1/admin/users/{id}"
)
