package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"

	"github.com/simlok-project/backend/internal/app"
	"github.com/simlok-project/backend/internal/config"
	"github.com/simlok-project/backend/internal/controllers"
	"github.com/simlok-project/backend/internal/middleware"
	"github.com/simlok-project/backend/internal/models"
	"github.com/simlok-project/backend/internal/qrtoken"
	"github.com/simlok-project/backend/internal/repositories"
	"github.com/simlok-project/backend/internal/routes"
	"github.com/simlok-project/backend/internal/services"
	"github.com/simlok-project/backend/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize simlok-api:", err)
	}
	defer application.Close()

	userRepo := repositories.NewUserRepository(application.DB)
	subRepo := repositories.NewSubmissionRepository(application.DB)
	scanRepo := repositories.NewQrScanRepository(application.DB)
	notifRepo := repositories.NewNotificationRepository(application.DB)
	rateRepo := repositories.NewRateLimitRepository(application.DB)

	codec := qrtoken.NewCodec(cfg.QrSigningSecret)

	var sgClient *sendgrid.Client
	if cfg.SendGridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}

	notificationService := services.NewNotificationService(notifRepo, userRepo, sgClient, cfg.SendGridFromEmail)
	verifyService := services.NewVerifyService(subRepo, scanRepo, codec, cfg.CivilTimezone)
	submissionService := services.NewSubmissionService(subRepo, codec, notificationService, cfg.CivilTimezone)
	authService := services.NewAuthService(userRepo, cfg.RSAPrivateKey, cfg.TokenTTL)
	userService := services.NewUserService(userRepo)
	rateLimiter := services.NewRateLimiterService(rateRepo, cfg.VerifyRateLimit, cfg.VerifyRateWindow)
	cleanupService := services.NewRateLimitCleanupService(rateRepo)

	healthController := controllers.NewHealthController(application)
	authController := controllers.NewAuthController(authService)
	qrController := controllers.NewQrVerifyController(verifyService, userRepo)
	submissionController := controllers.NewSubmissionController(submissionService, userRepo)
	userController := controllers.NewUserController(userService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AuthLogin, authController.LoginHandler).Methods(http.MethodPost)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.Submissions, submissionController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Submissions, submissionController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SubmissionByID, submissionController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SubmissionQrCode, submissionController.QrImageHandler).Methods(http.MethodGet)

	reviewers := router.NewRoute().Subrouter()
	reviewers.Use(
		middleware.AuthMiddleware(cfg.RSAPublicKey),
		middleware.RequireRoles(models.RoleReviewer, models.RoleAdmin, models.RoleSuperAdmin),
	)
	reviewers.HandleFunc(routes.SubmissionReview, submissionController.ReviewHandler).Methods(http.MethodPatch, http.MethodPut)

	approvers := router.NewRoute().Subrouter()
	approvers.Use(
		middleware.AuthMiddleware(cfg.RSAPublicKey),
		middleware.RequireRoles(models.RoleApprover, models.RoleAdmin, models.RoleSuperAdmin),
	)
	approvers.HandleFunc(routes.SubmissionApproval, submissionController.DecideHandler).Methods(http.MethodPatch, http.MethodPut)

	// The verify family carries the per-identity rate budget in front of
	// any business logic.
	verifiers := router.NewRoute().Subrouter()
	verifiers.Use(
		middleware.AuthMiddleware(cfg.RSAPublicKey),
		middleware.RequireRoles(models.RoleVerifier, models.RoleAdmin, models.RoleSuperAdmin),
		middleware.RateLimitMiddleware(rateLimiter, cfg.VerifyRateLimit, cfg.VerifyRateWindow),
	)
	verifiers.HandleFunc(routes.QrVerify, qrController.VerifyHandler).Methods(http.MethodPost)
	verifiers.HandleFunc(routes.QrVerify, qrController.HistoryHandler).Methods(http.MethodGet)

	admins := router.NewRoute().Subrouter()
	admins.Use(
		middleware.AuthMiddleware(cfg.RSAPublicKey),
		middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin),
	)
	admins.HandleFunc(routes.AdminUsers, userController.CreateHandler).Methods(http.MethodPost)
	admins.HandleFunc(routes.AdminUsers, userController.ListHandler).Methods(http.MethodGet)
	admins.HandleFunc(routes.AdminUserByID, userController.GetHandler).Methods(http.MethodGet)
	admins.HandleFunc(routes.AdminUserByID, userController.UpdateHandler).Methods(http.MethodPatch)
	admins.HandleFunc(routes.AdminUserByID, userController.DeleteHandler).Methods(http.MethodDelete)

	c := cron.New()
	_, cronErr := c.AddFunc("30 0 * * *", func() {
		if e := cleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled rate limit cleanup failed")
		}
	})
	if cronErr != nil {
		utils.Logger.WithError(cronErr).Fatal("Failed to schedule rate limit cleanup cron")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("simlok-api failed to start:", err)
	}
}
