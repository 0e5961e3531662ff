package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-portal-server/internal/config"
	"clinic-portal-server/internal/handlers"
	"clinic-portal-server/internal/middleware"
	"clinic-portal-server/internal/models"
	"clinic-portal-server/internal/scheduling"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger *slog.Logger) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	doctorHandler := handlers.NewDoctorHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, cfg.Scheduling, logger)
	symptomHandler := handlers.NewSymptomHandler(db, logger)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(db)
	prescriptionHandler := handlers.NewPrescriptionHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db)

	sweeper := scheduling.NewSweeper(db, cfg.Scheduling, logger)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes. The status sweeper runs at the start of every
	// request into the portal so the booking ledger tracks wall-clock time.
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	private.Use(middleware.SweeperMiddleware(sweeper))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Doctor directory
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctorByID)
			doctorRoutes.GET("/:id/reviews", paymentHandler.GetDoctorReviews)
		}

		// Appointment routes: slot queries plus the booking lifecycle.
		// Ownership is enforced inside the services, scoped to the token's
		// patient identity.
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("/slots", appointmentHandler.GetSlots)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.BookAppointment)
			appointmentRoutes.POST("/:id/confirm", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.ConfirmAppointment)
			appointmentRoutes.POST("/:id/cancel", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/reschedule", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.RescheduleAppointment)
		}

		// Symptom checker
		symptomRoutes := private.Group("/symptom-checks")
		{
			symptomRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), symptomHandler.CheckSymptoms)
			symptomRoutes.GET("", middleware.RoleAuthMiddleware(models.RolePatient), symptomHandler.GetSymptomChecks)
		}

		// Medical record routes
		medicalRecordRoutes := private.Group("/medical-records")
		{
			medicalRecordRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), medicalRecordHandler.CreateMedicalRecord)
			medicalRecordRoutes.GET("/mine", middleware.RoleAuthMiddleware(models.RolePatient), medicalRecordHandler.GetMyMedicalRecords)
			medicalRecordRoutes.GET("/patient/:patientId", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), medicalRecordHandler.GetMedicalRecordsForPatient)
			medicalRecordRoutes.GET("/:id", medicalRecordHandler.GetMedicalRecordByID)
			medicalRecordRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), medicalRecordHandler.UpdateMedicalRecord)
		}

		// Prescription routes
		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), prescriptionHandler.IssuePrescription)
			prescriptionRoutes.GET("/mine", middleware.RoleAuthMiddleware(models.RolePatient), prescriptionHandler.GetMyPrescriptions)
			prescriptionRoutes.GET("/:id", prescriptionHandler.GetPrescriptionByID)
		}

		// Payment and review routes
		paymentRoutes := private.Group("/payments")
		{
			paymentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), paymentHandler.RecordPayment)
			paymentRoutes.GET("/mine", middleware.RoleAuthMiddleware(models.RolePatient), paymentHandler.GetMyPayments)
		}
		private.POST("/reviews", middleware.RoleAuthMiddleware(models.RolePatient), paymentHandler.SubmitReview)

		// Notification routes
		notificationRoutes := private.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.GetNotifications)
			notificationRoutes.GET("/unread-count", notificationHandler.GetUnreadCount)
			notificationRoutes.PATCH("/:id/read", notificationHandler.MarkNotificationRead)
			notificationRoutes.PATCH("/read-all", notificationHandler.MarkAllNotificationsRead)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
