package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-portal-server/internal/middleware"
	"clinic-portal-server/internal/models"
	"clinic-portal-server/internal/utils"
)

// PaymentHandler records consultation payments and patient reviews.
// Settlement itself happens at the gateway or the counter; this handler
// only keeps the ledger.
type PaymentHandler struct {
	DB *gorm.DB
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{DB: db}
}

// RecordPaymentRequest represents the request body for recording a payment.
type RecordPaymentRequest struct {
	AppointmentID string               `json:"appointmentId" binding:"required,uuid"`
	AmountCents   int64                `json:"amountCents" binding:"required,min=1"`
	Method        models.PaymentMethod `json:"method" binding:"required,oneof=card counter"`
}

// RecordPayment records a payment for one of the caller's appointments.
// A second payment for the same appointment is rejected.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient identity not found in token")
		return
	}

	var appointment models.Appointment
	if err := h.DB.Where("id = ? AND patient_id = ?", req.AppointmentID, patientID).
		First(&appointment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Something went wrong, please try again")
		}
		return
	}

	var existing int64
	if err := h.DB.Model(&models.Payment{}).
		Where("appointment_id = ?", req.AppointmentID).
		Count(&existing).Error; err != nil {
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}
	if existing > 0 {
		utils.Conflict(c, "A payment already exists for this appointment")
		return
	}

	now := time.Now()
	payment := models.Payment{
		AppointmentID: req.AppointmentID,
		PatientID:     patientID,
		AmountCents:   req.AmountCents,
		Method:        req.Method,
		Status:        models.PaymentPaid,
		PaidAt:        &now,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Create(&models.Notification{
			UserID:  patientID,
			Type:    models.NotificationPayment,
			Title:   "Payment recorded",
			Message: "Your consultation payment has been recorded.",
		}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to record payment")
		return
	}

	utils.Created(c, "Payment recorded successfully", gin.H{"paymentId": payment.ID})
}

// GetMyPayments lists the caller's payment records, newest first.
func (h *PaymentHandler) GetMyPayments(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var payments []models.Payment
	if err := h.DB.Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&payments).Error; err != nil {
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}
	utils.Success(c, "Payments fetched successfully", payments)
}

// SubmitReviewRequest represents the request body for reviewing a completed
// appointment.
type SubmitReviewRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required,uuid"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment"`
}

// SubmitReview records a review for one of the caller's completed
// appointments. One review per appointment.
func (h *PaymentHandler) SubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient identity not found in token")
		return
	}

	var appointment models.Appointment
	if err := h.DB.Where("id = ? AND patient_id = ?", req.AppointmentID, patientID).
		First(&appointment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Something went wrong, please try again")
		}
		return
	}
	if appointment.Status != models.StatusCompleted {
		utils.Conflict(c, "Only completed appointments can be reviewed")
		return
	}

	var existing int64
	if err := h.DB.Model(&models.Review{}).
		Where("appointment_id = ?", req.AppointmentID).
		Count(&existing).Error; err != nil {
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}
	if existing > 0 {
		utils.Conflict(c, "A review already exists for this appointment")
		return
	}

	review := models.Review{
		AppointmentID: req.AppointmentID,
		PatientID:     patientID,
		DoctorID:      appointment.DoctorID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	if err := h.DB.Create(&review).Error; err != nil {
		utils.InternalServerError(c, "Failed to submit review")
		return
	}
	utils.Created(c, "Review submitted successfully", gin.H{"reviewId": review.ID})
}

// GetDoctorReviews lists the reviews for a doctor.
func (h *PaymentHandler) GetDoctorReviews(c *gin.Context) {
	var reviews []models.Review
	if err := h.DB.Where("doctor_id = ?", c.Param("id")).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}
	utils.Success(c, "Reviews fetched successfully", reviews)
}
