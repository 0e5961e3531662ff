package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-portal-server/internal/middleware"
	"clinic-portal-server/internal/models"
	"clinic-portal-server/internal/utils"
)

// PrescriptionHandler handles prescription issuing and patient reads.
type PrescriptionHandler struct {
	DB *gorm.DB
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(db *gorm.DB) *PrescriptionHandler {
	return &PrescriptionHandler{DB: db}
}

// PrescriptionItemRequest is one medication line in an issue request.
type PrescriptionItemRequest struct {
	Medication   string `json:"medication" binding:"required"`
	Dosage       string `json:"dosage" binding:"required"`
	Frequency    string `json:"frequency" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"omitempty,min=1"`
	Instructions string `json:"instructions"`
}

// IssuePrescriptionRequest represents the request body for issuing a
// prescription. Doctor identity comes from the token.
type IssuePrescriptionRequest struct {
	PatientID     string                    `json:"patientId" binding:"required,uuid"`
	AppointmentID string                    `json:"appointmentId" binding:"omitempty,uuid"`
	Notes         string                    `json:"notes"`
	Items         []PrescriptionItemRequest `json:"items" binding:"required,min=1,dive"`
}

// IssuePrescription creates a prescription with its items in one
// transaction. Doctors only.
func (h *PrescriptionHandler) IssuePrescription(c *gin.Context) {
	var req IssuePrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor identity not found in token")
		return
	}

	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Something went wrong, please try again")
		}
		return
	}

	prescription := models.Prescription{
		PatientID:     req.PatientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		IssuedAt:      time.Now(),
		Notes:         req.Notes,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&prescription).Error; err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := tx.Create(&models.PrescriptionItem{
				PrescriptionID: prescription.ID,
				Medication:     item.Medication,
				Dosage:         item.Dosage,
				Frequency:      item.Frequency,
				DurationDays:   item.DurationDays,
				Instructions:   item.Instructions,
			}).Error; err != nil {
				return err
			}
		}
		return tx.Create(&models.Notification{
			UserID:  req.PatientID,
			Type:    models.NotificationPrescription,
			Title:   "New prescription",
			Message: "Your doctor has issued a new prescription.",
		}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to issue prescription")
		return
	}

	utils.Created(c, "Prescription issued successfully", gin.H{"prescriptionId": prescription.ID})
}

// GetMyPrescriptions lists the authenticated patient's prescriptions with
// their items, newest first.
func (h *PrescriptionHandler) GetMyPrescriptions(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var prescriptions []models.Prescription
	if err := h.DB.Preload("Items").
		Where("patient_id = ?", patientID).
		Order("issued_at desc").
		Find(&prescriptions).Error; err != nil {
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}
	utils.Success(c, "Prescriptions fetched successfully", prescriptions)
}

// GetPrescriptionByID fetches one prescription. Patients only see their
// own; others surface as not-found.
func (h *PrescriptionHandler) GetPrescriptionByID(c *gin.Context) {
	var prescription models.Prescription
	if err := h.DB.Preload("Items").First(&prescription, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Prescription not found")
		} else {
			utils.InternalServerError(c, "Something went wrong, please try again")
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RolePatient && prescription.PatientID != userID {
		utils.NotFound(c, "Prescription not found")
		return
	}

	utils.Success(c, "Prescription fetched successfully", prescription)
}
