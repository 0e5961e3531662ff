package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-portal-server/internal/middleware"
	"clinic-portal-server/internal/models"
	"clinic-portal-server/internal/utils"
)

// MedicalRecordHandler handles medical record related requests.
type MedicalRecordHandler struct {
	DB *gorm.DB
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(db *gorm.DB) *MedicalRecordHandler {
	return &MedicalRecordHandler{DB: db}
}

// CreateMedicalRecordRequest represents the request body for creating a medical record.
type CreateMedicalRecordRequest struct {
	PatientID  string                   `json:"patientId" binding:"required,uuid"`
	RecordType models.MedicalRecordType `json:"recordType" binding:"required"`
	RecordDate string                   `json:"recordDate"`
	Title      string                   `json:"title" binding:"required"`
	Department string                   `json:"department"`
	Summary    string                   `json:"summary" binding:"required"`
	Details    string                   `json:"details"`
}

// CreateMedicalRecord handles creating a new medical record.
// Only accessible by doctors.
func (h *MedicalRecordHandler) CreateMedicalRecord(c *gin.Context) {
	var req CreateMedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor identity not found in token")
		return
	}

	// Verify patient exists
	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Something went wrong, please try again")
		}
		return
	}

	recordDate := time.Now()
	if req.RecordDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.RecordDate)
		if err != nil {
			utils.BadRequest(c, "Invalid date format. Please use ISO 8601 format (YYYY-MM-DDTHH:MM:SSZ)")
			return
		}
		recordDate = parsed
	}

	record := models.MedicalRecord{
		PatientID:  req.PatientID,
		DoctorID:   doctorID,
		RecordType: req.RecordType,
		RecordDate: recordDate,
		Title:      req.Title,
		Department: req.Department,
		Summary:    req.Summary,
		Details:    req.Details,
	}

	if err := h.DB.Create(&record).Error; err != nil {
		utils.InternalServerError(c, "Failed to create medical record")
		return
	}
	utils.Created(c, "Medical record created successfully", record)
}

// GetMyMedicalRecords lists the authenticated patient's own records.
func (h *MedicalRecordHandler) GetMyMedicalRecords(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var records []models.MedicalRecord
	if err := h.DB.Where("patient_id = ?", patientID).
		Order("record_date desc").
		Find(&records).Error; err != nil {
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}
	utils.Success(c, "Medical records fetched successfully", records)
}

// GetMedicalRecordsForPatient lists a patient's records for a doctor or
// admin caller.
func (h *MedicalRecordHandler) GetMedicalRecordsForPatient(c *gin.Context) {
	var records []models.MedicalRecord
	if err := h.DB.Where("patient_id = ?", c.Param("patientId")).
		Order("record_date desc").
		Find(&records).Error; err != nil {
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}
	utils.Success(c, "Medical records fetched successfully", records)
}

// GetMedicalRecordByID fetches a single record. Patients only see their own;
// anything else is a not-found, never a forbidden.
func (h *MedicalRecordHandler) GetMedicalRecordByID(c *gin.Context) {
	var record models.MedicalRecord
	if err := h.DB.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical record not found")
		} else {
			utils.InternalServerError(c, "Something went wrong, please try again")
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole == models.RolePatient && record.PatientID != userID {
		utils.NotFound(c, "Medical record not found")
		return
	}

	utils.Success(c, "Medical record fetched successfully", record)
}

// UpdateMedicalRecordRequest represents the request body for record updates.
type UpdateMedicalRecordRequest struct {
	Title      string `json:"title"`
	Department string `json:"department"`
	Summary    string `json:"summary"`
	Details    string `json:"details"`
}

// UpdateMedicalRecord lets the issuing doctor (or an admin) amend a record.
func (h *MedicalRecordHandler) UpdateMedicalRecord(c *gin.Context) {
	var req UpdateMedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var record models.MedicalRecord
	if err := h.DB.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical record not found")
		} else {
			utils.InternalServerError(c, "Something went wrong, please try again")
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleDoctor && record.DoctorID != userID {
		utils.NotFound(c, "Medical record not found")
		return
	}

	if req.Title != "" {
		record.Title = req.Title
	}
	if req.Department != "" {
		record.Department = req.Department
	}
	if req.Summary != "" {
		record.Summary = req.Summary
	}
	if req.Details != "" {
		record.Details = req.Details
	}

	if err := h.DB.Save(&record).Error; err != nil {
		utils.InternalServerError(c, "Failed to update medical record")
		return
	}
	utils.Success(c, "Medical record updated successfully", record)
}
