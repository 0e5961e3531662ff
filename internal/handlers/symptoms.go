package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-portal-server/internal/middleware"
	"clinic-portal-server/internal/models"
	"clinic-portal-server/internal/triage"
	"clinic-portal-server/internal/utils"
)

// SymptomHandler exposes the rule-based symptom checker.
type SymptomHandler struct {
	DB     *gorm.DB
	Engine *triage.Engine
	logger *slog.Logger
}

// NewSymptomHandler creates a new SymptomHandler.
func NewSymptomHandler(db *gorm.DB, logger *slog.Logger) *SymptomHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SymptomHandler{DB: db, Engine: triage.NewEngine(db, logger), logger: logger}
}

// CheckSymptomsRequest represents the request body for a symptom check.
type CheckSymptomsRequest struct {
	Symptoms       string `json:"symptoms" binding:"required"`
	Duration       string `json:"duration"`
	Age            int    `json:"age" binding:"omitempty,min=0,max=130"`
	AdditionalInfo string `json:"additionalInfo"`
}

// CheckSymptoms runs the triage engine for the authenticated patient and
// returns the structured advisory report.
func (h *SymptomHandler) CheckSymptoms(c *gin.Context) {
	var req CheckSymptomsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient identity not found in token")
		return
	}

	result, err := h.Engine.Check(triage.CheckInput{
		PatientID:      patientID,
		Symptoms:       req.Symptoms,
		Duration:       req.Duration,
		Age:            req.Age,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		if errors.Is(err, triage.ErrSymptomsRequired) {
			utils.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("symptom check failed", "error", err)
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}

	utils.Success(c, "Symptom check completed", result)
}

// GetSymptomChecks lists the caller's previous symptom checks, newest first.
func (h *SymptomHandler) GetSymptomChecks(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient identity not found in token")
		return
	}

	var checks []models.SymptomCheck
	if err := h.DB.Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&checks).Error; err != nil {
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}
	utils.Success(c, "Symptom checks fetched successfully", checks)
}
