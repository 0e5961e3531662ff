package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-portal-server/internal/config"
	"clinic-portal-server/internal/middleware"
	"clinic-portal-server/internal/scheduling"
	"clinic-portal-server/internal/utils"
)

// AppointmentHandler exposes the booking core over HTTP: slot queries plus
// the book/confirm/cancel/reschedule lifecycle.
type AppointmentHandler struct {
	Slots     *scheduling.SlotService
	Lifecycle *scheduling.LifecycleService
	logger    *slog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, cfg config.SchedulingConfig, logger *slog.Logger) *AppointmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppointmentHandler{
		Slots:     scheduling.NewSlotService(db, cfg),
		Lifecycle: scheduling.NewLifecycleService(db, cfg, logger),
		logger:    logger,
	}
}

// respondSchedulingError maps a domain error onto the response taxonomy.
// Anything unknown is an internal error: log it with context, return a
// generic message so no storage detail leaks to the client.
func (h *AppointmentHandler) respondSchedulingError(c *gin.Context, operation string, err error) {
	switch {
	case scheduling.IsValidationError(err):
		utils.BadRequest(c, err.Error())
	case scheduling.IsNotFoundError(err):
		utils.NotFound(c, err.Error())
	case err == scheduling.ErrSlotUnavailable:
		utils.Conflict(c, err.Error())
	case scheduling.IsStateConflictError(err):
		utils.Conflict(c, err.Error())
	case scheduling.IsWindowExpiredError(err):
		utils.Conflict(c, err.Error())
	default:
		h.logger.Error("appointment operation failed",
			"operation", operation,
			"error", err)
		utils.InternalServerError(c, "Something went wrong, please try again")
	}
}

// GetSlots returns the open slots for a doctor and date. Response carries
// display strings and index-aligned canonical times.
func (h *AppointmentHandler) GetSlots(c *gin.Context) {
	doctorID := c.Query("doctorId")
	date := c.Query("date")
	if doctorID == "" || date == "" {
		utils.BadRequest(c, "doctorId and date query parameters are required")
		return
	}

	result, err := h.Slots.AvailableSlots(doctorID, date)
	if err != nil {
		h.respondSchedulingError(c, "get_slots", err)
		return
	}

	if !result.DoctorAvailable {
		utils.Success(c, result.Reason, result)
		return
	}
	utils.Success(c, "Available slots fetched successfully", result)
}

// BookAppointmentRequest represents the request body for booking a slot.
// The patient identity comes from the token, never the body.
type BookAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required,uuid"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
	Symptoms string `json:"symptoms"`
}

// BookAppointment books a slot for the authenticated patient.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient identity not found in token")
		return
	}

	appointment, err := h.Lifecycle.Book(scheduling.BookRequest{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Symptoms:  req.Symptoms,
	})
	if err != nil {
		h.respondSchedulingError(c, "book_appointment", err)
		return
	}

	utils.Created(c, "Appointment booked successfully", gin.H{
		"appointmentId": appointment.ID,
		"qrCode":        appointment.QRCode,
	})
}

// ConfirmAppointment confirms a pending appointment owned by the caller.
func (h *AppointmentHandler) ConfirmAppointment(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient identity not found in token")
		return
	}

	if err := h.Lifecycle.Confirm(patientID, c.Param("id")); err != nil {
		h.respondSchedulingError(c, "confirm_appointment", err)
		return
	}
	utils.Success(c, "Appointment confirmed successfully", nil)
}

// CancelAppointment cancels an appointment owned by the caller, subject to
// the cancellation cutoff.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient identity not found in token")
		return
	}

	if err := h.Lifecycle.Cancel(patientID, c.Param("id")); err != nil {
		h.respondSchedulingError(c, "cancel_appointment", err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully", nil)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	NewDate string `json:"newDate" binding:"required"`
	NewTime string `json:"newTime" binding:"required"`
}

// RescheduleAppointment moves an appointment to a new slot in place.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient identity not found in token")
		return
	}

	appointment, err := h.Lifecycle.Reschedule(scheduling.RescheduleRequest{
		PatientID:     patientID,
		AppointmentID: c.Param("id"),
		NewDate:       req.NewDate,
		NewTime:       req.NewTime,
	})
	if err != nil {
		h.respondSchedulingError(c, "reschedule_appointment", err)
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", gin.H{
		"appointmentId": appointment.ID,
		"newDate":       appointment.AppointmentDate,
		"newTime":       appointment.AppointmentTime,
	})
}

// GetAppointments lists the caller's appointments, soonest first.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient identity not found in token")
		return
	}

	appointments, err := h.Lifecycle.ListForPatient(patientID)
	if err != nil {
		h.respondSchedulingError(c, "list_appointments", err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}
