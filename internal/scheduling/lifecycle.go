package scheduling

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-portal-server/internal/config"
	"clinic-portal-server/internal/models"
)

// LifecycleService owns the appointment state machine: booking, patient
// confirmation, cancellation and rescheduling. Every mutation is guarded by
// status-conditional updates so concurrent requests on the same appointment
// cannot produce lost updates.
type LifecycleService struct {
	db     *gorm.DB
	cfg    config.SchedulingConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewLifecycleService creates a LifecycleService.
func NewLifecycleService(db *gorm.DB, cfg config.SchedulingConfig, logger *slog.Logger) *LifecycleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LifecycleService{db: db, cfg: cfg, logger: logger, now: time.Now}
}

// BookRequest carries the inputs for booking a slot. PatientID comes from
// the authenticated caller, never from the request body.
type BookRequest struct {
	PatientID string
	DoctorID  string
	Date      string // canonical date
	Time      string // 12-hour or canonical; normalized before use
	Reason    string
	Symptoms  string
}

// Book creates a pending appointment on a free slot. Slot availability is
// re-validated inside the transaction with the candidate rows locked, so at
// most one of two racing bookings for the same slot can win.
func (s *LifecycleService) Book(req BookRequest) (*models.Appointment, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}
	canonicalTime, err := NormalizeTime(req.Time)
	if err != nil {
		return nil, err
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if date.Before(dateOnly(now)) {
		return nil, ErrPastDate
	}
	scheduledFor, err := CombineDateTime(req.Date, canonicalTime)
	if err != nil {
		return nil, err
	}
	if scheduledFor.Before(now) {
		return nil, ErrPastDate
	}

	// The requested time must be a slot the generator could have offered:
	// a working day, inside the window, on the grid.
	schedule, err := NewScheduleProvider(s.db, s.cfg.DefaultWorkingHours).ForDoctor(req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !schedule.WorksOn(date.Weekday()) {
		return nil, ErrSlotUnavailable
	}
	minute, err := minuteOfDay(canonicalTime)
	if err != nil {
		return nil, err
	}
	if !schedule.ContainsSlot(minute, s.cfg.SlotDurationMinutes) {
		return nil, ErrSlotUnavailable
	}

	appointment := &models.Appointment{
		PatientID:            req.PatientID,
		DoctorID:             req.DoctorID,
		AppointmentDate:      req.Date,
		AppointmentTime:      canonicalTime,
		ScheduledFor:         scheduledFor,
		Status:               models.StatusPending,
		ConfirmationDeadline: now.Add(time.Duration(s.cfg.ConfirmationWindowHours) * time.Hour),
		QRCode:               newCheckInToken(),
		Reason:               strings.TrimSpace(req.Reason),
		Symptoms:             strings.TrimSpace(req.Symptoms),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Write-time re-check of occupancy, with the conflicting rows
		// locked for the remainder of the transaction.
		var count int64
		if err := tx.Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status NOT IN ?",
				req.DoctorID, req.Date, canonicalTime, models.SlotFreeingStatuses).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotUnavailable
		}

		if err := tx.Create(appointment).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.QRCodeHistory{
			AppointmentID: appointment.ID,
			QRCode:        appointment.QRCode,
			Event:         models.QREventGenerated,
			Actor:         req.PatientID,
			Reason:        "appointment booked",
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Notification{
			UserID: req.PatientID,
			Type:   models.NotificationAppointment,
			Title:  "Appointment booked",
			Message: fmt.Sprintf("Your appointment on %s at %s is booked and awaiting confirmation.",
				req.Date, FormatDisplay(canonicalTime)),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment booked",
		"appointment_id", appointment.ID,
		"doctor_id", req.DoctorID,
		"date", req.Date,
		"time", canonicalTime)
	return appointment, nil
}

// Confirm moves a pending appointment to confirmed, provided the
// confirmation window is still open. The transition itself is a single
// conditional update; a zero row count means another request won the race or
// the sweeper got there first.
func (s *LifecycleService) Confirm(patientID, appointmentID string) error {
	appointment, err := s.ownedAppointment(patientID, appointmentID)
	if err != nil {
		return err
	}
	if appointment.Status != models.StatusPending {
		return statusConflict(appointment.Status)
	}
	now := s.now()
	if now.After(appointment.ConfirmationDeadline) {
		return ErrConfirmationExpired
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointmentID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":       models.StatusConfirmed,
				"confirmed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return s.currentConflict(tx, appointmentID)
		}
		return tx.Create(&models.Notification{
			UserID: patientID,
			Type:   models.NotificationAppointment,
			Title:  "Appointment confirmed",
			Message: fmt.Sprintf("Your appointment on %s at %s is confirmed.",
				appointment.AppointmentDate, FormatDisplay(appointment.AppointmentTime)),
		}).Error
	})
}

// Cancel cancels a pending or confirmed appointment, subject to the
// cancellation cutoff. The slot frees itself implicitly: availability is
// always recomputed from status, never cached.
func (s *LifecycleService) Cancel(patientID, appointmentID string) error {
	appointment, err := s.ownedAppointment(patientID, appointmentID)
	if err != nil {
		return err
	}
	switch appointment.Status {
	case models.StatusCancelled:
		return ErrAlreadyCancelled
	case models.StatusCompleted:
		return ErrAlreadyCompleted
	case models.StatusExpired:
		return ErrAlreadyExpired
	}
	now := s.now()
	if appointment.ScheduledFor.Before(now) {
		return ErrAppointmentPassed
	}
	deadline := appointment.ScheduledFor.Add(-time.Duration(s.cfg.CancellationCutoffHours) * time.Hour)
	if now.After(deadline) {
		return ErrWithinCancellationWindow
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Appointment{}).
			Where("id = ? AND status IN ?", appointmentID,
				[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
			Update("status", models.StatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return s.currentConflict(tx, appointmentID)
		}
		return tx.Create(&models.Notification{
			UserID: patientID,
			Type:   models.NotificationCancellation,
			Title:  "Appointment cancelled",
			Message: fmt.Sprintf("Your appointment on %s at %s has been cancelled.",
				appointment.AppointmentDate, FormatDisplay(appointment.AppointmentTime)),
		}).Error
	})
}

// RescheduleRequest carries the inputs for moving an appointment.
type RescheduleRequest struct {
	PatientID     string
	AppointmentID string
	NewDate       string
	NewTime       string
}

// Reschedule moves an appointment to a new slot in place: same appointment
// ID, same QR token, status forced to confirmed. The confirmation step is
// deliberately bypassed; the patient actively chose the new time.
func (s *LifecycleService) Reschedule(req RescheduleRequest) (*models.Appointment, error) {
	appointment, err := s.ownedAppointment(req.PatientID, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	switch appointment.Status {
	case models.StatusCancelled:
		return nil, ErrAlreadyCancelled
	case models.StatusCompleted:
		return nil, ErrAlreadyCompleted
	case models.StatusExpired:
		return nil, ErrAlreadyExpired
	}
	now := s.now()
	if appointment.ScheduledFor.Before(now) {
		return nil, ErrAppointmentPassed
	}

	canonicalTime, err := NormalizeTime(req.NewTime)
	if err != nil {
		return nil, err
	}
	newDate, err := ParseDate(req.NewDate)
	if err != nil {
		return nil, err
	}
	newScheduledFor, err := CombineDateTime(req.NewDate, canonicalTime)
	if err != nil {
		return nil, err
	}
	if newScheduledFor.Before(now) {
		return nil, ErrPastDate
	}
	if appointment.AppointmentDate == req.NewDate && appointment.AppointmentTime == canonicalTime {
		return nil, ErrNoChange
	}

	schedule, err := NewScheduleProvider(s.db, s.cfg.DefaultWorkingHours).ForDoctor(appointment.DoctorID)
	if err != nil {
		return nil, err
	}
	if !schedule.WorksOn(newDate.Weekday()) {
		return nil, ErrSlotUnavailable
	}
	minute, err := minuteOfDay(canonicalTime)
	if err != nil {
		return nil, err
	}
	if !schedule.ContainsSlot(minute, s.cfg.SlotDurationMinutes) {
		return nil, ErrSlotUnavailable
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Occupancy re-check for the target slot, excluding this
		// appointment itself.
		var count int64
		if err := tx.Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND id <> ? AND status NOT IN ?",
				appointment.DoctorID, req.NewDate, canonicalTime, appointment.ID,
				models.SlotFreeingStatuses).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotUnavailable
		}

		result := tx.Model(&models.Appointment{}).
			Where("id = ? AND status IN ?", appointment.ID,
				[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
			Updates(map[string]interface{}{
				"appointment_date": req.NewDate,
				"appointment_time": canonicalTime,
				"scheduled_for":    newScheduledFor,
				"status":           models.StatusConfirmed,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return s.currentConflict(tx, appointment.ID)
		}

		if err := tx.Create(&models.QRCodeHistory{
			AppointmentID: appointment.ID,
			QRCode:        appointment.QRCode,
			Event:         models.QREventRegenerated,
			Actor:         req.PatientID,
			Reason: fmt.Sprintf("rescheduled from %s %s to %s %s",
				appointment.AppointmentDate, appointment.AppointmentTime, req.NewDate, canonicalTime),
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Notification{
			UserID: req.PatientID,
			Type:   models.NotificationReschedule,
			Title:  "Appointment rescheduled",
			Message: fmt.Sprintf("Your appointment has been moved to %s at %s.",
				req.NewDate, FormatDisplay(canonicalTime)),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	appointment.AppointmentDate = req.NewDate
	appointment.AppointmentTime = canonicalTime
	appointment.ScheduledFor = newScheduledFor
	appointment.Status = models.StatusConfirmed

	s.logger.Info("appointment rescheduled",
		"appointment_id", appointment.ID,
		"new_date", req.NewDate,
		"new_time", canonicalTime)
	return appointment, nil
}

// ListForPatient returns the caller's appointments, soonest first.
func (s *LifecycleService) ListForPatient(patientID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.Where("patient_id = ?", patientID).
		Order("scheduled_for asc").
		Find(&appointments).Error
	return appointments, err
}

// ownedAppointment loads an appointment scoped to the caller. Appointments
// belonging to other patients surface as not-found, never as forbidden.
func (s *LifecycleService) ownedAppointment(patientID, appointmentID string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.Where("id = ? AND patient_id = ?", appointmentID, patientID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// currentConflict re-reads an appointment after a conditional update touched
// zero rows and reports the state it had moved to in the meantime.
func (s *LifecycleService) currentConflict(tx *gorm.DB, appointmentID string) error {
	var appointment models.Appointment
	if err := tx.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		return err
	}
	return statusConflict(appointment.Status)
}

func statusConflict(status models.AppointmentStatus) error {
	switch status {
	case models.StatusConfirmed:
		return ErrAlreadyConfirmed
	case models.StatusCompleted:
		return ErrAlreadyCompleted
	case models.StatusCancelled:
		return ErrAlreadyCancelled
	case models.StatusExpired:
		return ErrAlreadyExpired
	}
	return ErrAlreadyCancelled
}

// newCheckInToken produces the opaque QR check-in token. 24 random bytes is
// far past any realistic collision horizon for a clinic's appointment volume.
func newCheckInToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failure means the host is unusable
	}
	return hex.EncodeToString(buf)
}
