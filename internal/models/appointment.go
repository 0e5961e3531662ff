package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusExpired   AppointmentStatus = "expired"
)

// SlotFreeingStatuses are the statuses that release their slot. Every
// occupancy check excludes exactly this list; any other status holds the
// slot regardless of clock time.
var SlotFreeingStatuses = []AppointmentStatus{StatusCancelled, StatusExpired}

// Appointment represents a booked slot on a doctor's calendar. Appointments
// are never physically deleted; every exit from the calendar is a status
// transition.
type Appointment struct {
	BaseModel
	PatientID string `gorm:"size:36;index" json:"patientId"`
	DoctorID  string `gorm:"size:36;index:idx_doctor_slot" json:"doctorId"`

	// AppointmentDate is the calendar date in "2006-01-02" form and
	// AppointmentTime the time of day in canonical "HH:MM:SS" form,
	// aligned to the slot grid.
	AppointmentDate string `gorm:"size:10;index:idx_doctor_slot" json:"appointmentDate"`
	AppointmentTime string `gorm:"size:8;index:idx_doctor_slot" json:"appointmentTime"`

	// ScheduledFor is the combined date+time instant, stored so the sweeper
	// can run set-based deadline comparisons in SQL.
	ScheduledFor time.Time `gorm:"index" json:"scheduledFor"`

	Status AppointmentStatus `gorm:"size:20;default:'pending';index" json:"status"`

	ConfirmationDeadline time.Time  `json:"confirmationDeadline"`
	ConfirmedAt          *time.Time `json:"confirmedAt,omitempty"`
	CheckedInAt          *time.Time `json:"checkedInAt,omitempty"` // set by clinic staff at the desk

	// QRCode is the opaque check-in token. It is stable across reschedules;
	// every generation event is mirrored into QRCodeHistory.
	QRCode string `gorm:"size:64;uniqueIndex" json:"qrCode"`

	Reason   string `gorm:"size:255" json:"reason"`
	Symptoms string `gorm:"type:text" json:"symptoms,omitempty"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

// QRCodeEvent distinguishes entries in the QR code audit log.
type QRCodeEvent string

const (
	QREventGenerated   QRCodeEvent = "generated"
	QREventRegenerated QRCodeEvent = "regenerated"
)

// QRCodeHistory is the append-only log of QR token events for an appointment.
type QRCodeHistory struct {
	BaseModel
	AppointmentID string      `gorm:"size:36;index" json:"appointmentId"`
	QRCode        string      `gorm:"size:64" json:"qrCode"`
	Event         QRCodeEvent `gorm:"size:20" json:"event"`
	Actor         string      `gorm:"size:36" json:"actor"`
	Reason        string      `gorm:"size:255" json:"reason"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
