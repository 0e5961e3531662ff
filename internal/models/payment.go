package models

import (
	"time"
)

// PaymentMethod represents how a consultation was paid for.
type PaymentMethod string

const (
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodCounter PaymentMethod = "counter"
)

// PaymentStatus represents the state of a payment record.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment is the consultation fee record for an appointment. Gateway and
// counter flows settle it externally; this table is the ledger only.
type Payment struct {
	BaseModel
	AppointmentID string        `gorm:"size:36;uniqueIndex" json:"appointmentId"`
	PatientID     string        `gorm:"size:36;index" json:"patientId"`
	AmountCents   int64         `json:"amountCents"`
	Method        PaymentMethod `gorm:"size:20" json:"method"`
	Status        PaymentStatus `gorm:"size:20;default:'pending'" json:"status"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
	Patient     User        `gorm:"foreignKey:PatientID" json:"-"`
}

// Review is a patient's rating of a completed appointment.
type Review struct {
	BaseModel
	AppointmentID string `gorm:"size:36;uniqueIndex" json:"appointmentId"`
	PatientID     string `gorm:"size:36;index" json:"patientId"`
	DoctorID      string `gorm:"size:36;index" json:"doctorId"`
	Rating        int    `json:"rating"` // 1..5
	Comment       string `gorm:"type:text" json:"comment,omitempty"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
	Patient     User        `gorm:"foreignKey:PatientID" json:"-"`
	Doctor      User        `gorm:"foreignKey:DoctorID" json:"-"`
}
