package models

import (
	"time"
)

// Prescription is issued by a doctor, usually against an appointment.
type Prescription struct {
	BaseModel
	PatientID     string    `gorm:"size:36;index" json:"patientId"`
	DoctorID      string    `gorm:"size:36;index" json:"doctorId"`
	AppointmentID string    `gorm:"size:36;index" json:"appointmentId,omitempty"`
	IssuedAt      time.Time `json:"issuedAt"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Patient User               `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User               `gorm:"foreignKey:DoctorID" json:"-"`
	Items   []PrescriptionItem `gorm:"foreignKey:PrescriptionID" json:"items,omitempty"`
}

// PrescriptionItem is one medication line on a prescription.
type PrescriptionItem struct {
	BaseModel
	PrescriptionID string `gorm:"size:36;index" json:"prescriptionId"`
	Medication     string `gorm:"size:255;not null" json:"medication"`
	Dosage         string `gorm:"size:100" json:"dosage"`
	Frequency      string `gorm:"size:100" json:"frequency"`
	DurationDays   int    `json:"durationDays"`
	Instructions   string `gorm:"type:text" json:"instructions,omitempty"`
}
