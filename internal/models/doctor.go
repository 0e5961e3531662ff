package models

// DoctorProfile holds the doctor-specific data the booking flow reads:
// specialization plus the weekly working pattern. Created and edited by
// clinic admins; read-only to the scheduling core.
type DoctorProfile struct {
	BaseModel
	UserID         string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Specialization string `gorm:"size:100;index" json:"specialization"`
	Biography      string `gorm:"type:text" json:"biography,omitempty"`

	// AvailableDays is a comma-separated list of weekday names,
	// e.g. "Monday,Wednesday,Friday".
	AvailableDays string `gorm:"size:100" json:"availableDays"`

	// AvailableHours is a single daily window in "HH:MM-HH:MM" form.
	// Empty or malformed values fall back to the clinic default window.
	AvailableHours string `gorm:"size:20" json:"availableHours"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
