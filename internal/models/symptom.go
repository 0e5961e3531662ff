package models

// UrgencyLevel represents how quickly a patient should seek care.
type UrgencyLevel string

const (
	UrgencyRoutine   UrgencyLevel = "routine"
	UrgencyUrgent    UrgencyLevel = "urgent"
	UrgencyEmergency UrgencyLevel = "emergency"
)

// rank orders urgencies so the triage engine can take a maximum.
func (u UrgencyLevel) rank() int {
	switch u {
	case UrgencyEmergency:
		return 3
	case UrgencyUrgent:
		return 2
	case UrgencyRoutine:
		return 1
	}
	return 0
}

// AtLeast returns the higher of the two urgency levels.
func (u UrgencyLevel) AtLeast(other UrgencyLevel) UrgencyLevel {
	if other.rank() > u.rank() {
		return other
	}
	return u
}

// SymptomScope is an admin-curated triage rule. Read-only to the engine.
type SymptomScope struct {
	BaseModel
	SymptomName        string       `gorm:"size:100;index" json:"symptomName"`
	Category           string       `gorm:"size:50" json:"category"`
	PossibleConditions string       `gorm:"type:text" json:"possibleConditions"` // comma list
	UrgencyLevel       UrgencyLevel `gorm:"size:20;default:'routine'" json:"urgencyLevel"`
	WarningKeywords    string       `gorm:"type:text" json:"warningKeywords"` // comma list; co-presence escalates
	Guidance           string       `gorm:"type:text" json:"guidance"`
	RecommendedSpec    string       `gorm:"size:100" json:"recommendedSpecialization"`
	IsActive           bool         `gorm:"default:true;index" json:"isActive"`
}

// SymptomCheck records one triage invocation. Append-only.
type SymptomCheck struct {
	BaseModel
	PatientID      string       `gorm:"size:36;index" json:"patientId"`
	Symptoms       string       `gorm:"type:text" json:"symptoms"`
	Duration       string       `gorm:"size:100" json:"duration"`
	Age            int          `json:"age"`
	AdditionalInfo string       `gorm:"type:text" json:"additionalInfo,omitempty"`
	UrgencyLevel   UrgencyLevel `gorm:"size:20" json:"urgencyLevel"`
	Response       string       `gorm:"type:text" json:"response"`

	Patient       User                `gorm:"foreignKey:PatientID" json:"-"`
	MatchedScopes []SymptomCheckScope `gorm:"foreignKey:SymptomCheckID" json:"matchedScopes,omitempty"`
}

// SymptomCheckScope links a check to the scopes it matched.
type SymptomCheckScope struct {
	BaseModel
	SymptomCheckID string `gorm:"size:36;index:idx_check_scope" json:"symptomCheckId"`
	SymptomScopeID string `gorm:"size:36;index:idx_check_scope" json:"symptomScopeId"`

	SymptomCheck SymptomCheck `gorm:"foreignKey:SymptomCheckID" json:"-"`
	SymptomScope SymptomScope `gorm:"foreignKey:SymptomScopeID" json:"-"`
}
