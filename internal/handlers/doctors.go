package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-portal-server/internal/models"
	"clinic-portal-server/internal/utils"
)

// DoctorHandler handles doctor directory requests: the listings the booking
// flow reads before asking for slots.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// DoctorListing is the directory entry returned to patients.
type DoctorListing struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Specialization string `json:"specialization"`
	AvailableDays  string `json:"availableDays"`
	AvailableHours string `json:"availableHours"`
	Biography      string `json:"biography,omitempty"`
}

// GetDoctors lists all doctors with their profile data, optionally filtered
// by specialization.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	query := h.DB.Model(&models.DoctorProfile{}).
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("users.role = ?", models.RoleDoctor)

	if spec := c.Query("specialization"); spec != "" {
		query = query.Where("doctor_profiles.specialization = ?", spec)
	}

	var profiles []models.DoctorProfile
	if err := query.Preload("User").Find(&profiles).Error; err != nil {
		utils.InternalServerError(c, "Something went wrong, please try again")
		return
	}

	listings := make([]DoctorListing, 0, len(profiles))
	for _, profile := range profiles {
		listings = append(listings, DoctorListing{
			ID:             profile.UserID,
			FirstName:      profile.User.FirstName,
			LastName:       profile.User.LastName,
			Specialization: profile.Specialization,
			AvailableDays:  profile.AvailableDays,
			AvailableHours: profile.AvailableHours,
			Biography:      profile.Biography,
		})
	}
	utils.Success(c, "Doctors fetched successfully", listings)
}

// GetDoctorByID returns one doctor's directory entry.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	var profile models.DoctorProfile
	err := h.DB.Preload("User").Where("user_id = ?", c.Param("id")).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Something went wrong, please try again")
		}
		return
	}

	utils.Success(c, "Doctor fetched successfully", DoctorListing{
		ID:             profile.UserID,
		FirstName:      profile.User.FirstName,
		LastName:       profile.User.LastName,
		Specialization: profile.Specialization,
		AvailableDays:  profile.AvailableDays,
		AvailableHours: profile.AvailableHours,
		Biography:      profile.Biography,
	})
}
