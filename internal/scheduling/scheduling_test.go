package scheduling

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clinic-portal-server/internal/config"
	"clinic-portal-server/internal/models"
)

// openTestDB returns an isolated in-memory database with all models
// migrated. Connections are capped at one so concurrent transactions
// serialize instead of tripping over sqlite table locks.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.MigrateAll(db))
	return db
}

// createDoctor inserts a doctor user with a working pattern and returns the
// user ID.
func createDoctor(t *testing.T, db *gorm.DB, days, hours string) string {
	t.Helper()
	doctor := models.User{
		Email:     fmt.Sprintf("doctor-%d@clinic.test", time.Now().UnixNano()),
		FirstName: "Test",
		LastName:  "Doctor",
		Role:      models.RoleDoctor,
	}
	require.NoError(t, doctor.SetPassword("password123"))
	require.NoError(t, db.Create(&doctor).Error)
	require.NoError(t, db.Create(&models.DoctorProfile{
		UserID:         doctor.ID,
		Specialization: "General Medicine",
		AvailableDays:  days,
		AvailableHours: hours,
	}).Error)
	return doctor.ID
}

// createPatient inserts a patient user and returns the user ID.
func createPatient(t *testing.T, db *gorm.DB) string {
	t.Helper()
	patient := models.User{
		Email:     fmt.Sprintf("patient-%d@clinic.test", time.Now().UnixNano()),
		FirstName: "Test",
		LastName:  "Patient",
		Role:      models.RolePatient,
	}
	require.NoError(t, patient.SetPassword("password123"))
	require.NoError(t, db.Create(&patient).Error)
	return patient.ID
}

// nextWeekday returns the first date strictly after from that falls on the
// requested weekday, as a canonical date string.
func nextWeekday(from time.Time, day time.Weekday) string {
	d := from.AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(DateLayout)
}

func testScheduling() config.SchedulingConfig {
	return config.DefaultScheduling()
}
