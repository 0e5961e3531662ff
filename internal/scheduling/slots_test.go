package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-portal-server/internal/models"
)

func TestAvailableSlotsMorningWindow(t *testing.T) {
	db := openTestDB(t)
	doctorID := createDoctor(t, db, "Monday,Wednesday,Friday", "09:00-12:00")
	svc := NewSlotService(db, testScheduling())

	monday := nextWeekday(time.Now(), time.Monday)
	result, err := svc.AvailableSlots(doctorID, monday)
	require.NoError(t, err)

	assert.True(t, result.DoctorAvailable)
	assert.Equal(t, []string{"09:00:00", "09:30:00", "10:00:00", "10:30:00", "11:00:00", "11:30:00"}, result.SlotTimes)
	assert.Equal(t, []string{"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM"}, result.Slots)
}

func TestAvailableSlotsOffDay(t *testing.T) {
	db := openTestDB(t)
	doctorID := createDoctor(t, db, "Monday,Wednesday,Friday", "09:00-12:00")
	svc := NewSlotService(db, testScheduling())

	tuesday := nextWeekday(time.Now(), time.Tuesday)
	result, err := svc.AvailableSlots(doctorID, tuesday)
	require.NoError(t, err)

	assert.False(t, result.DoctorAvailable)
	assert.NotEmpty(t, result.Reason)
	assert.Empty(t, result.SlotTimes)
	assert.Empty(t, result.Slots)
}

func TestAvailableSlotsPastDateRejected(t *testing.T) {
	db := openTestDB(t)
	doctorID := createDoctor(t, db, "Monday", "09:00-12:00")
	svc := NewSlotService(db, testScheduling())

	yesterday := time.Now().AddDate(0, 0, -1).Format(DateLayout)
	_, err := svc.AvailableSlots(doctorID, yesterday)
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestAvailableSlotsUnknownDoctor(t *testing.T) {
	db := openTestDB(t)
	svc := NewSlotService(db, testScheduling())

	monday := nextWeekday(time.Now(), time.Monday)
	_, err := svc.AvailableSlots("00000000-0000-0000-0000-000000000000", monday)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestAvailableSlotsMalformedHoursFallBack(t *testing.T) {
	db := openTestDB(t)
	doctorID := createDoctor(t, db, "Monday", "not-a-window")
	svc := NewSlotService(db, testScheduling())

	monday := nextWeekday(time.Now(), time.Monday)
	result, err := svc.AvailableSlots(doctorID, monday)
	require.NoError(t, err)

	// Default 09:00-17:00 window yields 16 half-hour slots.
	assert.True(t, result.DoctorAvailable)
	assert.Len(t, result.SlotTimes, 16)
	assert.Equal(t, "09:00:00", result.SlotTimes[0])
	assert.Equal(t, "16:30:00", result.SlotTimes[len(result.SlotTimes)-1])
}

func TestAvailableSlotsSubtractsActiveBookings(t *testing.T) {
	db := openTestDB(t)
	doctorID := createDoctor(t, db, "Monday", "09:00-12:00")
	patientID := createPatient(t, db)
	svc := NewSlotService(db, testScheduling())
	monday := nextWeekday(time.Now(), time.Monday)

	insert := func(slot string, status models.AppointmentStatus) {
		scheduledFor, err := CombineDateTime(monday, slot)
		require.NoError(t, err)
		require.NoError(t, db.Create(&models.Appointment{
			PatientID:       patientID,
			DoctorID:        doctorID,
			AppointmentDate: monday,
			AppointmentTime: slot,
			ScheduledFor:    scheduledFor,
			Status:          status,
			QRCode:          newCheckInToken(),
			Reason:          "checkup",
		}).Error)
	}

	insert("10:00:00", models.StatusPending)
	insert("10:30:00", models.StatusCancelled)
	insert("11:00:00", models.StatusExpired)

	result, err := svc.AvailableSlots(doctorID, monday)
	require.NoError(t, err)

	// Pending occupies its slot; cancelled and expired free theirs.
	assert.NotContains(t, result.SlotTimes, "10:00:00")
	assert.Contains(t, result.SlotTimes, "10:30:00")
	assert.Contains(t, result.SlotTimes, "11:00:00")
	assert.Len(t, result.SlotTimes, 5)
}

func TestAvailableSlotsSameDaySkipsElapsedTimes(t *testing.T) {
	db := openTestDB(t)
	doctorID := createDoctor(t, db,
		"Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday", "09:00-17:00")
	svc := NewSlotService(db, testScheduling())

	base := time.Now()
	pinned := time.Date(base.Year(), base.Month(), base.Day(), 15, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return pinned }

	result, err := svc.AvailableSlots(doctorID, pinned.Format(DateLayout))
	require.NoError(t, err)

	// Only slots starting after 15:00 remain; 15:00 itself has started.
	assert.Equal(t, []string{"15:30:00", "16:00:00", "16:30:00"}, result.SlotTimes)
}

func TestSameDayOfferedSlotsAreBookable(t *testing.T) {
	db := openTestDB(t)
	doctorID := createDoctor(t, db,
		"Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday", "09:00-17:00")
	patientID := createPatient(t, db)

	base := time.Now()
	pinned := time.Date(base.Year(), base.Month(), base.Day(), 15, 0, 0, 0, time.Local)
	today := pinned.Format(DateLayout)

	slots := NewSlotService(db, testScheduling())
	slots.now = func() time.Time { return pinned }
	lifecycle := newLifecycle(t, db)
	lifecycle.now = func() time.Time { return pinned }

	result, err := slots.AvailableSlots(doctorID, today)
	require.NoError(t, err)
	require.NotEmpty(t, result.SlotTimes)

	// Every offered time must book without a past-time rejection.
	for _, slot := range result.SlotTimes {
		_, err := lifecycle.Book(BookRequest{
			PatientID: patientID,
			DoctorID:  doctorID,
			Date:      today,
			Time:      slot,
			Reason:    "checkup",
		})
		require.NoError(t, err, "offered slot %s must be bookable", slot)
	}
}

func TestAvailableSlotsDeterministic(t *testing.T) {
	db := openTestDB(t)
	doctorID := createDoctor(t, db, "Monday", "09:00-12:00")
	svc := NewSlotService(db, testScheduling())
	monday := nextWeekday(time.Now(), time.Monday)

	first, err := svc.AvailableSlots(doctorID, monday)
	require.NoError(t, err)
	second, err := svc.AvailableSlots(doctorID, monday)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first.Slots, len(first.SlotTimes))
	for i, canonical := range first.SlotTimes {
		assert.Equal(t, FormatDisplay(canonical), first.Slots[i])
	}
}

func TestParseWindow(t *testing.T) {
	start, end, ok := parseWindow("09:00-17:00")
	require.True(t, ok)
	assert.Equal(t, 540, start)
	assert.Equal(t, 1020, end)

	_, _, ok = parseWindow("")
	assert.False(t, ok)
	_, _, ok = parseWindow("17:00-09:00")
	assert.False(t, ok)
	_, _, ok = parseWindow("9am-5pm")
	assert.False(t, ok)
}

func TestSlotGridStrictlyBelowEnd(t *testing.T) {
	var minutes []int
	for m := range slotGrid(540, 720, 30) {
		minutes = append(minutes, m)
	}
	assert.Equal(t, []int{540, 570, 600, 630, 660, 690}, minutes)
}
