package scheduling

import (
	"fmt"
	"iter"
	"time"

	"gorm.io/gorm"

	"clinic-portal-server/internal/config"
	"clinic-portal-server/internal/models"
)

// SlotsResult is the outcome of a slot query. A doctor who does not work on
// the requested day is a normal empty result with a reason, not an error.
type SlotsResult struct {
	DoctorAvailable bool     `json:"doctorAvailable"`
	Reason          string   `json:"reason,omitempty"`
	Slots           []string `json:"slots"`     // display form, e.g. "9:00 AM"
	SlotTimes       []string `json:"slotTimes"` // canonical "HH:MM:SS", index-aligned with Slots
}

// SlotService computes available booking slots for a doctor and date. All
// reads, no side effects; results depend only on the schedule and the
// current ledger state.
type SlotService struct {
	db       *gorm.DB
	cfg      config.SchedulingConfig
	schedule *ScheduleProvider
	now      func() time.Time
}

// NewSlotService creates a SlotService.
func NewSlotService(db *gorm.DB, cfg config.SchedulingConfig) *SlotService {
	return &SlotService{
		db:       db,
		cfg:      cfg,
		schedule: NewScheduleProvider(db, cfg.DefaultWorkingHours),
		now:      time.Now,
	}
}

// AvailableSlots returns the open slots for (doctorID, date). Past dates are
// rejected outright; bookings with a status that still occupies the slot are
// subtracted from the candidate grid.
func (s *SlotService) AvailableSlots(doctorID, dateStr string) (*SlotsResult, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if date.Before(dateOnly(now)) {
		return nil, ErrPastDate
	}

	schedule, err := s.schedule.ForDoctor(doctorID)
	if err != nil {
		return nil, err
	}

	if !schedule.WorksOn(date.Weekday()) {
		return &SlotsResult{
			DoctorAvailable: false,
			Reason:          fmt.Sprintf("Doctor is not available on %ss", date.Weekday()),
			Slots:           []string{},
			SlotTimes:       []string{},
		}, nil
	}

	booked, err := s.bookedTimes(doctorID, dateStr)
	if err != nil {
		return nil, err
	}

	// On a same-day query, slots whose start has already passed are not
	// offered; booking would reject them anyway.
	sameDay := date.Equal(dateOnly(now))

	result := &SlotsResult{DoctorAvailable: true, Slots: []string{}, SlotTimes: []string{}}
	for minute := range slotGrid(schedule.StartMinute, schedule.EndMinute, s.cfg.SlotDurationMinutes) {
		if sameDay && !date.Add(time.Duration(minute)*time.Minute).After(now) {
			continue
		}
		canonical := minuteToCanonical(minute)
		if booked[canonical] {
			continue
		}
		result.SlotTimes = append(result.SlotTimes, canonical)
		result.Slots = append(result.Slots, FormatDisplay(canonical))
	}
	return result, nil
}

// bookedTimes returns the set of slot times already occupied on the date.
// Cancelled and expired appointments free their slot; everything else holds
// it regardless of clock time.
func (s *SlotService) bookedTimes(doctorID, dateStr string) (map[string]bool, error) {
	var times []string
	err := s.db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status NOT IN ?",
			doctorID, dateStr, models.SlotFreeingStatuses).
		Pluck("appointment_time", &times).Error
	if err != nil {
		return nil, err
	}
	booked := make(map[string]bool, len(times))
	for _, t := range times {
		booked[t] = true
	}
	return booked, nil
}

// slotGrid yields candidate slot start minutes from start, stepping by the
// slot duration, strictly below end. The sequence is finite and restartable.
func slotGrid(start, end, step int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for m := start; m < end; m += step {
			if !yield(m) {
				return
			}
		}
	}
}
