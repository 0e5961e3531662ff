package scheduling

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"clinic-portal-server/internal/models"
)

// WeeklySchedule is a doctor's working pattern resolved into a queryable
// form: the weekday set plus the daily window in minutes since midnight.
type WeeklySchedule struct {
	DoctorID    string
	Days        map[time.Weekday]bool
	StartMinute int
	EndMinute   int
}

// WorksOn reports whether the doctor works on the given weekday.
func (ws *WeeklySchedule) WorksOn(day time.Weekday) bool {
	return ws.Days[day]
}

// ContainsSlot reports whether a slot starting at the given minute lies on
// the slot grid inside the working window.
func (ws *WeeklySchedule) ContainsSlot(minute, slotMinutes int) bool {
	if minute < ws.StartMinute || minute >= ws.EndMinute {
		return false
	}
	return (minute-ws.StartMinute)%slotMinutes == 0
}

// ScheduleProvider looks up doctor working patterns. Pure reads; the profile
// rows are maintained by clinic admins elsewhere.
type ScheduleProvider struct {
	db            *gorm.DB
	defaultWindow string
}

// NewScheduleProvider creates a ScheduleProvider with the clinic's fallback
// working window.
func NewScheduleProvider(db *gorm.DB, defaultWindow string) *ScheduleProvider {
	return &ScheduleProvider{db: db, defaultWindow: defaultWindow}
}

// ForDoctor resolves the weekly schedule for a doctor. Returns
// ErrDoctorNotFound when no doctor with a profile exists under the ID.
func (p *ScheduleProvider) ForDoctor(doctorID string) (*WeeklySchedule, error) {
	var profile models.DoctorProfile
	err := p.db.Where("user_id = ?", doctorID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	start, end, ok := parseWindow(profile.AvailableHours)
	if !ok {
		// Missing or malformed hours fall back to the clinic default.
		// This is documented behavior, not an error.
		start, end, ok = parseWindow(p.defaultWindow)
		if !ok {
			start, end = 9*60, 17*60
		}
	}

	return &WeeklySchedule{
		DoctorID:    doctorID,
		Days:        parseDays(profile.AvailableDays),
		StartMinute: start,
		EndMinute:   end,
	}, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseDays(csv string) map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)
	for _, name := range strings.Split(csv, ",") {
		if day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]; ok {
			days[day] = true
		}
	}
	return days
}

// parseWindow parses "HH:MM-HH:MM" into start/end minutes since midnight.
func parseWindow(window string) (start, end int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(window), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	startT, err := time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	endT, err := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	start = startT.Hour()*60 + startT.Minute()
	end = endT.Hour()*60 + endT.Minute()
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}
