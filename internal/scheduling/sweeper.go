package scheduling

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"clinic-portal-server/internal/config"
	"clinic-portal-server/internal/models"
)

// Sweeper reconciles appointment statuses with wall-clock time. It runs
// inline at the start of every request into the booking subsystem: cheap,
// idempotent, best-effort. A failed sweep must never abort the surrounding
// request; drift self-heals on the next successful run.
type Sweeper struct {
	db     *gorm.DB
	cfg    config.SchedulingConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewSweeper creates a Sweeper.
func NewSweeper(db *gorm.DB, cfg config.SchedulingConfig, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{db: db, cfg: cfg, logger: logger, now: time.Now}
}

// Run executes a sweep, logging and swallowing any error.
func (s *Sweeper) Run() {
	if err := s.sweep(s.now()); err != nil {
		s.logger.Error("status sweep failed", "error", err)
	}
}

// sweep performs the set-based transitions. Three passes:
//
//  1. pending/confirmed appointments whose time has passed without a
//     check-in are cancelled with an audit note;
//  2. checked-in appointments past the completion grace period are
//     completed;
//  3. still-future pending appointments past their confirmation deadline
//     are expired, freeing the slot.
func (s *Sweeper) sweep(now time.Time) error {
	activeStatuses := []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}

	note := "auto-cancelled: time passed without check-in"
	result := s.db.Model(&models.Appointment{}).
		Where("status IN ? AND scheduled_for < ? AND checked_in_at IS NULL", activeStatuses, now).
		Updates(map[string]interface{}{
			"status": models.StatusCancelled,
			"notes":  gorm.Expr("CONCAT(COALESCE(notes, ''), ?)", "\n"+note),
		})
	if result.Error != nil {
		return fmt.Errorf("missed-appointment pass: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("swept missed appointments", "count", result.RowsAffected)
	}

	grace := time.Duration(s.cfg.CompletionGraceHours) * time.Hour
	result = s.db.Model(&models.Appointment{}).
		Where("status IN ? AND checked_in_at IS NOT NULL AND scheduled_for < ?", activeStatuses, now.Add(-grace)).
		Update("status", models.StatusCompleted)
	if result.Error != nil {
		return fmt.Errorf("completion pass: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("swept completed appointments", "count", result.RowsAffected)
	}

	result = s.db.Model(&models.Appointment{}).
		Where("status = ? AND confirmation_deadline < ? AND scheduled_for >= ?",
			models.StatusPending, now, now).
		Update("status", models.StatusExpired)
	if result.Error != nil {
		return fmt.Errorf("expiry pass: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("swept expired appointments", "count", result.RowsAffected)
	}
	return nil
}
