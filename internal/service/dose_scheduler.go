package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/AptekaBot/internal/metrics"
	"github.com/Kerhoff/AptekaBot/internal/models"
)

// DoseCallback delivers a reminder message to a user. A non-nil error
// marks the delivery as failed in the reminder log.
type DoseCallback func(userID int64, text string) error

// StartDoseScheduler runs a background loop that checks active reminders
// every 30 seconds and fires the callback for every schedule slot matching
// the current minute. It also deactivates finished courses and purges
// placeholder rows once a day. It blocks until the context is cancelled,
// so it should be launched in a separate goroutine.
func (s *Service) StartDoseScheduler(ctx context.Context, callback DoseCallback) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	s.logger.Info("Dose scheduler started")

	lastPurge := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Dose scheduler stopped")
			return
		case now := <-ticker.C:
			s.processDueDoses(ctx, now, callback)
			if now.Sub(lastPurge) > 24*time.Hour {
				s.PurgePlaceholders(ctx)
				lastPurge = now
			}
		}
	}
}

// processDueDoses fires the callback for every active reminder whose
// schedule contains the current HH:MM slot, decrements the remaining pill
// count and records the delivery.
func (s *Service) processDueDoses(ctx context.Context, now time.Time, callback DoseCallback) {
	reminders, err := s.Reminders.GetAllActive(ctx)
	if err != nil {
		s.logger.Errorf("Failed to get active reminders: %v", err)
		return
	}

	slot := now.Format("15:04")
	for _, r := range reminders {
		if !r.IsValid() {
			continue
		}
		if r.Ended(now) {
			if err := s.Reminders.Deactivate(ctx, r.ID); err != nil {
				s.logger.Errorf("Failed to deactivate finished reminder %d: %v", r.ID, err)
			}
			continue
		}
		if !scheduleDue(r, slot, now) {
			continue
		}

		remaining := r.PillsRemaining
		status := models.ReminderLogSent
		if err := callback(r.OwnerID, doseMessage(r)); err != nil {
			status = models.ReminderLogFailed
			s.logger.Errorf("Failed to deliver reminder %d to user %d: %v", r.ID, r.OwnerID, err)
		} else {
			metrics.RemindersSent.Inc()
			if remaining > 0 {
				remaining -= r.PillsPerDose
				if remaining < 0 {
					remaining = 0
				}
			}
		}

		// last_reminded advances even on a failed send so a dead chat does
		// not get retried every 30 seconds.
		if err := s.Reminders.MarkReminded(ctx, r.ID, remaining, now); err != nil {
			s.logger.Errorf("Failed to mark reminder %d: %v", r.ID, err)
		}
		if err := s.Reminders.LogDelivery(ctx, r.ID, status); err != nil {
			s.logger.Errorf("Failed to log reminder %d delivery: %v", r.ID, err)
		}
	}
}

// scheduleDue reports whether the reminder should fire for this slot. The
// last_reminded guard keeps the 30-second ticker from firing twice within
// one minute.
func scheduleDue(r *models.Reminder, slot string, now time.Time) bool {
	due := false
	for _, t := range r.ScheduleTimes() {
		if t == slot {
			due = true
			break
		}
	}
	if !due {
		return false
	}
	if r.LastReminded != nil && r.LastReminded.Format("2006-01-02 15:04") == now.Format("2006-01-02 15:04") {
		return false
	}
	return true
}

func doseMessage(r *models.Reminder) string {
	var sb strings.Builder
	sb.WriteString("⏰ Time to take " + r.MedicineName)
	if r.FamilyMember != "" {
		sb.WriteString(" (for " + r.FamilyMember + ")")
	}
	if r.Dosage != "" {
		sb.WriteString("\n📊 " + r.Dosage)
	}
	if r.MealRelation != "" {
		sb.WriteString("\n🍽 " + r.MealRelation)
	}
	if r.PillsRemaining > 0 {
		sb.WriteString(fmt.Sprintf("\n💊 Pills left: %d", int(r.PillsRemaining)))
	}
	return sb.String()
}
