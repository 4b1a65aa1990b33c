package models

import (
	"fmt"
	"strings"
	"time"
)

// Reminder represents a dosing schedule for one medicine, optionally tied
// to a family member. A course length of 0 days means the course is
// indefinite: no end date and no finite pill requirement.
type Reminder struct {
	ID             int64      `json:"id" db:"id"`
	OwnerID        int64      `json:"owner_id" db:"user_id"`
	FamilyMember   string     `json:"family_member" db:"family_member"`
	MedicineName   string     `json:"medicine_name" db:"medicine_name"`
	Dosage         string     `json:"dosage" db:"dosage"`
	Schedule       string     `json:"schedule" db:"schedule_time"` // comma-separated HH:MM tokens
	MealRelation   string     `json:"meal_relation" db:"meal_relation"`
	CourseDays     int        `json:"course_days" db:"course_days"`
	PillsPerDose   float64    `json:"pills_per_dose" db:"pills_per_dose"`
	PillsInPack    int        `json:"pills_in_pack" db:"pills_in_pack"`
	PillsRemaining float64    `json:"pills_remaining" db:"pills_remaining"`
	StartDate      *time.Time `json:"start_date" db:"start_date"`
	EndDate        *time.Time `json:"end_date" db:"end_date"`
	Active         bool       `json:"active" db:"active"`
	LastReminded   *time.Time `json:"last_reminded" db:"last_reminded"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// ReminderLogStatus records how a reminder delivery went.
type ReminderLogStatus string

const (
	ReminderLogSent   ReminderLogStatus = "sent"
	ReminderLogFailed ReminderLogStatus = "failed"
)

// ReminderLog is one delivery record for a reminder.
type ReminderLog struct {
	ID         int64             `json:"id" db:"id"`
	ReminderID int64             `json:"reminder_id" db:"reminder_id"`
	SentAt     time.Time         `json:"sent_at" db:"sent_at"`
	Status     ReminderLogStatus `json:"status" db:"status"`
}

// IsIndefinite returns true for an open-ended course (course_days = 0).
func (r *Reminder) IsIndefinite() bool {
	return r.CourseDays <= 0
}

// IsValid reports whether the reminder carries real data rather than
// placeholder tokens.
func (r *Reminder) IsValid() bool {
	if r.MedicineName == "" || IsPlaceholderMedicine(r.MedicineName) {
		return false
	}
	return !IsPlaceholderName(r.FamilyMember)
}

// ScheduleTimes splits the schedule into its individual HH:MM tokens.
func (r *Reminder) ScheduleTimes() []string {
	var times []string
	for _, t := range strings.Split(r.Schedule, ",") {
		if t = strings.TrimSpace(t); t != "" {
			times = append(times, t)
		}
	}
	return times
}

// Ended returns true when a finite course has run past its end date.
func (r *Reminder) Ended(now time.Time) bool {
	if r.IsIndefinite() || r.EndDate == nil {
		return false
	}
	return now.After(r.EndDate.AddDate(0, 0, 1))
}

// CourseDescription renders the course for display: "indefinite" for
// open-ended reminders, otherwise the length with start and end dates.
func (r *Reminder) CourseDescription() string {
	if r.IsIndefinite() {
		return "indefinite"
	}
	if r.StartDate != nil && r.EndDate != nil {
		return fmt.Sprintf("%d days (%s – %s)",
			r.CourseDays,
			r.StartDate.Format("2006-01-02"),
			r.EndDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("%d days", r.CourseDays)
}
