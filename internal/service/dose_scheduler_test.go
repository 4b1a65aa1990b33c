package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/AptekaBot/internal/models"
)

func TestScheduleDue(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 0, 20, 0, time.UTC)
	slot := now.Format("15:04")

	r := &models.Reminder{Schedule: "08:00,20:00"}
	assert.True(t, scheduleDue(r, slot, now))

	r = &models.Reminder{Schedule: "09:00,20:00"}
	assert.False(t, scheduleDue(r, slot, now))

	// Already fired within this minute: the 30-second ticker must not
	// deliver the same dose twice.
	sameMinute := now.Add(-30 * time.Second)
	r = &models.Reminder{Schedule: "08:00", LastReminded: &sameMinute}
	assert.False(t, scheduleDue(r, slot, now))

	// Fired yesterday at the same wall time: due again today.
	yesterday := now.AddDate(0, 0, -1)
	r = &models.Reminder{Schedule: "08:00", LastReminded: &yesterday}
	assert.True(t, scheduleDue(r, slot, now))
}

func TestDoseMessage(t *testing.T) {
	r := &models.Reminder{
		MedicineName:   "Aspirin",
		FamilyMember:   "Anna",
		Dosage:         "1 tablet",
		MealRelation:   "after meals",
		PillsRemaining: 12,
	}
	msg := doseMessage(r)
	assert.Contains(t, msg, "Time to take Aspirin")
	assert.Contains(t, msg, "(for Anna)")
	assert.Contains(t, msg, "1 tablet")
	assert.Contains(t, msg, "after meals")
	assert.Contains(t, msg, "Pills left: 12")

	bare := &models.Reminder{MedicineName: "Vitamin D"}
	msg = doseMessage(bare)
	assert.Contains(t, msg, "Time to take Vitamin D")
	assert.NotContains(t, msg, "for ")
	assert.NotContains(t, msg, "Pills left")
}

func dueReminderFixture() (*Service, *fakeReminderRepo, time.Time) {
	reminders := &fakeReminderRepo{
		reminders: []*models.Reminder{{
			ID:             1,
			OwnerID:        42,
			MedicineName:   "Aspirin",
			Schedule:       "08:00",
			PillsRemaining: 10,
			PillsPerDose:   1,
			Active:         true,
		}},
		nextID: 1,
	}
	svc := New(nil, testLogger(), nil, nil, nil, nil, nil, reminders, nil)
	now := time.Date(2024, 3, 15, 8, 0, 10, 0, time.UTC)
	return svc, reminders, now
}

func TestProcessDueDosesRecordsSuccessfulDelivery(t *testing.T) {
	svc, reminders, now := dueReminderFixture()

	var delivered []int64
	svc.processDueDoses(context.Background(), now, func(userID int64, text string) error {
		delivered = append(delivered, userID)
		return nil
	})

	assert.Equal(t, []int64{42}, delivered)
	assert.Equal(t, []models.ReminderLogStatus{models.ReminderLogSent}, reminders.logged)
	assert.Equal(t, float64(9), reminders.reminders[0].PillsRemaining)
	require.NotNil(t, reminders.reminders[0].LastReminded)
}

func TestProcessDueDosesRecordsFailedDelivery(t *testing.T) {
	svc, reminders, now := dueReminderFixture()

	svc.processDueDoses(context.Background(), now, func(userID int64, text string) error {
		return errors.New("bot was blocked by the user")
	})

	assert.Equal(t, []models.ReminderLogStatus{models.ReminderLogFailed}, reminders.logged)
	// A failed send consumes no pills but still advances last_reminded so
	// the next tick does not retry within the same minute.
	assert.Equal(t, float64(10), reminders.reminders[0].PillsRemaining)
	require.NotNil(t, reminders.reminders[0].LastReminded)
}
