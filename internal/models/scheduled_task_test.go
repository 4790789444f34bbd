package models

import (
	"testing"
	"time"
)

func TestNextDueOneTimeKeepsDue(t *testing.T) {
	due := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	task := ScheduledTask{TaskType: ScheduledTaskTypeOneTime, Due: due}

	if got := task.NextDue(); !got.Equal(due) {
		t.Errorf("NextDue = %v; want unchanged %v", got, due)
	}
}

func TestNextDueRecurringAdvancesPastNow(t *testing.T) {
	rule := "FREQ=MINUTELY;INTERVAL=15"
	task := ScheduledTask{
		TaskType:          ScheduledTaskTypeRecurring,
		Due:               time.Now().Add(-24 * time.Hour).UTC(),
		RecurringInterval: &rule,
	}

	got := task.NextDue()
	if !got.After(time.Now().Add(-time.Minute)) {
		t.Errorf("NextDue = %v; want an occurrence at or after now", got)
	}
	if got.Sub(time.Now()) > 15*time.Minute {
		t.Errorf("NextDue = %v; want within one interval of now", got)
	}
}

func TestNextDueBadRuleFallsBackToDue(t *testing.T) {
	rule := "not an rrule"
	due := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	task := ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due, RecurringInterval: &rule}

	if got := task.NextDue(); !got.Equal(due) {
		t.Errorf("NextDue = %v; want fallback to %v", got, due)
	}
}
