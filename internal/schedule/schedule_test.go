package schedule

import (
	"testing"
	"time"

	"github.com/skavili/revtrack/internal/domain"
)

func TestDefault(t *testing.T) {
	entry := domain.NewTime(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	reminders := Default(entry)

	if len(reminders) != 3 {
		t.Fatalf("Expected 3 reminders, but got %d", len(reminders))
	}

	expected := []struct {
		id    int
		label string
		at    time.Time
	}{
		{1, "12 hour Reminder", time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)},
		{2, "3 days Reminder", time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)},
		{3, "5 days Reminder", time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)},
	}
	for i, want := range expected {
		r := reminders[i]
		if r.ReminderID != want.id {
			t.Errorf("Expected reminder %d to have id %d, but got %d", i, want.id, r.ReminderID)
		}
		if r.Type != want.label {
			t.Errorf("Expected reminder %d type %q, but got %q", i, want.label, r.Type)
		}
		if !r.Time.Std().Equal(want.at) {
			t.Errorf("Expected reminder %d at %v, but got %v", i, want.at, r.Time.Std())
		}
		if r.Status != domain.StatusPending {
			t.Errorf("Expected reminder %d to start Pending, but got %q", i, r.Status)
		}
	}
}

func TestCustom(t *testing.T) {
	entry := domain.NewTime(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	t.Run("keeps canonical order regardless of selection order", func(t *testing.T) {
		reminders := Custom(entry, []int{KindFiveDay, KindTwelveHour})
		if len(reminders) != 2 {
			t.Fatalf("Expected 2 reminders, but got %d", len(reminders))
		}
		if reminders[0].ReminderID != KindTwelveHour {
			t.Errorf("Expected the 12 hour reminder first, but got id %d", reminders[0].ReminderID)
		}
		if reminders[1].ReminderID != KindFiveDay {
			t.Errorf("Expected the 5 days reminder second, but got id %d", reminders[1].ReminderID)
		}
	})

	t.Run("empty selection yields empty schedule", func(t *testing.T) {
		reminders := Custom(entry, nil)
		if len(reminders) != 0 {
			t.Errorf("Expected an empty schedule, but got %d reminders", len(reminders))
		}
	})

	t.Run("unknown kinds are ignored", func(t *testing.T) {
		reminders := Custom(entry, []int{99, KindThreeDay})
		if len(reminders) != 1 || reminders[0].ReminderID != KindThreeDay {
			t.Errorf("Expected only the 3 days reminder, but got %v", reminders)
		}
	})
}
