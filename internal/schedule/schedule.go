// Package schedule derives revision reminder sequences from a chapter's
// entry time using fixed spaced-repetition offsets.
package schedule

import (
	"time"

	"github.com/skavili/revtrack/internal/domain"
)

// Kind identifiers for the three reminder kinds.
const (
	KindTwelveHour = 1
	KindThreeDay   = 2
	KindFiveDay    = 3
)

// Kind is one reminder kind: a label and a fixed offset from the entry time.
type Kind struct {
	ID     int
	Label  string
	Offset time.Duration
}

// Kinds lists the reminder kinds in canonical order. Custom schedules keep
// this order regardless of how the caller selected kinds.
var Kinds = []Kind{
	{ID: KindTwelveHour, Label: "12 hour Reminder", Offset: 12 * time.Hour},
	{ID: KindThreeDay, Label: "3 days Reminder", Offset: 3 * 24 * time.Hour},
	{ID: KindFiveDay, Label: "5 days Reminder", Offset: 5 * 24 * time.Hour},
}

// Default returns the full three-reminder schedule for an entry time:
// +12h, +3d and +5d, all Pending.
func Default(entry domain.Time) []domain.Reminder {
	reminders := make([]domain.Reminder, 0, len(Kinds))
	for _, k := range Kinds {
		reminders = append(reminders, reminderFor(k, entry))
	}
	return reminders
}

// Custom returns a schedule containing only the selected kinds, in canonical
// order. An empty selection yields an empty schedule; a chapter may legally
// have zero reminders.
func Custom(entry domain.Time, selected []int) []domain.Reminder {
	want := make(map[int]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}
	reminders := []domain.Reminder{}
	for _, k := range Kinds {
		if want[k.ID] {
			reminders = append(reminders, reminderFor(k, entry))
		}
	}
	return reminders
}

func reminderFor(k Kind, entry domain.Time) domain.Reminder {
	return domain.Reminder{
		ReminderID: k.ID,
		Type:       k.Label,
		Time:       entry.Add(k.Offset),
		Status:     domain.StatusPending,
	}
}
