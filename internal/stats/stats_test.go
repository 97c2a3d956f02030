package stats

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/skavili/revtrack/internal/domain"
	"github.com/skavili/revtrack/internal/schedule"
)

func collectionWithChapter(t *testing.T, subject, name string, entry time.Time) domain.Collection {
	t.Helper()
	c := domain.NewCollection()
	et := domain.NewTime(entry)
	c[subject] = append(c[subject], domain.Chapter{
		ChapterName:   name,
		EntryDatetime: et,
		Reminders:     schedule.Default(et),
		ExamStatus:    domain.DefaultExamStatus,
	})
	return c
}

func TestSubjectProgress(t *testing.T) {
	entry := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("zero when subject has no chapters", func(t *testing.T) {
		c := domain.NewCollection()
		if got := SubjectProgress(c, "Botany"); got != 0 {
			t.Errorf("Expected 0, but got %.2f", got)
		}
	})

	t.Run("zero when chapters have no reminders", func(t *testing.T) {
		c := domain.NewCollection()
		c["Botany"] = append(c["Botany"], domain.Chapter{ChapterName: "Cell"})
		if got := SubjectProgress(c, "Botany"); got != 0 {
			t.Errorf("Expected 0, but got %.2f", got)
		}
	})

	t.Run("one of three revised is about 33.33", func(t *testing.T) {
		c := collectionWithChapter(t, "Botany", "Structure of Atom", entry)
		c["Botany"][0].Reminders[0].Status = domain.StatusRevised
		got := SubjectProgress(c, "Botany")
		if math.Abs(got-100.0/3.0) > 0.01 {
			t.Errorf("Expected around 33.33, but got %.2f", got)
		}
	})

	t.Run("hundred when all revised", func(t *testing.T) {
		c := collectionWithChapter(t, "Botany", "Structure of Atom", entry)
		for i := range c["Botany"][0].Reminders {
			c["Botany"][0].Reminders[i].Status = domain.StatusRevised
		}
		if got := SubjectProgress(c, "Botany"); got != 100 {
			t.Errorf("Expected 100, but got %.2f", got)
		}
	})
}

func TestProductivitySeries(t *testing.T) {
	entry := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c := collectionWithChapter(t, "Physics", "Kinematics", entry)
	c["Physics"][0].Reminders[1].Status = domain.StatusRevised

	t.Run("buckets every reminder without a start date", func(t *testing.T) {
		series := ProductivitySeries(c, time.Time{})
		if len(series) != 3 {
			t.Fatalf("Expected 3 dates, but got %d: %v", len(series), series)
		}
		day := series["2024-01-04"]
		if day.Total != 1 || day.Revised != 1 {
			t.Errorf("Expected 2024-01-04 to be {1 1}, but got %+v", day)
		}
		if p := day.Productivity(); p != 100 {
			t.Errorf("Expected productivity 100, but got %.2f", p)
		}
	})

	t.Run("excludes reminders dated before the start", func(t *testing.T) {
		start := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
		series := ProductivitySeries(c, start)
		if len(series) != 2 {
			t.Fatalf("Expected 2 dates, but got %d: %v", len(series), series)
		}
		if _, ok := series["2024-01-01"]; ok {
			t.Error("Expected 2024-01-01 to be excluded")
		}
	})

	t.Run("skips reminders with unparsable times", func(t *testing.T) {
		broken := domain.NewCollection()
		var bad domain.Time
		if err := json.Unmarshal([]byte(`"someday"`), &bad); err != nil {
			t.Fatalf("Unmarshal returned error: %v", err)
		}
		broken["Botany"] = append(broken["Botany"], domain.Chapter{
			ChapterName: "Broken",
			Reminders:   []domain.Reminder{{ReminderID: 1, Time: bad, Status: domain.StatusPending}},
		})
		if series := ProductivitySeries(broken, time.Time{}); len(series) != 0 {
			t.Errorf("Expected an empty series, but got %v", series)
		}
	})
}

func TestPeriodStart(t *testing.T) {
	today := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	start, ok := PeriodStart(PeriodWeek, today)
	if !ok || !start.Equal(time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected last week to start 2024-03-24, but got %v (ok=%v)", start, ok)
	}
	start, ok = PeriodStart(PeriodMonth, today)
	if !ok || !start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected last month to start 2024-03-01, but got %v (ok=%v)", start, ok)
	}
	if start, ok = PeriodStart(PeriodAll, today); !ok || !start.IsZero() {
		t.Errorf("Expected all-time to have a zero start, but got %v (ok=%v)", start, ok)
	}
	if _, ok = PeriodStart("fortnight", today); ok {
		t.Error("Expected an unknown period to be rejected")
	}
}

func TestRevisionsOn(t *testing.T) {
	entry := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c := collectionWithChapter(t, "Botany", "Structure of Atom", entry)

	entries := RevisionsOn(c, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC))
	if len(entries) != 1 {
		t.Fatalf("Expected exactly 1 entry, but got %d", len(entries))
	}
	e := entries[0]
	if e.Subject != "Botany" || e.ChapterIndex != 0 || e.ReminderIndex != 1 {
		t.Errorf("Expected the 3 days reminder of Botany[0], but got %+v", e)
	}
	if e.Reminder.Type != "3 days Reminder" {
		t.Errorf("Expected type '3 days Reminder', but got %q", e.Reminder.Type)
	}

	if entries := RevisionsOn(c, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)); len(entries) != 0 {
		t.Errorf("Expected no entries on a quiet date, but got %d", len(entries))
	}
}

func TestRetainTasks(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{Task: "old", Timestamp: domain.NewTime(now.Add(-25 * time.Hour))},
		{Task: "fresh", Timestamp: domain.NewTime(now.Add(-1 * time.Hour))},
	}
	kept := RetainTasks(tasks, now, 24*time.Hour)
	if len(kept) != 1 {
		t.Fatalf("Expected 1 task kept, but got %d", len(kept))
	}
	if kept[0].Task != "fresh" {
		t.Errorf("Expected the fresh task to survive, but got %q", kept[0].Task)
	}
}

func TestTodoOverview(t *testing.T) {
	tasks := []domain.Task{
		{Task: "a", Status: domain.StatusCompleted},
		{Task: "b", Status: domain.StatusPending},
	}
	entries := []RevisionEntry{
		{Reminder: domain.Reminder{Status: domain.StatusRevised}},
		{Reminder: domain.Reminder{Status: domain.StatusPending}},
		{Reminder: domain.Reminder{Status: domain.StatusPending}},
	}
	o := TodoOverview(tasks, entries)
	if o.Total != 5 || o.Completed != 2 || o.Pending != 3 {
		t.Errorf("Expected {completed:2 pending:3 total:5}, but got %+v", o)
	}
}
