// Package stats computes derived figures over the in-memory collection:
// per-subject completion, per-date productivity, per-day revision listings
// and to-do breakdowns. All functions are pure; the caller supplies the
// snapshot and the clock.
package stats

import (
	"time"

	"github.com/skavili/revtrack/internal/domain"
)

// DayCount is the productivity bucket for one calendar date.
type DayCount struct {
	Total   int `json:"total"`
	Revised int `json:"revised"`
}

// Productivity returns the revised share of a bucket as a percentage.
func (d DayCount) Productivity() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Revised) / float64(d.Total) * 100
}

// RevisionEntry locates one reminder within the collection, preserving the
// subject-then-chapter-then-reminder order it was found in.
type RevisionEntry struct {
	Subject       string          `json:"subject"`
	ChapterIndex  int             `json:"chapter_index"`
	ChapterID     string          `json:"chapter_id,omitempty"`
	ChapterName   string          `json:"chapter_name"`
	ReminderIndex int             `json:"reminder_index"`
	Reminder      domain.Reminder `json:"reminder"`
}

// Breakdown counts reminder statuses within one reminder set.
type Breakdown struct {
	Revised int `json:"revised"`
	Pending int `json:"pending"`
}

// Overview merges manual task counts with a day's reminder counts.
type Overview struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Total     int `json:"total"`
}

// SubjectProgress returns 100 * revised / total across all reminders in the
// subject, and 0 when the subject has no reminders at all.
func SubjectProgress(c domain.Collection, subject string) float64 {
	var total, revised int
	for _, chapter := range c[subject] {
		for _, r := range chapter.Reminders {
			total++
			if r.Status == domain.StatusRevised {
				revised++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(revised) / float64(total) * 100
}

// ProductivitySeries buckets every reminder by the calendar date of its
// time, counting totals and revised. Reminders dated strictly before start
// are excluded; pass a zero start to include everything. Reminders whose
// timestamp never parsed cannot be bucketed and are skipped.
func ProductivitySeries(c domain.Collection, start time.Time) map[string]DayCount {
	series := make(map[string]DayCount)
	startKey := ""
	if !start.IsZero() {
		startKey = start.Format("2006-01-02")
	}
	for _, subj := range domain.Subjects {
		for _, chapter := range c[subj] {
			for _, r := range chapter.Reminders {
				if !r.Time.Valid() {
					continue
				}
				key := r.Time.DateKey()
				if startKey != "" && key < startKey {
					continue
				}
				bucket := series[key]
				bucket.Total++
				if r.Status == domain.StatusRevised {
					bucket.Revised++
				}
				series[key] = bucket
			}
		}
	}
	return series
}

// Tracking periods for the productivity view.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// PeriodStart maps a tracking period to the series start date: the last 7
// or 30 days, or the zero time for all-time.
func PeriodStart(period string, today time.Time) (time.Time, bool) {
	switch period {
	case PeriodWeek:
		return today.AddDate(0, 0, -7), true
	case PeriodMonth:
		return today.AddDate(0, 0, -30), true
	case PeriodAll, "":
		return time.Time{}, true
	}
	return time.Time{}, false
}

// RevisionsOn lists every reminder across the collection whose time falls on
// the given calendar date, in subject-then-chapter-then-reminder order.
func RevisionsOn(c domain.Collection, day time.Time) []RevisionEntry {
	var entries []RevisionEntry
	for _, subj := range domain.Subjects {
		for ci, chapter := range c[subj] {
			for ri, r := range chapter.Reminders {
				if !r.Time.Valid() || !r.Time.SameDate(day) {
					continue
				}
				entries = append(entries, RevisionEntry{
					Subject:       subj,
					ChapterIndex:  ci,
					ChapterID:     chapter.ID,
					ChapterName:   chapter.ChapterName,
					ReminderIndex: ri,
					Reminder:      r,
				})
			}
		}
	}
	return entries
}

// StatusBreakdown counts statuses among a reminder set.
func StatusBreakdown(entries []RevisionEntry) Breakdown {
	var b Breakdown
	for _, e := range entries {
		if e.Reminder.Status == domain.StatusRevised {
			b.Revised++
		} else {
			b.Pending++
		}
	}
	return b
}

// RetainTasks keeps only tasks younger than maxAge at the given instant.
// Tasks whose creation timestamp never parsed cannot be aged and are
// dropped with the expired ones.
func RetainTasks(tasks []domain.Task, now time.Time, maxAge time.Duration) []domain.Task {
	kept := []domain.Task{}
	for _, task := range tasks {
		if !task.Timestamp.Valid() {
			continue
		}
		if now.Sub(task.Timestamp.Std()) < maxAge {
			kept = append(kept, task)
		}
	}
	return kept
}

// TodoOverview merges manual task counts with the day's reminder counts
// into a single completed/pending breakdown.
func TodoOverview(tasks []domain.Task, entries []RevisionEntry) Overview {
	var o Overview
	for _, task := range tasks {
		o.Total++
		if task.Status == domain.StatusCompleted {
			o.Completed++
		}
	}
	b := StatusBreakdown(entries)
	o.Total += b.Revised + b.Pending
	o.Completed += b.Revised
	o.Pending = o.Total - o.Completed
	return o
}
