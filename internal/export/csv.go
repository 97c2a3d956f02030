// Package export flattens the chapter collection into the tabular
// Subject x Chapter x Reminder download format.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/skavili/revtrack/internal/domain"
)

// timeLayout is the export timestamp format: DD/MM/YY hh:mm AM/PM.
const timeLayout = "02/01/06 03:04 PM"

var header = []string{
	"Subject", "Chapter Name", "Entry Date", "Reminder Time",
	"Status", "Exams Appeared", "Exam Status", "Time Spent",
}

// WriteCSV writes one row per reminder, joined with its chapter and subject
// context, preserving subject-then-chapter-then-reminder order. Timestamps
// that never parsed are written out as their raw stored value.
func WriteCSV(w io.Writer, c domain.Collection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, subj := range domain.Subjects {
		for _, chapter := range c[subj] {
			for _, r := range chapter.Reminders {
				row := []string{
					subj,
					chapter.ChapterName,
					chapter.EntryDatetime.Format(timeLayout),
					r.Time.Format(timeLayout),
					r.Status,
					strconv.Itoa(chapter.ExamsAppeared),
					chapter.ExamStatus,
					strconv.Itoa(chapter.TimeSpent),
				}
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("failed to write csv row: %w", err)
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
