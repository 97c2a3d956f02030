package export

import (
	"strings"
	"testing"
	"time"

	"github.com/skavili/revtrack/internal/domain"
	"github.com/skavili/revtrack/internal/schedule"
)

func TestWriteCSV(t *testing.T) {
	entry := domain.NewTime(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	c := domain.NewCollection()
	c["Botany"] = append(c["Botany"], domain.Chapter{
		ChapterName:   "Structure of Atom",
		EntryDatetime: entry,
		Reminders:     schedule.Default(entry),
		ExamsAppeared: 1,
		ExamStatus:    "Scored 70%",
		TimeSpent:     90,
	})

	var sb strings.Builder
	if err := WriteCSV(&sb, c); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected a header and 3 rows, but got %d lines", len(lines))
	}
	if lines[0] != "Subject,Chapter Name,Entry Date,Reminder Time,Status,Exams Appeared,Exam Status,Time Spent" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	expectedFirst := "Botany,Structure of Atom,01/01/24 10:00 AM,01/01/24 10:00 PM,Pending,1,Scored 70%,90"
	if lines[1] != expectedFirst {
		t.Errorf("Expected first row %q, but got %q", expectedFirst, lines[1])
	}
	if !strings.Contains(lines[2], "04/01/24 10:00 AM") {
		t.Errorf("Expected the 3 days reminder on 04/01/24, but got %q", lines[2])
	}
}

func TestWriteCSVEmptyCollection(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, domain.NewCollection()); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("Expected only the header row, but got %d lines", len(lines))
	}
}
