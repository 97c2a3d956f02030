// Package domain defines the study-tracker data model and its wire codec.
package domain

// Subjects is the fixed set of study categories. A subject is a partition
// key into the chapter collection, not a stored entity.
var Subjects = []string{"Botany", "Zoology", "Physics", "Chemistry"}

// IsSubject reports whether s is one of the fixed subjects.
func IsSubject(s string) bool {
	for _, subj := range Subjects {
		if s == subj {
			return true
		}
	}
	return false
}

// Reminder statuses.
const (
	StatusPending = "Pending"
	StatusRevised = "Revised"
)

// Task statuses. Tasks share StatusPending with reminders.
const (
	StatusCompleted = "Completed"
)

// DefaultExamStatus is the exam status a chapter starts with.
const DefaultExamStatus = "Not Appeared"

// Reminder is a scheduled revision point for a chapter. ReminderID is only
// unique within its chapter (1..3 for the default kinds).
type Reminder struct {
	ReminderID int    `json:"reminder_id"`
	Type       string `json:"type"`
	Time       Time   `json:"time"`
	Status     string `json:"status"`
}

// Chapter is a unit of study material within a subject. ID is a generated
// stable identifier; ChapterName is what the user sees and is not required
// to be unique.
type Chapter struct {
	ID            string     `json:"id,omitempty"`
	ChapterName   string     `json:"chapter_name"`
	EntryDatetime Time       `json:"entry_datetime"`
	Reminders     []Reminder `json:"reminders"`
	ExamsAppeared int        `json:"exams_appeared"`
	ExamStatus    string     `json:"exam_status"`
	TimeSpent     int        `json:"time_spent"`
}

// Clone returns a deep copy of the chapter.
func (c Chapter) Clone() Chapter {
	out := c
	out.Reminders = append([]Reminder(nil), c.Reminders...)
	return out
}

// Task is a standalone to-do item, not linked to any subject or chapter.
// Timestamp is the creation time, used only for retention filtering.
type Task struct {
	ID        string `json:"id,omitempty"`
	Task      string `json:"task"`
	Status    string `json:"status"`
	Timestamp Time   `json:"timestamp"`
}

// Collection maps each subject to its ordered chapter sequence.
type Collection map[string][]Chapter

// NewCollection returns a collection with an empty chapter list per subject.
func NewCollection() Collection {
	c := make(Collection, len(Subjects))
	for _, subj := range Subjects {
		c[subj] = []Chapter{}
	}
	return c
}

// Normalize ensures every fixed subject has a (possibly empty) chapter list,
// so loaded data missing a subject key still serves all views.
func (c Collection) Normalize() {
	for _, subj := range Subjects {
		if c[subj] == nil {
			c[subj] = []Chapter{}
		}
	}
}

// Clone returns a deep copy of the collection. Mutation operations work on a
// clone and commit it only after the write-through succeeds.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for subj, chapters := range c {
		cloned := make([]Chapter, len(chapters))
		for i, ch := range chapters {
			cloned[i] = ch.Clone()
		}
		out[subj] = cloned
	}
	return out
}

// CloneTasks returns a copy of a task sequence.
func CloneTasks(tasks []Task) []Task {
	return append([]Task(nil), tasks...)
}
