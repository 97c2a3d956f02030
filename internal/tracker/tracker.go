// Package tracker owns the application state: the chapter collection and
// the to-do list, every mutation against them, and the write-through to the
// document store. Handlers hold a *Tracker instead of sharing global state;
// a mutation commits to memory only after the store accepted the write, so
// a failed save leaves the state unchanged.
package tracker

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/skavili/revtrack/internal/domain"
	"github.com/skavili/revtrack/internal/stats"
)

// DefaultRetention is how long a to-do task stays in the working set.
const DefaultRetention = 24 * time.Hour

// Store is the persistence surface the tracker writes through to.
type Store interface {
	LoadChapters() (domain.Collection, error)
	SaveChapters(domain.Collection) error
	LoadTasks() ([]domain.Task, error)
	SaveTasks([]domain.Task) error
}

// Options tunes a Tracker. The zero value selects time.Now and the default
// task retention window.
type Options struct {
	Now       func() time.Time
	Retention time.Duration
}

// Tracker is the state-management service. A single mutex serializes
// mutations, preserving the one-action-at-a-time model the data contract
// assumes.
type Tracker struct {
	mu       sync.Mutex
	store    Store
	validate *validator.Validate
	now      func() time.Time

	chapters domain.Collection
	tasks    []domain.Task
}

// Snapshot is a complete copy of the tracker state.
type Snapshot struct {
	Chapters domain.Collection `json:"subject_chapters_data"`
	Tasks    []domain.Task     `json:"todo_data"`
}

type chapterInput struct {
	Subject     string `validate:"required,subject"`
	ChapterName string `validate:"required"`
}

type taskInput struct {
	Task string `validate:"required"`
}

// Load reads both collections from the store and applies the to-do
// retention filter. Tasks that age out are absent from the working set from
// here on; they are dropped from the store on the next task save.
func Load(st Store, opts Options) (*Tracker, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Retention == 0 {
		opts.Retention = DefaultRetention
	}

	chapters, err := st.LoadChapters()
	if err != nil {
		return nil, err
	}
	warnDecodeErrors(chapters)

	tasks, err := st.LoadTasks()
	if err != nil {
		return nil, err
	}
	tasks = stats.RetainTasks(tasks, opts.Now(), opts.Retention)

	v := validator.New()
	if err := v.RegisterValidation("subject", func(fl validator.FieldLevel) bool {
		return domain.IsSubject(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	return &Tracker{
		store:    st,
		validate: v,
		now:      opts.Now,
		chapters: chapters,
		tasks:    tasks,
	}, nil
}

// warnDecodeErrors surfaces unparsable stored timestamps once, at load
// time. The raw values stay on the records and round-trip unchanged.
func warnDecodeErrors(c domain.Collection) {
	for _, subj := range domain.Subjects {
		for _, chapter := range c[subj] {
			if err := chapter.EntryDatetime.Err(); err != nil {
				slog.Warn("stored entry time did not parse",
					"subject", subj, "chapter", chapter.ChapterName, "error", err)
			}
			for _, r := range chapter.Reminders {
				if err := r.Time.Err(); err != nil {
					slog.Warn("stored reminder time did not parse",
						"subject", subj, "chapter", chapter.ChapterName,
						"reminder_id", r.ReminderID, "error", err)
				}
			}
		}
	}
}

// Snapshot returns a deep copy of the full state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Chapters: t.chapters.Clone(),
		Tasks:    domain.CloneTasks(t.tasks),
	}
}

// Chapters returns a deep copy of the chapter collection.
func (t *Tracker) Chapters() domain.Collection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.chapters.Clone()
}

// Tasks returns a copy of the to-do list.
func (t *Tracker) Tasks() []domain.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return domain.CloneTasks(t.tasks)
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// AddChapter appends a new chapter with counters zeroed and the given
// reminder schedule, then writes the collection through. The schedule may
// be empty. Chapter name uniqueness is not enforced; chapters are told
// apart by their generated id.
func (t *Tracker) AddChapter(subject, name string, entry domain.Time, reminders []domain.Reminder) (domain.Chapter, error) {
	if err := t.validateInput(chapterInput{Subject: subject, ChapterName: name}); err != nil {
		return domain.Chapter{}, err
	}

	chapter := domain.Chapter{
		ID:            uuid.NewString(),
		ChapterName:   name,
		EntryDatetime: entry,
		Reminders:     append([]domain.Reminder{}, reminders...),
		ExamsAppeared: 0,
		ExamStatus:    domain.DefaultExamStatus,
		TimeSpent:     0,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.chapters.Clone()
	next[subject] = append(next[subject], chapter)
	if err := t.commitChapters(next); err != nil {
		return domain.Chapter{}, err
	}
	slog.Info("chapter added", "subject", subject, "chapter", name, "reminders", len(reminders))
	return chapter.Clone(), nil
}

// DeleteChapter removes a chapter by position within its subject.
func (t *Tracker) DeleteChapter(subject string, index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.chapterAt(t.chapters, subject, index); err != nil {
		return err
	}
	next := t.chapters.Clone()
	next[subject] = append(next[subject][:index], next[subject][index+1:]...)
	if err := t.commitChapters(next); err != nil {
		return err
	}
	slog.Info("chapter deleted", "subject", subject, "index", index)
	return nil
}

// SetReminderStatus sets one reminder's status. Setting the status it
// already has is a no-op and skips the write-through.
func (t *Tracker) SetReminderStatus(subject string, chapterIndex, reminderIndex int, status string) error {
	if status != domain.StatusPending && status != domain.StatusRevised {
		return &ValidationError{Field: "status", Message: "must be Pending or Revised"}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	chapter, err := t.chapterAt(t.chapters, subject, chapterIndex)
	if err != nil {
		return err
	}
	if reminderIndex < 0 || reminderIndex >= len(chapter.Reminders) {
		return fmt.Errorf("reminder %d of %s[%d]: %w", reminderIndex, subject, chapterIndex, ErrIndexOutOfRange)
	}
	if chapter.Reminders[reminderIndex].Status == status {
		return nil
	}
	next := t.chapters.Clone()
	next[subject][chapterIndex].Reminders[reminderIndex].Status = status
	return t.commitChapters(next)
}

// UpdateTimeSpent replaces a chapter's studied-minutes counter. The value
// is overwritten, not accumulated.
func (t *Tracker) UpdateTimeSpent(subject string, chapterIndex, minutes int) error {
	if minutes < 0 {
		return &ValidationError{Field: "time_spent", Message: "must not be negative"}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.chapterAt(t.chapters, subject, chapterIndex); err != nil {
		return err
	}
	next := t.chapters.Clone()
	next[subject][chapterIndex].TimeSpent = minutes
	return t.commitChapters(next)
}

// UpdateExamInfo replaces a chapter's exam counter and status together.
func (t *Tracker) UpdateExamInfo(subject string, chapterIndex, examsAppeared int, examStatus string) error {
	if examsAppeared < 0 {
		return &ValidationError{Field: "exams_appeared", Message: "must not be negative"}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.chapterAt(t.chapters, subject, chapterIndex); err != nil {
		return err
	}
	next := t.chapters.Clone()
	next[subject][chapterIndex].ExamsAppeared = examsAppeared
	next[subject][chapterIndex].ExamStatus = examStatus
	return t.commitChapters(next)
}

// AddTask appends a new to-do task stamped with the current time.
func (t *Tracker) AddTask(text string) (domain.Task, error) {
	if err := t.validateInput(taskInput{Task: text}); err != nil {
		return domain.Task{}, err
	}

	task := domain.Task{
		ID:        uuid.NewString(),
		Task:      text,
		Status:    domain.StatusPending,
		Timestamp: domain.NewTime(t.now()),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	next := append(domain.CloneTasks(t.tasks), task)
	if err := t.commitTasks(next); err != nil {
		return domain.Task{}, err
	}
	slog.Info("task added", "task", text)
	return task, nil
}

// SetTaskStatus sets one task's status by position.
func (t *Tracker) SetTaskStatus(index int, status string) error {
	if status != domain.StatusPending && status != domain.StatusCompleted {
		return &ValidationError{Field: "status", Message: "must be Pending or Completed"}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.tasks) {
		return fmt.Errorf("task %d: %w", index, ErrIndexOutOfRange)
	}
	if t.tasks[index].Status == status {
		return nil
	}
	next := domain.CloneTasks(t.tasks)
	next[index].Status = status
	return t.commitTasks(next)
}

// DeleteTask removes a task by position.
func (t *Tracker) DeleteTask(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.tasks) {
		return fmt.Errorf("task %d: %w", index, ErrIndexOutOfRange)
	}
	next := domain.CloneTasks(t.tasks)
	next = append(next[:index], next[index+1:]...)
	return t.commitTasks(next)
}

// FindChapter resolves a chapter id to its subject and position. Stable ids
// keep references valid across deletions that shift indices.
func (t *Tracker) FindChapter(id string) (string, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, subj := range domain.Subjects {
		for i, chapter := range t.chapters[subj] {
			if chapter.ID == id {
				return subj, i, nil
			}
		}
	}
	return "", 0, fmt.Errorf("chapter %s: %w", id, ErrNotFound)
}

// FindTask resolves a task id to its position.
func (t *Tracker) FindTask(id string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, task := range t.tasks {
		if task.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("task %s: %w", id, ErrNotFound)
}

func (t *Tracker) validateInput(in any) error {
	err := t.validate.Struct(in)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return &ValidationError{Field: errs[0].Field(), Message: "failed " + errs[0].Tag() + " check"}
	}
	return err
}

// chapterAt bounds-checks a subject/index pair against the live collection.
func (t *Tracker) chapterAt(c domain.Collection, subject string, index int) (domain.Chapter, error) {
	if !domain.IsSubject(subject) {
		return domain.Chapter{}, &ValidationError{Field: "subject", Message: "unknown subject " + subject}
	}
	chapters := c[subject]
	if index < 0 || index >= len(chapters) {
		return domain.Chapter{}, fmt.Errorf("chapter %d of %s: %w", index, subject, ErrIndexOutOfRange)
	}
	return chapters[index], nil
}

// commitChapters writes the collection through and adopts it on success.
func (t *Tracker) commitChapters(next domain.Collection) error {
	if err := t.store.SaveChapters(next); err != nil {
		return err
	}
	t.chapters = next
	return nil
}

// commitTasks writes the to-do list through and adopts it on success.
func (t *Tracker) commitTasks(next []domain.Task) error {
	if err := t.store.SaveTasks(next); err != nil {
		return err
	}
	t.tasks = next
	return nil
}
