package store

import (
	"encoding/json"
	"fmt"

	"github.com/skavili/revtrack/internal/domain"
)

// Top-level collection paths.
const (
	PathChapters = "subject_chapters_data"
	PathTodo     = "todo_data"
)

// PersistenceError is returned when a load or save against the document
// store fails. The in-memory state is left unchanged when a save fails.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// LoadChapters loads the chapter collection, returning one empty chapter
// list per fixed subject when nothing is stored yet.
func (db *DB) LoadChapters() (domain.Collection, error) {
	body, ok, err := db.Get(PathChapters)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: PathChapters, Err: err}
	}
	if !ok {
		return domain.NewCollection(), nil
	}
	var c domain.Collection
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, &PersistenceError{Op: "load", Path: PathChapters, Err: err}
	}
	c.Normalize()
	return c, nil
}

// SaveChapters overwrites the chapter collection as a whole.
func (db *DB) SaveChapters(c domain.Collection) error {
	body, err := json.Marshal(c)
	if err != nil {
		return &PersistenceError{Op: "save", Path: PathChapters, Err: err}
	}
	if err := db.Set(PathChapters, body); err != nil {
		return &PersistenceError{Op: "save", Path: PathChapters, Err: err}
	}
	return nil
}

// LoadTasks loads the to-do collection, returning an empty sequence when
// nothing is stored yet. Retention filtering happens in the tracker, not
// here; stale tasks stay in the store until the next save.
func (db *DB) LoadTasks() ([]domain.Task, error) {
	body, ok, err := db.Get(PathTodo)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: PathTodo, Err: err}
	}
	if !ok {
		return []domain.Task{}, nil
	}
	var tasks []domain.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, &PersistenceError{Op: "load", Path: PathTodo, Err: err}
	}
	return tasks, nil
}

// SaveTasks overwrites the to-do collection as a whole.
func (db *DB) SaveTasks(tasks []domain.Task) error {
	body, err := json.Marshal(tasks)
	if err != nil {
		return &PersistenceError{Op: "save", Path: PathTodo, Err: err}
	}
	if err := db.Set(PathTodo, body); err != nil {
		return &PersistenceError{Op: "save", Path: PathTodo, Err: err}
	}
	return nil
}
