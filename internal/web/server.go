// Package web exposes the tracker as a JSON API. Every handler is an
// explicit command against the tracker returning a snapshot of the result;
// nothing in this layer re-reads the store.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/skavili/revtrack/internal/domain"
	"github.com/skavili/revtrack/internal/export"
	"github.com/skavili/revtrack/internal/motivate"
	"github.com/skavili/revtrack/internal/schedule"
	"github.com/skavili/revtrack/internal/stats"
	"github.com/skavili/revtrack/internal/store"
	"github.com/skavili/revtrack/internal/tracker"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	tracker *tracker.Tracker
	router  *http.ServeMux
}

// NewServer creates and configures a new server.
func NewServer(t *tracker.Tracker) *Server {
	s := &Server{
		tracker: t,
		router:  http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("/state", s.handleGetState())
	s.router.HandleFunc("/chapters", s.handlePostChapter())
	s.router.HandleFunc("/chapters/", s.handleChapterByID())
	s.router.HandleFunc("/tasks", s.handlePostTask())
	s.router.HandleFunc("/tasks/", s.handleTaskByID())

	s.router.HandleFunc("/progress", s.handleGetProgress())
	s.router.HandleFunc("/productivity", s.handleGetProductivity())
	s.router.HandleFunc("/revisions", s.handleGetRevisions())
	s.router.HandleFunc("/overview", s.handleGetOverview())
	s.router.HandleFunc("/export/csv", s.handleExportCSV())
	s.router.HandleFunc("/motivation", s.handleGetMotivation())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var verr *tracker.ValidationError
	var perr *store.PersistenceError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.Is(err, tracker.ErrNotFound), errors.Is(err, tracker.ErrIndexOutOfRange):
		status = http.StatusNotFound
	case errors.As(err, &perr):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleGetState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.respondJSON(w, http.StatusOK, s.tracker.Snapshot())
	}
}

type addChapterRequest struct {
	Subject       string `json:"subject"`
	ChapterName   string `json:"chapter_name"`
	EntryDatetime string `json:"entry_datetime"`
	// Kinds selects reminder kinds (1=12h, 2=3d, 3=5d). Omitted means the
	// default full schedule; an explicit empty list means no reminders.
	Kinds []int `json:"kinds"`
}

func (s *Server) handlePostChapter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req addChapterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, &tracker.ValidationError{Field: "body", Message: "malformed JSON"})
			return
		}
		entry, err := domain.ParseTime(req.EntryDatetime)
		if err != nil {
			s.respondError(w, &tracker.ValidationError{Field: "entry_datetime", Message: "not a timestamp"})
			return
		}
		var reminders []domain.Reminder
		if req.Kinds == nil {
			reminders = schedule.Default(entry)
		} else {
			reminders = schedule.Custom(entry, req.Kinds)
		}
		chapter, err := s.tracker.AddChapter(req.Subject, req.ChapterName, entry, reminders)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusCreated, chapter)
	}
}

// handleChapterByID routes /chapters/{id} and its sub-resources.
func (s *Server) handleChapterByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/chapters/"), "/")
		if parts[0] == "" {
			http.NotFound(w, r)
			return
		}
		subject, index, err := s.tracker.FindChapter(parts[0])
		if err != nil {
			s.respondError(w, err)
			return
		}

		switch {
		case len(parts) == 1 && r.Method == http.MethodDelete:
			s.deleteChapter(w, subject, index)
		case len(parts) == 3 && parts[1] == "reminders" && r.Method == http.MethodPost:
			s.setReminderStatus(w, r, subject, index, parts[2])
		case len(parts) == 2 && parts[1] == "time-spent" && r.Method == http.MethodPost:
			s.updateTimeSpent(w, r, subject, index)
		case len(parts) == 2 && parts[1] == "exam" && r.Method == http.MethodPost:
			s.updateExamInfo(w, r, subject, index)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) deleteChapter(w http.ResponseWriter, subject string, index int) {
	if err := s.tracker.DeleteChapter(subject, index); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"deleted": subject})
}

func (s *Server) setReminderStatus(w http.ResponseWriter, r *http.Request, subject string, index int, reminderID string) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &tracker.ValidationError{Field: "body", Message: "malformed JSON"})
		return
	}
	reminders := s.tracker.Chapters()[subject][index].Reminders
	reminderIndex := -1
	for i, rem := range reminders {
		if strconv.Itoa(rem.ReminderID) == reminderID {
			reminderIndex = i
			break
		}
	}
	if reminderIndex < 0 {
		s.respondError(w, fmt.Errorf("reminder %s: %w", reminderID, tracker.ErrNotFound))
		return
	}
	if err := s.tracker.SetReminderStatus(subject, index, reminderIndex, req.Status); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *Server) updateTimeSpent(w http.ResponseWriter, r *http.Request, subject string, index int) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &tracker.ValidationError{Field: "body", Message: "malformed JSON"})
		return
	}
	if err := s.tracker.UpdateTimeSpent(subject, index, req.Minutes); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"time_spent": req.Minutes})
}

func (s *Server) updateExamInfo(w http.ResponseWriter, r *http.Request, subject string, index int) {
	var req struct {
		ExamsAppeared int    `json:"exams_appeared"`
		ExamStatus    string `json:"exam_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &tracker.ValidationError{Field: "body", Message: "malformed JSON"})
		return
	}
	if err := s.tracker.UpdateExamInfo(subject, index, req.ExamsAppeared, req.ExamStatus); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"exams_appeared": req.ExamsAppeared,
		"exam_status":    req.ExamStatus,
	})
}

func (s *Server) handlePostTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Task string `json:"task"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, &tracker.ValidationError{Field: "body", Message: "malformed JSON"})
			return
		}
		task, err := s.tracker.AddTask(req.Task)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusCreated, task)
	}
}

// handleTaskByID routes /tasks/{id} and /tasks/{id}/status.
func (s *Server) handleTaskByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/tasks/"), "/")
		if parts[0] == "" {
			http.NotFound(w, r)
			return
		}
		index, err := s.tracker.FindTask(parts[0])
		if err != nil {
			s.respondError(w, err)
			return
		}

		switch {
		case len(parts) == 1 && r.Method == http.MethodDelete:
			if err := s.tracker.DeleteTask(index); err != nil {
				s.respondError(w, err)
				return
			}
			s.respondJSON(w, http.StatusOK, map[string]string{"deleted": parts[0]})
		case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPost:
			var req struct {
				Status string `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				s.respondError(w, &tracker.ValidationError{Field: "body", Message: "malformed JSON"})
				return
			}
			if err := s.tracker.SetTaskStatus(index, req.Status); err != nil {
				s.respondError(w, err)
				return
			}
			s.respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleGetProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		subject := r.URL.Query().Get("subject")
		if !domain.IsSubject(subject) {
			s.respondError(w, &tracker.ValidationError{Field: "subject", Message: "unknown subject " + subject})
			return
		}
		progress := stats.SubjectProgress(s.tracker.Chapters(), subject)
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"subject":  subject,
			"progress": progress,
		})
	}
}

type productivityRow struct {
	Date         string  `json:"date"`
	Total        int     `json:"total"`
	Revised      int     `json:"revised"`
	Productivity float64 `json:"productivity"`
}

func (s *Server) handleGetProductivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		period := r.URL.Query().Get("period")
		start, ok := stats.PeriodStart(period, s.tracker.Now())
		if !ok {
			s.respondError(w, &tracker.ValidationError{Field: "period", Message: "must be week, month or all"})
			return
		}
		series := stats.ProductivitySeries(s.tracker.Chapters(), start)

		rows := make([]productivityRow, 0, len(series))
		for date, day := range series {
			rows = append(rows, productivityRow{
				Date:         date,
				Total:        day.Total,
				Revised:      day.Revised,
				Productivity: day.Productivity(),
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
		s.respondJSON(w, http.StatusOK, rows)
	}
}

func (s *Server) handleGetRevisions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		day := s.tracker.Now()
		if d := r.URL.Query().Get("date"); d != "" {
			parsed, err := time.Parse("2006-01-02", d)
			if err != nil {
				s.respondError(w, &tracker.ValidationError{Field: "date", Message: "expected YYYY-MM-DD"})
				return
			}
			day = parsed
		}
		entries := stats.RevisionsOn(s.tracker.Chapters(), day)
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"date":      day.Format("2006-01-02"),
			"total":     len(entries),
			"breakdown": stats.StatusBreakdown(entries),
			"entries":   entries,
		})
	}
}

func (s *Server) handleGetOverview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		entries := stats.RevisionsOn(s.tracker.Chapters(), s.tracker.Now())
		overview := stats.TodoOverview(s.tracker.Tasks(), entries)
		s.respondJSON(w, http.StatusOK, overview)
	}
}

func (s *Server) handleExportCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="revtrack_data.csv"`)
		if err := export.WriteCSV(w, s.tracker.Chapters()); err != nil {
			slog.Error("csv export failed", "error", err)
		}
	}
}

func (s *Server) handleGetMotivation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"quote": motivate.RandomQuote(),
			"tips":  motivate.Tips,
		})
	}
}
