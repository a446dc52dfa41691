package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/soumil/jeeprep/internal/catalog"
	"github.com/soumil/jeeprep/internal/domain"
	"github.com/soumil/jeeprep/internal/gate"
	"github.com/soumil/jeeprep/internal/identity"
	"github.com/soumil/jeeprep/internal/mocktest"
	"github.com/soumil/jeeprep/internal/progress"
)

const maxSubmitBody = 16 << 10

type chapterEntry struct {
	Code      string     `json:"code"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Available bool       `json:"available"`
	Progress  int        `json:"progress"`
	Solved    bool       `json:"solved"`
	TestScore int        `json:"test_score"`
	State     gate.State `json:"state"`
}

type bookEntry struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Author   string         `json:"author"`
	Chapters []chapterEntry `json:"chapters"`
}

type submitRequest struct {
	AttemptID string            `json:"attempt_id" validate:"required,uuid"`
	Answers   map[string]string `json:"answers" validate:"required,dive,keys,required,endkeys,oneof=A B C D"`
}

// ListBooks returns both books with the caller's per-chapter state.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	g := h.gateFor(r)

	books := h.catalog.Books()
	out := make([]bookEntry, 0, len(books))
	for _, b := range books {
		entry := bookEntry{ID: b.ID, Title: b.Title, Author: b.Author}
		for _, ch := range b.Chapters {
			v, err := g.Chapter(ch.Code)
			if err != nil {
				continue
			}
			_, available := catalog.Resolve(ch.URL)
			entry.Chapters = append(entry.Chapters, chapterEntry{
				Code:      ch.Code,
				Number:    ch.Number,
				Title:     ch.Title,
				Available: available,
				Progress:  v.Progress,
				Solved:    v.Solved,
				TestScore: v.TestScore,
				State:     v.State,
			})
		}
		out = append(out, entry)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"books":        out,
		"all_unlocked": g.AllUnlocked(),
	})
}

// GetProgress returns the caller's chapter snapshot and global unlock flag.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	g := h.gateFor(r)
	JSON(w, http.StatusOK, map[string]interface{}{
		"chapters":       g.Snapshot(),
		"all_unlocked":   g.AllUnlocked(),
		"pass_threshold": progress.PassThreshold,
	})
}

// OpenChapter marks a chapter solved, counts the visit, and returns its link.
// Placeholder links are a no-op for navigation only.
func (h *Handler) OpenChapter(w http.ResponseWriter, r *http.Request) {
	ch, book, ok := h.lookup(w, r)
	if !ok {
		return
	}

	g := h.gateFor(r)
	changed, err := g.Open(ch.Code)
	if err != nil {
		h.gateError(w, err)
		return
	}
	view, _ := g.Chapter(ch.Code)

	helped := h.counter.Bump(r.Context(), 1)
	if h.metrics != nil {
		h.metrics.ChapterOpened(book.ID)
	}

	slog.Info("Chapter opened",
		"user_id", identity.UserIDFromContext(r.Context()),
		"chapter", ch.Code,
		"first_open", changed)

	resp := map[string]interface{}{
		"chapter":         view,
		"students_helped": helped,
		"navigate":        false,
	}
	if url, ok := catalog.Resolve(ch.URL); ok {
		resp["url"] = url
		resp["navigate"] = true
	}
	JSON(w, http.StatusOK, resp)
}

// StartTest issues a shuffled mock test for a solved chapter.
func (h *Handler) StartTest(w http.ResponseWriter, r *http.Request) {
	ch, _, ok := h.lookup(w, r)
	if !ok {
		return
	}

	state, err := h.gateFor(r).State(ch.Code)
	if err != nil {
		h.gateError(w, err)
		return
	}
	if state == gate.Locked {
		h.gateError(w, gate.ErrChapterLocked)
		return
	}

	attempt, err := h.tests.Start(ch.Code)
	if err != nil {
		slog.Error("Failed to start mock test", "error", err, "chapter", ch.Code)
		Error(w, http.StatusInternalServerError, "test_unavailable")
		return
	}
	JSON(w, http.StatusOK, attempt)
}

// SubmitTest grades an attempt and routes the score into the chapter gate.
func (h *Handler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	ch, _, ok := h.lookup(w, r)
	if !ok {
		return
	}

	g := h.gateFor(r)
	// The locked notice wins over body errors, and a locked submission never
	// reaches grading, so the attempt survives.
	state, err := g.State(ch.Code)
	if err != nil {
		h.gateError(w, err)
		return
	}
	if state == gate.Locked {
		h.gateError(w, gate.ErrChapterLocked)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBody)).Decode(&req); err != nil {
		ErrorWithDetail(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		ErrorWithDetail(w, http.StatusBadRequest, "invalid_submission", validationMessage(err))
		return
	}

	result, err := h.tests.Grade(req.AttemptID, ch.Code, req.Answers)
	switch {
	case errors.Is(err, mocktest.ErrAttemptNotFound):
		ErrorWithDetail(w, http.StatusNotFound, "attempt_not_found", "start a new test")
		return
	case errors.Is(err, mocktest.ErrChapterMismatch):
		ErrorWithDetail(w, http.StatusConflict, "attempt_chapter_mismatch", "attempt was issued for another chapter")
		return
	case err != nil:
		slog.Error("Failed to grade mock test", "error", err, "chapter", ch.Code)
		Error(w, http.StatusInternalServerError, "grading_failed")
		return
	}

	outcome, err := g.Submit(ch.Code, result.Score)
	if err != nil {
		h.gateError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.TestSubmitted(progress.Passed(result.Score))
		if outcome.JustUnlocked {
			h.metrics.ChapterUnlocked()
		}
	}
	slog.Info("Mock test graded",
		"user_id", identity.UserIDFromContext(r.Context()),
		"chapter", ch.Code,
		"score", result.Score,
		"state", outcome.State.String())

	JSON(w, http.StatusOK, map[string]interface{}{
		"result":       result,
		"outcome":      outcome,
		"all_unlocked": g.AllUnlocked(),
	})
}

// GetBonus returns the bonus question set link for an unlocked chapter.
func (h *Handler) GetBonus(w http.ResponseWriter, r *http.Request) {
	ch, _, ok := h.lookup(w, r)
	if !ok {
		return
	}

	state, err := h.gateFor(r).State(ch.Code)
	if err != nil {
		h.gateError(w, err)
		return
	}
	if state != gate.Unlocked {
		ErrorWithDetail(w, http.StatusForbidden, "chapter_not_unlocked",
			"Score 60% or more on this chapter's test to unlock its SD questions")
		return
	}

	resp := map[string]interface{}{"chapter": ch.Code, "available": false}
	if url, ok := catalog.Resolve(ch.BonusURL); ok {
		resp["url"] = url
		resp["available"] = true
	}
	JSON(w, http.StatusOK, resp)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (domain.Chapter, domain.Book, bool) {
	code := chi.URLParam(r, "code")
	ch, book, ok := h.catalog.Lookup(code)
	if !ok {
		Error(w, http.StatusNotFound, "unknown_chapter")
		return domain.Chapter{}, domain.Book{}, false
	}
	return ch, book, true
}

func (h *Handler) gateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gate.ErrChapterLocked):
		ErrorWithDetail(w, http.StatusLocked, "chapter_locked", "Open the chapter first")
	case errors.Is(err, gate.ErrUnknownChapter):
		Error(w, http.StatusNotFound, "unknown_chapter")
	default:
		slog.Error("Unexpected gate error", "error", err)
		Error(w, http.StatusInternalServerError, "internal_error")
	}
}
