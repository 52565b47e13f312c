package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/auth"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/reading"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/stats"
)

type StatsHandler struct {
	Stats *stats.Service
	Repo  *reading.Repo
}

// todayFrom resolves the canonical "today" for a request: an explicit
// ?today=YYYY-MM-DD override, otherwise the current UTC date.
func todayFrom(r *http.Request) (time.Time, error) {
	if v := strings.TrimSpace(r.URL.Query().Get("today")); v != "" {
		return time.Parse("2006-01-02", v)
	}
	return stats.Day(time.Now().UTC()), nil
}

func (h *StatsHandler) Streak(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	today, err := todayFrom(r)
	if err != nil {
		http.Error(w, "invalid today (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	current, err := h.Stats.GetCurrentStreak(r.Context(), uid, today)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	longest, err := h.Stats.GetLongestStreak(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"current_streak": current,
		"longest_streak": longest,
	})
}

func (h *StatsHandler) Week(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	today, err := todayFrom(r)
	if err != nil {
		http.Error(w, "invalid today (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	week, err := h.Stats.GetWeeklyGoalState(r.Context(), uid, today)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	weeklyStreak, err := h.Stats.GetWeeklyStreak(r.Context(), uid, today)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"week":          week,
		"weekly_streak": weeklyStreak,
	})
}

func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	today, err := todayFrom(r)
	if err != nil {
		http.Error(w, "invalid today (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	sum, err := h.Stats.GetSummary(r.Context(), uid, today)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, sum)
}

func (h *StatsHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	year := time.Now().UTC().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = n
	}

	counts, err := h.Stats.GetHeatmap(r.Context(), uid, year)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, counts)
}

type bookProgressDTO struct {
	BookID            int     `json:"book_id"`
	ChaptersRead      []int64 `json:"chapters_read"`
	TotalChapters     int     `json:"total_chapters"`
	CompletionPercent float64 `json:"completion_percent"`
	IsCompleted       bool    `json:"is_completed"`
}

func (h *StatsHandler) Book(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	bookID, err := strconv.Atoi(chi.URLParam(r, "bookID"))
	if err != nil {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.GetBookProgress(r.Context(), uid, bookID)
	if err != nil {
		if errors.Is(err, reading.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, bookProgressDTO{
		BookID:            p.BookID,
		ChaptersRead:      p.ChaptersRead,
		TotalChapters:     p.TotalChapters,
		CompletionPercent: p.CompletionPercent,
		IsCompleted:       p.IsCompleted,
	})
}

var dailyMessages = []string{
	"A chapter a day builds a habit that lasts.",
	"Small steps, taken daily, go a long way.",
	"Keep the thread going. Today counts.",
	"Every reading day makes the next one easier.",
	"Consistency beats intensity.",
}

func (h *StatsHandler) Message(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	today, err := todayFrom(r)
	if err != nil {
		http.Error(w, "invalid today (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	seed := strconv.FormatUint(uid, 10)
	writeJSON(w, map[string]any{
		"message":           stats.SelectMessage(dailyMessages, seed, today),
		"show_streak_nudge": stats.ShouldShowVariant(seed+":nudge", today),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
