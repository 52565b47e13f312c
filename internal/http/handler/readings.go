package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/auth"
	"github.com/Orlando-Villanueva/my-delight-sub000/internal/reading"
)

type ReadingHandler struct {
	Svc *reading.Service
}

type logReadingReq struct {
	BookID   int    `json:"book_id"`
	Chapter  int    `json:"chapter"`
	DateRead string `json:"date_read"` // YYYY-MM-DD
}

func (h *ReadingHandler) parse(w http.ResponseWriter, r *http.Request) (logReadingReq, time.Time, bool) {
	var req logReadingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return req, time.Time{}, false
	}

	d, err := time.Parse("2006-01-02", strings.TrimSpace(req.DateRead))
	if err != nil {
		http.Error(w, "invalid date_read (YYYY-MM-DD)", http.StatusBadRequest)
		return req, time.Time{}, false
	}
	return req, d, true
}

func (h *ReadingHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	req, date, ok := h.parse(w, r)
	if !ok {
		return
	}

	id, err := h.Svc.LogReading(r.Context(), uid, req.BookID, req.Chapter, date)
	if err != nil {
		if errors.Is(err, reading.ErrInvalidReference) {
			http.Error(w, "invalid book or chapter", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
}

func (h *ReadingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	req, date, ok := h.parse(w, r)
	if !ok {
		return
	}

	if err := h.Svc.DeleteReading(r.Context(), uid, req.BookID, req.Chapter, date); err != nil {
		if errors.Is(err, reading.ErrInvalidReference) {
			http.Error(w, "invalid book or chapter", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
