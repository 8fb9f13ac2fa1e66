package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pressline/counter-api/internal/backend"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGatewayError maps a failed backend call to a response. Backend
// failures keep their status and message verbatim; anything else (transport,
// timeout) becomes a 502 with a generic message.
func writeGatewayError(w http.ResponseWriter, op string, err error) {
	var be *backend.Error
	if errors.As(err, &be) {
		writeError(w, be.Status, be.Message)
		return
	}
	slog.Error("backend call failed", "op", op, "error", err)
	writeError(w, http.StatusBadGateway, "backend unavailable")
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset = 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// parseDateRange parses start_date and end_date query params (YYYY-MM-DD).
// Defaults to the last 30 days; end_date is made exclusive before forwarding.
// The backend does all date arithmetic beyond this shaping.
func parseDateRange(r *http.Request) (string, string, error) {
	const layout = "2006-01-02"

	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(0, 0, 1)

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return "", "", fmt.Errorf("invalid start_date format: %w", err)
		}
		start = t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return "", "", fmt.Errorf("invalid end_date format: %w", err)
		}
		// Make end_date exclusive by adding 1 day
		end = t.AddDate(0, 0, 1)
	}

	if !start.Before(end) {
		return "", "", fmt.Errorf("start_date must be before end_date")
	}

	return start.Format(layout), end.Format(layout), nil
}
