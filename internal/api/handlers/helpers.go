package handlers

import (
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/logger"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

var log logger.Logger = logger.New("api")

// SetLogger replaces the handler logger.
func SetLogger(l logger.Logger) { log = l }

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// queryTime reads ?at=HH:MM on the simulated day. Without it the query sees
// the end of the day.
func queryTime(r *http.Request, day time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("at"))
	if raw == "" {
		return domain.At(day, 23, 59), nil
	}
	return domain.ParseClock(day, raw)
}
