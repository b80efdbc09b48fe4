package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the wire shape of every response. Success responses carry
// data; failure responses carry an error message and optionally a warning.
// The split write helpers below keep the two paths from mixing.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

func (h *Handler) respondOK(w http.ResponseWriter, status int, data any) {
	h.writeJSON(w, status, envelope{Success: true, Data: data})
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, envelope{Success: false, Error: msg})
}

func (h *Handler) respondErrorWithWarning(w http.ResponseWriter, status int, msg, warning string) {
	h.writeJSON(w, status, envelope{Success: false, Error: msg, Warning: warning})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
