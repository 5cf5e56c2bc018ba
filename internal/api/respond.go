package api

import (
	"encoding/json"
	"net/http"

	"meetbook/internal/db"
	apperrors "meetbook/internal/errors"
	"meetbook/internal/logger"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps domain errors to their HTTP status. Internal failures are
// logged but never leak details to the client.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Get().Error("request failed", zap.Error(err))
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func meetingResponse(m *db.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:          m.ID.String(),
		EventID:     m.EventID,
		MeetURL:     m.MeetURL,
		Title:       m.Title,
		ScheduledAt: m.ScheduledAt,
		Duration:    m.DurationMinutes,
		Status:      m.Status,
	}
}
