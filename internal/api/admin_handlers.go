package api

import (
	"encoding/json"
	"net/http"
	"time"

	"meetbook/internal/db"
	apperrors "meetbook/internal/errors"
	"meetbook/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Schedule *service.ScheduleService
	Bookings *service.BookingService
}

func NewAdminHandler(schedule *service.ScheduleService, bookings *service.BookingService) *AdminHandler {
	return &AdminHandler{Schedule: schedule, Bookings: bookings}
}

func (h *AdminHandler) GetWorkingHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.Schedule.GetWorkingHours(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]WorkingHoursRequest, 0, len(hours))
	for _, wh := range hours {
		out = append(out, WorkingHoursRequest{
			DayOfWeek: wh.DayOfWeek,
			StartTime: wh.StartTime,
			EndTime:   wh.EndTime,
			IsEnabled: wh.IsEnabled,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) UpdateWorkingHours(w http.ResponseWriter, r *http.Request) {
	var req WorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	err := h.Schedule.UpdateWorkingHours(r.Context(), db.WorkingHours{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsEnabled: req.IsEnabled,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Working hours updated"})
}

func (h *AdminHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.Schedule.ListBlocks(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (h *AdminHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	block, err := h.Schedule.CreateBlock(r.Context(), req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

func (h *AdminHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidInput("invalid block id"))
		return
	}
	if err := h.Schedule.DeleteBlock(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Block deleted"})
}

func (h *AdminHandler) UpdateMeetingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidInput("invalid meeting id"))
		return
	}
	var req UpdateMeetingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	meeting, err := h.Bookings.UpdateMeetingStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse(meeting))
}
