package api

import (
	"encoding/json"
	"net/http"

	"meetbook/internal/entities"
	apperrors "meetbook/internal/errors"
	"meetbook/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
}

func NewBookingHandler(availability *service.AvailabilityService, bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Availability: availability, Bookings: bookings}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	resp, err := h.Availability.GetAvailability(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) BookMeeting(w http.ResponseWriter, r *http.Request) {
	var req BookMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking := entities.BookingRequest{
		Date:      req.Date,
		StartTime: req.StartTime,
		Duration:  req.Duration,
		Timezone:  req.Timezone,
	}
	if req.LeadID != "" {
		id, err := uuid.Parse(req.LeadID)
		if err != nil {
			writeError(w, apperrors.InvalidInput("invalid lead_id"))
			return
		}
		booking.LeadID = &id
	}
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			writeError(w, apperrors.InvalidInput("invalid customer_id"))
			return
		}
		booking.CustomerID = &id
	}

	confirmation, err := h.Bookings.Book(r.Context(), booking)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"meeting": confirmation,
	})
}

func (h *BookingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidInput("invalid meeting id"))
		return
	}
	meeting, err := h.Bookings.Meetings.GetMeeting(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse(meeting))
}

func (h *BookingHandler) RescheduleMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidInput("invalid meeting id"))
		return
	}
	var req RescheduleMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	confirmation, err := h.Bookings.Reschedule(r.Context(), id, entities.RescheduleRequest{
		Date:      req.Date,
		StartTime: req.StartTime,
		Duration:  req.Duration,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"meeting": confirmation,
	})
}

func (h *BookingHandler) CancelMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidInput("invalid meeting id"))
		return
	}
	meeting, err := h.Bookings.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meetingResponse(meeting))
}
