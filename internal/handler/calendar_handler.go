package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"buildlog/internal/models"
	"buildlog/internal/repository"
	"buildlog/internal/service"
)

type ScheduleEventRequest struct {
	PhotoID       string    `json:"photoId" validate:"required"`
	ScheduledDate time.Time `json:"scheduledDate" validate:"required"`
	Caption       string    `json:"caption"`
	Hashtags      []string  `json:"hashtags"`
}

func (h *Handlers) ScheduleEvent(w http.ResponseWriter, r *http.Request) {
	var req ScheduleEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	event, err := h.CalendarService.Schedule(r.Context(), service.ScheduleRequest{
		PhotoID:       req.PhotoID,
		ScheduledDate: req.ScheduledDate,
		Caption:       req.Caption,
		Hashtags:      req.Hashtags,
	})
	if err != nil {
		// The photo's build vanishing between lookup and insert is a
		// consistency failure, not a missing resource.
		if errors.Is(err, repository.ErrBuildNotFound) {
			WriteError(w, err.Error(), http.StatusConflict)
			return
		}
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, event, http.StatusCreated)
}

// GetCalendar returns events for ?day=YYYY-MM-DD, or for the inclusive
// ?from=&to= RFC 3339 range.
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var events []models.CalendarEvent
	var err error

	if day := query.Get("day"); day != "" {
		var d time.Time
		d, err = time.ParseInLocation("2006-01-02", day, time.Local)
		if err != nil {
			WriteError(w, "Invalid day parameter", http.StatusBadRequest)
			return
		}
		events, err = h.CalendarService.GetByDay(r.Context(), d)
	} else {
		from, errFrom := time.Parse(time.RFC3339, query.Get("from"))
		to, errTo := time.Parse(time.RFC3339, query.Get("to"))
		if errFrom != nil || errTo != nil {
			WriteError(w, "Parameters from and to are required as RFC 3339 timestamps", http.StatusBadRequest)
			return
		}
		events, err = h.CalendarService.GetRange(r.Context(), from, to)
	}

	if err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, events, http.StatusOK)
}

func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]

	var req repository.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.CalendarService.Update(r.Context(), eventID, req); err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]string{"updated": eventID}, http.StatusOK)
}

func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]

	if err := h.CalendarService.Unschedule(r.Context(), eventID); err != nil {
		writeRepoError(w, err)
		return
	}

	WriteSuccess(w, map[string]string{"deleted": eventID}, http.StatusOK)
}
