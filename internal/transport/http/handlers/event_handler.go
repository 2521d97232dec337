package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"tandem/internal/service"
	"tandem/internal/transport/http/middleware"
	"tandem/pkg/validator"
)

const dateLayout = "2006-01-02"

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type eventRequest struct {
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	Emoji       *string `json:"emoji"`
}

func (req *eventRequest) toInput() (service.EventInput, validator.ValidationErrors) {
	if errs := validator.ValidateEvent(req.Title, req.Date, req.Type, req.Color); errs.HasErrors() {
		return service.EventInput{}, errs
	}
	date, _ := time.Parse(dateLayout, req.Date)
	return service.EventInput{
		Title:       req.Title,
		Date:        date,
		Type:        req.Type,
		Description: req.Description,
		Color:       req.Color,
		Emoji:       req.Emoji,
	}, nil
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	events, err := h.eventService.List(r.Context(), userID)
	if err != nil {
		writeCoupleScopedError(w, "list events", err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input, errs := req.toInput()
	if errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	event, err := h.eventService.Create(r.Context(), userID, input)
	if err != nil {
		writeCoupleScopedError(w, "create event", err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid event ID")
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input, errs := req.toInput()
	if errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	event, err := h.eventService.Update(r.Context(), userID, eventID, input)
	if err != nil {
		writeCoupleScopedError(w, "update event", err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid event ID")
		return
	}

	if err := h.eventService.Delete(r.Context(), userID, eventID); err != nil {
		writeCoupleScopedError(w, "delete event", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeCoupleScopedError maps the errors shared by all couple-scoped
// resources (events, goals, reminders).
func writeCoupleScopedError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotPaired):
		writeError(w, http.StatusForbidden, "NOT_PAIRED", "Connect with your partner first")
	case errors.Is(err, service.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Event not found")
	case errors.Is(err, service.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Goal not found")
	case errors.Is(err, service.ErrReminderNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Reminder not found")
	default:
		log.Printf("ERROR %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

// parseOptionalDate turns an optional YYYY-MM-DD string into a *time.Time.
// Validation has already checked the format.
func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
