package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"tandem/internal/service"
	"tandem/internal/transport/http/middleware"
	"tandem/pkg/validator"
)

type ReminderHandler struct {
	reminderService *service.ReminderService
}

func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

type reminderRequest struct {
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
	Shared  bool   `json:"shared"`
}

func (req *reminderRequest) toInput() (service.ReminderInput, validator.ValidationErrors) {
	if errs := validator.ValidateReminder(req.Title, req.DueDate); errs.HasErrors() {
		return service.ReminderInput{}, errs
	}
	return service.ReminderInput{
		Title:   req.Title,
		DueDate: parseOptionalDate(req.DueDate),
		Shared:  req.Shared,
	}, nil
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	reminders, err := h.reminderService.List(r.Context(), userID)
	if err != nil {
		writeCoupleScopedError(w, "list reminders", err)
		return
	}

	writeJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input, errs := req.toInput()
	if errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	reminder, err := h.reminderService.Create(r.Context(), userID, input)
	if err != nil {
		writeCoupleScopedError(w, "create reminder", err)
		return
	}

	writeJSON(w, http.StatusCreated, reminder)
}

func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reminderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid reminder ID")
		return
	}

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input, errs := req.toInput()
	if errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	reminder, err := h.reminderService.Update(r.Context(), userID, reminderID, input)
	if err != nil {
		writeCoupleScopedError(w, "update reminder", err)
		return
	}

	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reminderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid reminder ID")
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	reminder, err := h.reminderService.SetCompleted(r.Context(), userID, reminderID, req.Completed)
	if err != nil {
		writeCoupleScopedError(w, "update reminder completion", err)
		return
	}

	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reminderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid reminder ID")
		return
	}

	if err := h.reminderService.Delete(r.Context(), userID, reminderID); err != nil {
		writeCoupleScopedError(w, "delete reminder", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
