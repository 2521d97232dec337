package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"tandem/internal/service"
	"tandem/internal/transport/http/middleware"
	"tandem/pkg/validator"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

type goalRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Emoji       *string `json:"emoji"`
	TargetDate  string  `json:"target_date"`
}

func (req *goalRequest) toInput() (service.GoalInput, validator.ValidationErrors) {
	if errs := validator.ValidateGoal(req.Title, req.Color, 0, req.TargetDate); errs.HasErrors() {
		return service.GoalInput{}, errs
	}
	return service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		Emoji:       req.Emoji,
		TargetDate:  parseOptionalDate(req.TargetDate),
	}, nil
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	goals, err := h.goalService.List(r.Context(), userID)
	if err != nil {
		writeCoupleScopedError(w, "list goals", err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input, errs := req.toInput()
	if errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID, input)
	if err != nil {
		writeCoupleScopedError(w, "create goal", err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid goal ID")
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input, errs := req.toInput()
	if errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	goal, err := h.goalService.Update(r.Context(), userID, goalID, input)
	if err != nil {
		writeCoupleScopedError(w, "update goal", err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid goal ID")
		return
	}

	var req struct {
		Progress int `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	goal, err := h.goalService.UpdateProgress(r.Context(), userID, goalID, req.Progress)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProgress) {
			writeError(w, http.StatusBadRequest, "INVALID_PROGRESS", "Progress must be between 0 and 100")
			return
		}
		writeCoupleScopedError(w, "update goal progress", err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid goal ID")
		return
	}

	if err := h.goalService.Delete(r.Context(), userID, goalID); err != nil {
		writeCoupleScopedError(w, "delete goal", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
