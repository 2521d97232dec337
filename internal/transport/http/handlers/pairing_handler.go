package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tandem/internal/service"
	"tandem/internal/transport/http/middleware"
	"tandem/pkg/validator"
)

type PairingHandler struct {
	pairingService *service.PairingService
	coupleService  *service.CoupleService
}

func NewPairingHandler(pairingService *service.PairingService, coupleService *service.CoupleService) *PairingHandler {
	return &PairingHandler{
		pairingService: pairingService,
		coupleService:  coupleService,
	}
}

// Connect starts the pairing flow with the entered partner email. The
// response says whether the caller is now paired or an invitation went out.
func (h *PairingHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		PartnerEmail string `json:"partner_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidatePartnerEmail(input.PartnerEmail); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	result, err := h.pairingService.ConnectWithPartner(r.Context(), userID, input.PartnerEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotPairSelf):
			writeError(w, http.StatusBadRequest, "CANNOT_PAIR_SELF", "You cannot connect with yourself")
		case errors.Is(err, service.ErrAlreadyPaired):
			writeError(w, http.StatusConflict, "ALREADY_PAIRED", "One of you is already connected with a partner")
		default:
			log.Printf("ERROR connect partner: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	status := http.StatusCreated
	if !result.Paired {
		status = http.StatusAccepted
	}
	writeJSON(w, status, result)
}

// GetCouple returns the caller's couple, or 404 when unpaired.
func (h *PairingHandler) GetCouple(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	couple, err := h.coupleService.FindCoupleForUser(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR get couple: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	if couple == nil {
		writeError(w, http.StatusNotFound, "NOT_PAIRED", "You are not connected with a partner yet")
		return
	}

	writeJSON(w, http.StatusOK, couple)
}

// Preview is public: the accept page calls it before the invitee signs in.
func (h *PairingHandler) Preview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.pairingService.Preview(r.Context(), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeError(w, http.StatusNotFound, "INVALID_TOKEN", "Invitation not found")
		} else {
			log.Printf("ERROR preview invitation: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

func (h *PairingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	couple, err := h.pairingService.AcceptInvitation(r.Context(), r.PathValue("token"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			writeError(w, http.StatusNotFound, "INVALID_TOKEN", "Invitation not found")
		case errors.Is(err, service.ErrInvitationExpired):
			writeError(w, http.StatusGone, "INVITATION_EXPIRED", "This invitation has expired")
		case errors.Is(err, service.ErrInvitationUsed):
			writeError(w, http.StatusConflict, "INVITATION_USED", "This invitation has already been used")
		case errors.Is(err, service.ErrEmailMismatch):
			writeError(w, http.StatusForbidden, "EMAIL_MISMATCH", "This invitation was sent to a different email address")
		case errors.Is(err, service.ErrCannotPairSelf):
			writeError(w, http.StatusBadRequest, "CANNOT_PAIR_SELF", "You cannot accept your own invitation")
		case errors.Is(err, service.ErrAlreadyPaired):
			writeError(w, http.StatusConflict, "ALREADY_PAIRED", "One of you is already connected with a partner")
		case errors.Is(err, service.ErrInviterNotFound):
			writeError(w, http.StatusNotFound, "INVITER_NOT_FOUND", "The inviter's account no longer exists")
		default:
			log.Printf("ERROR accept invitation: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, couple)
}

func (h *PairingHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	err := h.pairingService.DeclineInvitation(r.Context(), r.PathValue("token"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			writeError(w, http.StatusNotFound, "INVALID_TOKEN", "Invitation not found")
		case errors.Is(err, service.ErrInvitationUsed):
			writeError(w, http.StatusConflict, "INVITATION_USED", "This invitation has already been used")
		case errors.Is(err, service.ErrEmailMismatch):
			writeError(w, http.StatusForbidden, "EMAIL_MISMATCH", "This invitation was sent to a different email address")
		default:
			log.Printf("ERROR decline invitation: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
