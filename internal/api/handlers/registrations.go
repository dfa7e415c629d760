package handlers

import (
	"errors"
	"net/http"

	"github.com/seatwise/server/internal/api/middleware"
	"github.com/seatwise/server/internal/api/problem"
	"github.com/seatwise/server/internal/domain/registrations"
	"github.com/seatwise/server/internal/metrics"
)

type RegistrationsHandler struct {
	Service *registrations.Service
	Env     string
}

func NewRegistrationsHandler(service *registrations.Service, env string) *RegistrationsHandler {
	return &RegistrationsHandler{Service: service, Env: env}
}

// Register handles POST /api/v1/events/{id}/register
func (h *RegistrationsHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	eventID, ok := parseUUIDParam(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", errors.New("event id must be a UUID"), h.Env)
		return
	}

	userID := middleware.UserID(r)
	if userID == "" {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", nil, h.Env)
		return
	}

	reg, err := h.Service.Register(r.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, registrations.ErrEventNotFound):
			metrics.RegistrationOutcomes.WithLabelValues("event_not_found").Inc()
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env)
		case errors.Is(err, registrations.ErrCapacityExceeded):
			metrics.RegistrationOutcomes.WithLabelValues("capacity_exceeded").Inc()
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Event is full", err, h.Env)
		case errors.Is(err, registrations.ErrAlreadyRegistered):
			metrics.RegistrationOutcomes.WithLabelValues("duplicate").Inc()
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Already registered", err, h.Env)
		default:
			metrics.RegistrationOutcomes.WithLabelValues("error").Inc()
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		}
		return
	}

	metrics.RegistrationOutcomes.WithLabelValues("admitted").Inc()
	writeJSON(w, http.StatusCreated, registrationToPayload(*reg))
}

// Cancel handles DELETE /api/v1/events/{id}/register
func (h *RegistrationsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	eventID, ok := parseUUIDParam(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", errors.New("event id must be a UUID"), h.Env)
		return
	}

	userID := middleware.UserID(r)
	if userID == "" {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", nil, h.Env)
		return
	}

	if err := h.Service.Cancel(r.Context(), eventID, userID); err != nil {
		if errors.Is(err, registrations.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMine handles GET /api/v1/registrations
func (h *RegistrationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	userID := middleware.UserID(r)
	if userID == "" {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", nil, h.Env)
		return
	}

	regs, err := h.Service.ListForUser(r.Context(), userID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	items := make([]registrationPayload, 0, len(regs))
	for _, reg := range regs {
		items = append(items, registrationToPayload(reg))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
