package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seatwise/server/internal/domain/events"
	"github.com/seatwise/server/internal/domain/registrations"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.PathValue(key))
}

func parseUUIDParam(r *http.Request, key string) (string, bool) {
	value := pathParam(r, key)
	if value == "" {
		return "", false
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", false
	}
	return value, true
}

type eventPayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
	Location    string  `json:"location"`
	Capacity    int     `json:"capacity"`
	CreatedBy   *string `json:"created_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func eventToPayload(event events.Event) eventPayload {
	return eventPayload{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		Date:        event.Date.UTC().Format(time.RFC3339),
		Location:    event.Location,
		Capacity:    event.Capacity,
		CreatedBy:   event.CreatedBy,
		CreatedAt:   event.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   event.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type registrationPayload struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func registrationToPayload(reg registrations.Registration) registrationPayload {
	return registrationPayload{
		ID:        reg.ID,
		EventID:   reg.EventID,
		UserID:    reg.UserID,
		Status:    reg.Status,
		CreatedAt: reg.CreatedAt.UTC().Format(time.RFC3339),
	}
}
