package registrations

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrNotFound          = errors.New("registration not found")
	ErrCapacityExceeded  = errors.New("event capacity exceeded")
	ErrAlreadyRegistered = errors.New("user already registered for event")
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Registration struct {
	ID        string
	EventID   string
	UserID    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventSeat is the slice of an event the admission check needs.
type EventSeat struct {
	ID       string
	Capacity int
}

type CreateParams struct {
	EventID string
	UserID  string
	Status  string
}

// Repository provides registration persistence. WithTx runs fn against a
// transaction-scoped repository; implementations must make EventSeatForUpdate
// hold a write lock on the event row until the transaction ends, so that
// concurrent admission checks for the same event serialize.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	EventSeatForUpdate(ctx context.Context, eventID string) (EventSeat, error)
	CountActiveForEvent(ctx context.Context, eventID string) (int, error)
	Create(ctx context.Context, params CreateParams) (*Registration, error)
	CancelByEventAndUser(ctx context.Context, eventID, userID string) error
	ListForUser(ctx context.Context, userID string) ([]Registration, error)
}
