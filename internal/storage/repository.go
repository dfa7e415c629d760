package storage

import (
	"github.com/seatwise/server/internal/domain/events"
	"github.com/seatwise/server/internal/domain/registrations"
	"github.com/seatwise/server/internal/domain/users"
)

// Repository groups data access by domain.
type Repository interface {
	Users() users.Repository
	Events() events.Repository
	Registrations() registrations.Repository
}
