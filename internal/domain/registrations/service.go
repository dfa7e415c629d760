package registrations

import (
	"context"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "registrations").Logger(),
	}
}

// Register admits a user to an event if seats remain. The check and the
// insert run in one transaction with the event row locked, so two concurrent
// requests for the last seat cannot both pass the count. Cancelled
// registrations do not occupy a seat; pending and confirmed do.
func (s *Service) Register(ctx context.Context, eventID, userID string) (*Registration, error) {
	var created *Registration
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		seat, err := tx.EventSeatForUpdate(ctx, eventID)
		if err != nil {
			return err
		}

		taken, err := tx.CountActiveForEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if taken >= seat.Capacity {
			return ErrCapacityExceeded
		}

		created, err = tx.Create(ctx, CreateParams{
			EventID: eventID,
			UserID:  userID,
			Status:  StatusPending,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("event_id", eventID).
		Str("user_id", userID).
		Msg("registration admitted")
	return created, nil
}

// Cancel marks the caller's registration cancelled, freeing its seat.
func (s *Service) Cancel(ctx context.Context, eventID, userID string) error {
	if err := s.repo.CancelByEventAndUser(ctx, eventID, userID); err != nil {
		return err
	}
	s.logger.Info().
		Str("event_id", eventID).
		Str("user_id", userID).
		Msg("registration cancelled")
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Registration, error) {
	return s.repo.ListForUser(ctx, userID)
}
