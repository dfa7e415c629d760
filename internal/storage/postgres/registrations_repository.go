package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/seatwise/server/internal/domain/registrations"
)

var _ registrations.Repository = (*RegistrationRepository)(nil)

func (r *RegistrationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

// WithTx runs fn against a transaction-scoped repository. Locks taken inside
// fn (EventSeatForUpdate) are held until commit or rollback.
func (r *RegistrationRepository) WithTx(ctx context.Context, fn func(context.Context, registrations.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &RegistrationRepository{pool: r.pool, tx: tx}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// EventSeatForUpdate loads the event capacity under a row lock, serializing
// concurrent admission checks for the same event across server instances.
func (r *RegistrationRepository) EventSeatForUpdate(ctx context.Context, eventID string) (registrations.EventSeat, error) {
	var seat registrations.EventSeat
	err := r.queryer().QueryRow(ctx, `
SELECT id, capacity
  FROM events
 WHERE id = $1
   FOR UPDATE
`, eventID).Scan(&seat.ID, &seat.Capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return registrations.EventSeat{}, registrations.ErrEventNotFound
		}
		return registrations.EventSeat{}, fmt.Errorf("lock event: %w", err)
	}
	return seat, nil
}

func (r *RegistrationRepository) CountActiveForEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.queryer().QueryRow(ctx, `
SELECT count(*)
  FROM registrations
 WHERE event_id = $1
   AND status IN ('pending', 'confirmed')
`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, params registrations.CreateParams) (*registrations.Registration, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO registrations (event_id, user_id, status)
VALUES ($1, $2, $3)
RETURNING id, event_id, user_id, status, created_at, updated_at
`, params.EventID, params.UserID, params.Status)

	reg, err := scanRegistration(row)
	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			return nil, registrations.ErrAlreadyRegistered
		case pgForeignKeyViolation:
			return nil, registrations.ErrEventNotFound
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) CancelByEventAndUser(ctx context.Context, eventID, userID string) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE registrations
   SET status = 'cancelled',
       updated_at = now()
 WHERE event_id = $1
   AND user_id = $2
   AND status <> 'cancelled'
`, eventID, userID)
	if err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registrations.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepository) ListForUser(ctx context.Context, userID string) ([]registrations.Registration, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, event_id, user_id, status, created_at, updated_at
  FROM registrations
 WHERE user_id = $1
 ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var items []registrations.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		items = append(items, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return items, nil
}

func scanRegistration(row pgx.Row) (*registrations.Registration, error) {
	var (
		reg       registrations.Registration
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&reg.ID,
		&reg.EventID,
		&reg.UserID,
		&reg.Status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		reg.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		reg.UpdatedAt = updatedAt.Time
	}
	return &reg, nil
}
