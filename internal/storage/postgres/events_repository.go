package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/seatwise/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

// sortColumns maps whitelisted sort fields to their columns. The ORDER BY
// clause is assembled from this map only, never from request input.
var sortColumns = map[string]string{
	"name":       "name",
	"date":       "date",
	"location":   "location",
	"capacity":   "capacity",
	"created_at": "created_at",
}

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *EventRepository) List(ctx context.Context, page events.Page) (events.ListResult, error) {
	q := r.queryer()

	limit := page.Limit
	if limit <= 0 {
		limit = 20
	}
	number := page.Number
	if number < 1 {
		number = 1
	}
	offset := (number - 1) * limit

	column, ok := sortColumns[page.SortField]
	if !ok {
		column = "date"
	}
	direction := "ASC"
	if page.SortDesc {
		direction = "DESC"
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT count(*) FROM events`).Scan(&total); err != nil {
		return events.ListResult{}, fmt.Errorf("count events: %w", err)
	}

	query := fmt.Sprintf(`
SELECT id, name, description, date, location, capacity, created_by, created_at, updated_at
  FROM events
 ORDER BY %s %s, id ASC
 LIMIT $1 OFFSET $2
`, column, direction)

	rows, err := q.Query(ctx, query, limit, offset)
	if err != nil {
		return events.ListResult{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0, limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return events.ListResult{}, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return events.ListResult{}, fmt.Errorf("iterate events: %w", err)
	}

	return events.ListResult{
		Events: items,
		Total:  total,
		Page:   number,
		Limit:  limit,
	}, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, name, description, date, location, capacity, created_by, created_at, updated_at
  FROM events
 WHERE id = $1
`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO events (name, description, date, location, capacity, created_by)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
RETURNING id, name, description, date, location, capacity, created_by, created_at, updated_at
`, params.Name, params.Description, params.Date, params.Location, params.Capacity, params.CreatedBy)

	event, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
UPDATE events
   SET name = $2,
       description = NULLIF($3, ''),
       date = $4,
       location = $5,
       capacity = $6,
       updated_at = now()
 WHERE id = $1
RETURNING id, name, description, date, location, capacity, created_by, created_at, updated_at
`, id, params.Name, params.Description, params.Date, params.Location, params.Capacity)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Delete removes the event; registrations go with it via ON DELETE CASCADE.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var (
		event       events.Event
		description *string
		date        pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&description,
		&date,
		&event.Location,
		&event.Capacity,
		&event.CreatedBy,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	event.Description = derefString(description)
	if date.Valid {
		event.Date = date.Time
	}
	if createdAt.Valid {
		event.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		event.UpdatedAt = updatedAt.Time
	}
	return &event, nil
}
