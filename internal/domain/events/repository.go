package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

type Event struct {
	ID          string
	Name        string
	Description string
	Date        time.Time
	Location    string
	Capacity    int
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	Name        string
	Description string
	Date        time.Time
	Location    string
	Capacity    int
	CreatedBy   *string
}

type UpdateParams struct {
	Name        string
	Description string
	Date        time.Time
	Location    string
	Capacity    int
}

// Page describes offset pagination with a single whitelisted sort field.
type Page struct {
	Number    int
	Limit     int
	SortField string
	SortDesc  bool
}

type ListResult struct {
	Events []Event
	Total  int64
	Page   int
	Limit  int
}

type Repository interface {
	List(ctx context.Context, page Page) (ListResult, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, params CreateParams) (*Event, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Event, error)
	Delete(ctx context.Context, id string) error
}
