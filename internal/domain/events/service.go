package events

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service struct {
	repo      Repository
	validator *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: validator.New()}
}

// EventInput is the JSON payload for create and update.
type EventInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location" validate:"required,max=200"`
	Capacity    int    `json:"capacity" validate:"required,min=1"`
}

func (s *Service) List(ctx context.Context, page Page) (ListResult, error) {
	return s.repo.List(ctx, page)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input EventInput, createdBy string) (*Event, error) {
	date, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	params := CreateParams{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Date:        date,
		Location:    strings.TrimSpace(input.Location),
		Capacity:    input.Capacity,
	}
	if createdBy != "" {
		params.CreatedBy = &createdBy
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) Update(ctx context.Context, id string, input EventInput) (*Event, error) {
	date, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, UpdateParams{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Date:        date,
		Location:    strings.TrimSpace(input.Location),
		Capacity:    input.Capacity,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validateInput(input EventInput) (time.Time, error) {
	if err := s.validator.Struct(input); err != nil {
		return time.Time{}, validationError(err)
	}
	date, err := time.Parse(time.RFC3339, strings.TrimSpace(input.Date))
	if err != nil {
		return time.Time{}, FilterError{Field: "date", Message: "must be RFC3339"}
	}
	return date, nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	return FilterError{
		Field:   strings.ToLower(first.Field()),
		Message: fmt.Sprintf("failed %q validation", first.Tag()),
	}
}

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseListQuery parses page, limit and sort query parameters.
// Sort accepts a whitelisted field name with an optional leading '-'
// for descending order.
func ParseListQuery(values url.Values) (Page, error) {
	page := Page{Number: 1, Limit: defaultLimit, SortField: "date"}

	rawPage := strings.TrimSpace(values.Get("page"))
	if rawPage != "" {
		parsed, err := strconv.Atoi(rawPage)
		if err != nil {
			return page, FilterError{Field: "page", Message: "must be a number"}
		}
		if parsed < 1 {
			return page, FilterError{Field: "page", Message: "must be >= 1"}
		}
		page.Number = parsed
	}

	rawLimit := strings.TrimSpace(values.Get("limit"))
	if rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			return page, FilterError{Field: "limit", Message: "must be a number"}
		}
		if parsed < 1 || parsed > maxLimit {
			return page, FilterError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxLimit)}
		}
		page.Limit = parsed
	}

	rawSort := strings.TrimSpace(values.Get("sort"))
	if rawSort != "" {
		field := rawSort
		if strings.HasPrefix(field, "-") {
			page.SortDesc = true
			field = field[1:]
		}
		field = strings.ToLower(field)
		if !isAllowedSortField(field) {
			return page, FilterError{Field: "sort", Message: "unsupported sort field"}
		}
		page.SortField = field
	}

	return page, nil
}

func isAllowedSortField(value string) bool {
	switch value {
	case "name", "date", "location", "capacity", "created_at":
		return true
	default:
		return false
	}
}
