package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seatwise/server/internal/api/middleware"
	"github.com/seatwise/server/internal/auth"
	"github.com/seatwise/server/internal/domain/events"
)

const testEventID = "22222222-2222-2222-2222-222222222222"

type stubEventsRepo struct {
	listFn   func(ctx context.Context, page events.Page) (events.ListResult, error)
	getFn    func(ctx context.Context, id string) (*events.Event, error)
	createFn func(ctx context.Context, params events.CreateParams) (*events.Event, error)
	updateFn func(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubEventsRepo) List(ctx context.Context, page events.Page) (events.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, page)
	}
	return events.ListResult{Page: page.Number, Limit: page.Limit}, nil
}

func (s *stubEventsRepo) GetByID(ctx context.Context, id string) (*events.Event, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, events.ErrNotFound
}

func (s *stubEventsRepo) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	if s.createFn != nil {
		return s.createFn(ctx, params)
	}
	return nil, events.ErrNotFound
}

func (s *stubEventsRepo) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, params)
	}
	return nil, events.ErrNotFound
}

func (s *stubEventsRepo) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return events.ErrNotFound
}

func newEventsHandler(repo events.Repository) *EventsHandler {
	return NewEventsHandler(events.NewService(repo), "test")
}

func sampleEvent(id string) *events.Event {
	date := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	return &events.Event{
		ID:        id,
		Name:      "Go Meetup",
		Date:      date,
		Location:  "Berlin",
		Capacity:  50,
		CreatedAt: date.Add(-24 * time.Hour),
		UpdatedAt: date.Add(-24 * time.Hour),
	}
}

func adminRequest(req *http.Request) *http.Request {
	claims := &auth.Claims{Role: "admin"}
	claims.Subject = "33333333-3333-3333-3333-333333333333"
	return req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
}

func TestListEventsPagination(t *testing.T) {
	repo := &stubEventsRepo{
		listFn: func(_ context.Context, page events.Page) (events.ListResult, error) {
			require.Equal(t, 2, page.Number)
			require.Equal(t, 10, page.Limit)
			require.Equal(t, "name", page.SortField)
			require.True(t, page.SortDesc)
			return events.ListResult{
				Events: []events.Event{*sampleEvent(testEventID)},
				Total:  21,
				Page:   page.Number,
				Limit:  page.Limit,
			}, nil
		},
	}
	handler := newEventsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?page=2&limit=10&sort=-name", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got eventListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	require.Equal(t, 2, got.Page)
	require.Equal(t, int64(21), got.Total)
	require.Equal(t, int64(3), got.TotalPages)
}

func TestListEventsRejectsBadQuery(t *testing.T) {
	handler := newEventsHandler(&stubEventsRepo{})

	cases := []string{
		"/api/v1/events?page=0",
		"/api/v1/events?page=abc",
		"/api/v1/events?limit=101",
		"/api/v1/events?sort=password_hash",
	}
	for _, target := range cases {
		t.Run(target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()

			handler.List(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetEvent(t *testing.T) {
	repo := &stubEventsRepo{
		getFn: func(_ context.Context, id string) (*events.Event, error) {
			require.Equal(t, testEventID, id)
			return sampleEvent(id), nil
		},
	}
	handler := newEventsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+testEventID, nil)
	req.SetPathValue("id", testEventID)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got eventPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, testEventID, got.ID)
	require.Equal(t, "Go Meetup", got.Name)
	require.Equal(t, "2026-09-12T18:00:00Z", got.Date)
}

func TestGetEventNotFound(t *testing.T) {
	handler := newEventsHandler(&stubEventsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+testEventID, nil)
	req.SetPathValue("id", testEventID)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEventInvalidID(t *testing.T) {
	handler := newEventsHandler(&stubEventsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEvent(t *testing.T) {
	repo := &stubEventsRepo{
		createFn: func(_ context.Context, params events.CreateParams) (*events.Event, error) {
			require.Equal(t, "Go Meetup", params.Name)
			require.Equal(t, 50, params.Capacity)
			require.NotNil(t, params.CreatedBy)

			event := sampleEvent(testEventID)
			event.CreatedBy = params.CreatedBy
			return event, nil
		},
	}
	handler := newEventsHandler(repo)

	body := `{"name":"Go Meetup","date":"2026-09-12T18:00:00Z","location":"Berlin","capacity":50}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, adminRequest(req))

	require.Equal(t, http.StatusCreated, rec.Code)

	var got eventPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, testEventID, got.ID)
	require.NotNil(t, got.CreatedBy)
}

func TestCreateEventRejectsInvalidInput(t *testing.T) {
	handler := newEventsHandler(&stubEventsRepo{})

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"date":"2026-09-12T18:00:00Z","location":"Berlin","capacity":50}`},
		{"zero capacity", `{"name":"Go Meetup","date":"2026-09-12T18:00:00Z","location":"Berlin","capacity":0}`},
		{"negative capacity", `{"name":"Go Meetup","date":"2026-09-12T18:00:00Z","location":"Berlin","capacity":-5}`},
		{"bad date", `{"name":"Go Meetup","date":"next friday","location":"Berlin","capacity":50}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			handler.Create(rec, adminRequest(req))

			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateEvent(t *testing.T) {
	repo := &stubEventsRepo{
		updateFn: func(_ context.Context, id string, params events.UpdateParams) (*events.Event, error) {
			require.Equal(t, testEventID, id)
			require.Equal(t, 75, params.Capacity)

			event := sampleEvent(id)
			event.Capacity = params.Capacity
			return event, nil
		},
	}
	handler := newEventsHandler(repo)

	body := `{"name":"Go Meetup","date":"2026-09-12T18:00:00Z","location":"Berlin","capacity":75}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/events/"+testEventID, strings.NewReader(body))
	req.SetPathValue("id", testEventID)
	rec := httptest.NewRecorder()

	handler.Update(rec, adminRequest(req))

	require.Equal(t, http.StatusOK, rec.Code)

	var got eventPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 75, got.Capacity)
}

func TestUpdateEventNotFound(t *testing.T) {
	handler := newEventsHandler(&stubEventsRepo{})

	body := `{"name":"Go Meetup","date":"2026-09-12T18:00:00Z","location":"Berlin","capacity":75}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/events/"+testEventID, strings.NewReader(body))
	req.SetPathValue("id", testEventID)
	rec := httptest.NewRecorder()

	handler.Update(rec, adminRequest(req))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEvent(t *testing.T) {
	deleted := ""
	repo := &stubEventsRepo{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	handler := newEventsHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/events/"+testEventID, nil)
	req.SetPathValue("id", testEventID)
	rec := httptest.NewRecorder()

	handler.Delete(rec, adminRequest(req))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, testEventID, deleted)
}

func TestDeleteEventNotFound(t *testing.T) {
	handler := newEventsHandler(&stubEventsRepo{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/events/"+testEventID, nil)
	req.SetPathValue("id", testEventID)
	rec := httptest.NewRecorder()

	handler.Delete(rec, adminRequest(req))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
