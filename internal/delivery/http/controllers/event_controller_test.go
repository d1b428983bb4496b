package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/helpers"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr       error
	lastCreated     *domain.Event
	lastCreateUser  string
	getResult       *domain.EventWithCount
	getErr          error
	listResult      []*domain.EventWithCount
	listErr         error
	lastPagination  domain.PaginationParams
	updateResult    *domain.Event
	updateErr       error
	deleteErr       error
	lastDeleteID    string
	lastDeleteUser  string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, callerID string, event *domain.Event) error {
	f.lastCreateUser = callerID
	f.lastCreated = event
	return f.createErr
}

func (f *fakeEventService) GetEvent(ctx context.Context, eventID string) (*domain.EventWithCount, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func (f *fakeEventService) ListUpcomingEvents(ctx context.Context, p domain.PaginationParams) ([]*domain.EventWithCount, int, error) {
	f.lastPagination = p
	return f.listResult, len(f.listResult), f.listErr
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, callerID, eventID string, title, description, location *string, startsAt *time.Time, maxCapacity *int, feeCents *int) (*domain.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateResult, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, callerID, eventID string) error {
	f.lastDeleteUser = callerID
	f.lastDeleteID = eventID
	return f.deleteErr
}

func TestEventController_CreateEvent(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeEventService{}
		c := NewEventController(testLogger, svc)

		cap50 := 50
		body, _ := json.Marshal(CreateEventRequest{
			Title:       "Fall Campout",
			Location:    "Camp Strake",
			StartsAt:    time.Date(2025, 10, 10, 17, 0, 0, 0, time.UTC),
			MaxCapacity: &cap50,
			FeeCents:    1500,
		})
		req := authedRequest(http.MethodPost, "/events", body, "admin-1")
		rr := httptest.NewRecorder()
		c.CreateEvent(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, svc.lastCreated)
		assert.Equal(t, "admin-1", svc.lastCreateUser)
		assert.Equal(t, "Fall Campout", svc.lastCreated.Title)
		assert.Equal(t, 1500, svc.lastCreated.FeeCents)
		assert.Equal(t, "USD", svc.lastCreated.Currency)
	})

	t.Run("forbidden for non-admins", func(t *testing.T) {
		svc := &fakeEventService{createErr: domain.ErrForbidden}
		c := NewEventController(testLogger, svc)

		body, _ := json.Marshal(CreateEventRequest{Title: "Fall Campout", StartsAt: time.Now()})
		req := authedRequest(http.MethodPost, "/events", body, "user-1")
		rr := httptest.NewRecorder()
		c.CreateEvent(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{})

		body := []byte(`{"title": "Fall Campout", "starts_at": "2025-10-10T17:00:00Z", "max_capacity": 0}`)
		req := authedRequest(http.MethodPost, "/events", body, "admin-1")
		rr := httptest.NewRecorder()
		c.CreateEvent(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeEnvelope(t, rr).Error.Code, helpers.ErrCodeBadRequest)
	})
}

func TestEventController_GetEvent(t *testing.T) {
	cap50 := 50
	svc := &fakeEventService{getResult: &domain.EventWithCount{
		Event:         &domain.Event{ID: "ev-1", Title: "Fall Campout", MaxCapacity: &cap50},
		AttendeeCount: 23,
	}}
	c := NewEventController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "/events/ev-1", nil)
	req.SetPathValue("eventID", "ev-1")
	rr := httptest.NewRecorder()
	c.GetEvent(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeEnvelope(t, rr).Data.(map[string]any)
	assert.Equal(t, float64(23), data["attendee_count"])
}

func TestEventController_GetEvent_NotFound(t *testing.T) {
	c := NewEventController(testLogger, &fakeEventService{getErr: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/events/ev-gone", nil)
	req.SetPathValue("eventID", "ev-gone")
	rr := httptest.NewRecorder()
	c.GetEvent(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, helpers.ErrCodeNotFound, decodeEnvelope(t, rr).Error.Code)
}

func TestEventController_ListEvents(t *testing.T) {
	svc := &fakeEventService{listResult: []*domain.EventWithCount{
		{Event: &domain.Event{ID: "ev-1"}, AttendeeCount: 5},
		{Event: &domain.Event{ID: "ev-2"}, AttendeeCount: 0},
	}}
	c := NewEventController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "/events?page=2&page_size=10", nil)
	rr := httptest.NewRecorder()
	c.ListEvents(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 10}, svc.lastPagination)
	data, ok := decodeEnvelope(t, rr).Data.(map[string]any)
	require.True(t, ok)
	events, ok := data["events"].([]any)
	require.True(t, ok)
	assert.Len(t, events, 2)
	meta := data["pagination"].(map[string]any)
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(2), meta["total"])
}

func TestEventController_UpdateEvent(t *testing.T) {
	svc := &fakeEventService{updateResult: &domain.Event{ID: "ev-1", Title: "Renamed"}}
	c := NewEventController(testLogger, svc)

	body := []byte(`{"title": "Renamed"}`)
	req := authedRequest(http.MethodPatch, "/events/ev-1", body, "admin-1")
	req.SetPathValue("eventID", "ev-1")
	rr := httptest.NewRecorder()
	c.UpdateEvent(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeEnvelope(t, rr).Data.(map[string]any)
	assert.Equal(t, "Renamed", data["title"])
}

func TestEventController_DeleteEvent(t *testing.T) {
	svc := &fakeEventService{}
	c := NewEventController(testLogger, svc)

	req := authedRequest(http.MethodDelete, "/events/ev-1", nil, "admin-1")
	req.SetPathValue("eventID", "ev-1")
	rr := httptest.NewRecorder()
	c.DeleteEvent(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ev-1", svc.lastDeleteID)
	assert.Equal(t, "admin-1", svc.lastDeleteUser)
}
