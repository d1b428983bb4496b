package services

import (
	"context"
	"errors"
	"testing"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_CreateEvent(t *testing.T) {
	cap10 := 10

	tests := []struct {
		name    string
		caller  string
		authz   *mockAuthorizer
		event   *domain.Event
		wantErr error
	}{
		{
			name:   "admin creates event",
			caller: "admin-1",
			authz:  &mockAuthorizer{admin: true},
			event:  &domain.Event{Title: "Pinewood Derby", MaxCapacity: &cap10},
		},
		{
			name:    "unauthenticated",
			caller:  "",
			authz:   &mockAuthorizer{},
			event:   &domain.Event{Title: "Pinewood Derby"},
			wantErr: domain.ErrUnauthenticated,
		},
		{
			name:    "non-admin forbidden",
			caller:  "user-1",
			authz:   &mockAuthorizer{},
			event:   &domain.Event{Title: "Pinewood Derby"},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "title required",
			caller:  "admin-1",
			authz:   &mockAuthorizer{admin: true},
			event:   &domain.Event{Title: "  "},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "capacity must be positive",
			caller:  "admin-1",
			authz:   &mockAuthorizer{admin: true},
			event:   &domain.Event{Title: "Pinewood Derby", MaxCapacity: new(int)},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockEventRepo{events: map[string]*domain.Event{}}
			svc := NewEventService(repo, &fakeCountService{}, tt.authz)

			err := svc.CreateEvent(context.Background(), tt.caller, tt.event)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, repo.created)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, repo.created)
			assert.Equal(t, "ev-new", repo.created.ID)
			assert.Equal(t, tt.caller, repo.created.CreatedBy)
		})
	}
}

func TestEventService_GetEvent(t *testing.T) {
	repo := &mockEventRepo{events: map[string]*domain.Event{"ev-1": freeEvent("ev-1", nil)}}
	counts := &fakeCountService{counts: map[string]int{"ev-1": 17}}
	svc := NewEventService(repo, counts, &mockAuthorizer{})

	got, err := svc.GetEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "ev-1", got.Event.ID)
	assert.Equal(t, 17, got.AttendeeCount)

	_, err = svc.GetEvent(context.Background(), "ev-missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEventService_ListUpcomingEvents(t *testing.T) {
	repo := &mockEventRepo{events: map[string]*domain.Event{
		"ev-1": freeEvent("ev-1", nil),
		"ev-2": freeEvent("ev-2", nil),
	}}
	counts := &fakeCountService{counts: map[string]int{"ev-1": 5, "ev-2": 0}}
	svc := NewEventService(repo, counts, &mockAuthorizer{})

	got, total, err := svc.ListUpcomingEvents(context.Background(), domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, total)
	byID := map[string]int{}
	for _, e := range got {
		byID[e.Event.ID] = e.AttendeeCount
	}
	assert.Equal(t, 5, byID["ev-1"])
	assert.Equal(t, 0, byID["ev-2"])
}

func TestEventService_UpdateEvent(t *testing.T) {
	title := "Renamed Campout"

	t.Run("admin only", func(t *testing.T) {
		repo := &mockEventRepo{events: map[string]*domain.Event{"ev-1": freeEvent("ev-1", nil)}}
		svc := NewEventService(repo, &fakeCountService{}, &mockAuthorizer{})
		_, err := svc.UpdateEvent(context.Background(), "user-1", "ev-1", &title, nil, nil, nil, nil, nil)
		require.True(t, errors.Is(err, domain.ErrForbidden))
	})

	t.Run("updates fields", func(t *testing.T) {
		repo := &mockEventRepo{events: map[string]*domain.Event{"ev-1": freeEvent("ev-1", nil)}}
		svc := NewEventService(repo, &fakeCountService{}, &mockAuthorizer{admin: true})
		got, err := svc.UpdateEvent(context.Background(), "admin-1", "ev-1", &title, nil, nil, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Campout", got.Title)
	})

	t.Run("missing event", func(t *testing.T) {
		repo := &mockEventRepo{events: map[string]*domain.Event{}}
		svc := NewEventService(repo, &fakeCountService{}, &mockAuthorizer{admin: true})
		_, err := svc.UpdateEvent(context.Background(), "admin-1", "ev-missing", &title, nil, nil, nil, nil, nil)
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	t.Run("requires events:delete", func(t *testing.T) {
		repo := &mockEventRepo{events: map[string]*domain.Event{"ev-1": freeEvent("ev-1", nil)}}
		svc := NewEventService(repo, &fakeCountService{}, &mockAuthorizer{})
		err := svc.DeleteEvent(context.Background(), "user-1", "ev-1")
		require.True(t, errors.Is(err, domain.ErrForbidden))
		assert.Empty(t, repo.deletedID)
	})

	t.Run("deletes and invalidates the count", func(t *testing.T) {
		repo := &mockEventRepo{events: map[string]*domain.Event{"ev-1": freeEvent("ev-1", nil)}}
		counts := &fakeCountService{}
		authz := &mockAuthorizer{perms: map[string]bool{domain.PermEventsDelete: true}}
		svc := NewEventService(repo, counts, authz)

		require.NoError(t, svc.DeleteEvent(context.Background(), "mod-1", "ev-1"))
		assert.Equal(t, "ev-1", repo.deletedID)
		assert.Equal(t, []string{"ev-1"}, counts.invalidated)
	})
}

func TestEvent_RequiresPayment(t *testing.T) {
	free := freeEvent("ev-1", nil)
	assert.False(t, free.RequiresPayment())

	paid := freeEvent("ev-2", nil)
	paid.FeeCents = 2500
	assert.True(t, paid.RequiresPayment())
}
