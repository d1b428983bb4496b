package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
	counts    domain.CountService
	authz     domain.Authorizer
}

// NewEventService creates the event management service.
func NewEventService(eventRepo domain.EventRepository, counts domain.CountService, authz domain.Authorizer) domain.EventService {
	return &eventService{eventRepo: eventRepo, counts: counts, authz: authz}
}

func (s *eventService) CreateEvent(ctx context.Context, callerID string, event *domain.Event) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	admin, err := s.authz.IsAdmin(ctx, callerID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if !admin {
		return domain.ErrForbidden
	}
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.MaxCapacity != nil && *event.MaxCapacity < 1 {
		return fmt.Errorf("%w: max_capacity must be positive", domain.ErrInvalidInput)
	}
	event.CreatedBy = callerID
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.EventWithCount, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &domain.EventWithCount{
		Event:         event,
		AttendeeCount: s.counts.GetCount(ctx, eventID),
	}, nil
}

func (s *eventService) ListUpcomingEvents(ctx context.Context, p domain.PaginationParams) ([]*domain.EventWithCount, int, error) {
	events, total, err := s.eventRepo.ListUpcoming(ctx, time.Now(), p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	counts := s.counts.GetBatchCounts(ctx, ids)

	result := make([]*domain.EventWithCount, 0, len(events))
	for _, e := range events {
		result = append(result, &domain.EventWithCount{
			Event:         e,
			AttendeeCount: counts[e.ID],
		})
	}
	return result, total, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, callerID, eventID string, title, description, location *string, startsAt *time.Time, maxCapacity *int, feeCents *int) (*domain.Event, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	admin, err := s.authz.IsAdmin(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}
	if !admin {
		return nil, domain.ErrForbidden
	}
	updated, err := s.eventRepo.Update(ctx, eventID, title, description, location, startsAt, maxCapacity, feeCents)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, callerID, eventID string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	allowed, err := s.authz.HasPermission(ctx, callerID, domain.PermEventsDelete)
	if err != nil {
		return fmt.Errorf("check permission: %w", err)
	}
	if !allowed {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.counts.Invalidate(eventID)
	return nil
}
