package domain

import (
	"context"
	"time"
)

// Event represents a pack event that families can RSVP to.
// MaxCapacity is the total attendee limit; nil means unlimited.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	MaxCapacity *int      `json:"max_capacity"`
	FeeCents    int       `json:"fee_cents"`
	Currency    string    `json:"currency"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RequiresPayment reports whether submitting an RSVP to this event starts the
// payment sub-flow.
func (e *Event) RequiresPayment() bool { return e.FeeCents > 0 }

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description, location, createdBy string, startsAt time.Time, maxCapacity *int, feeCents int, createdAt, updatedAt time.Time) *Event {
	currency := ""
	if feeCents > 0 {
		currency = "USD"
	}
	return &Event{
		Title:       title,
		Description: description,
		Location:    location,
		StartsAt:    startsAt,
		MaxCapacity: maxCapacity,
		FeeCents:    feeCents,
		Currency:    currency,
		CreatedBy:   createdBy,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventWithCount bundles an event with its current attendee total for listings.
type EventWithCount struct {
	Event         *Event `json:"event"`
	AttendeeCount int    `json:"attendee_count"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListUpcoming(ctx context.Context, from time.Time, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, eventID string, title, description, location *string, startsAt *time.Time, maxCapacity *int, feeCents *int) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for event management.
type EventService interface {
	CreateEvent(ctx context.Context, callerID string, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*EventWithCount, error)
	ListUpcomingEvents(ctx context.Context, p PaginationParams) ([]*EventWithCount, int, error)
	UpdateEvent(ctx context.Context, callerID, eventID string, title, description, location *string, startsAt *time.Time, maxCapacity *int, feeCents *int) (*Event, error)
	DeleteEvent(ctx context.Context, callerID, eventID string) error
}
