package domain

import (
	"context"
	"time"
)

// Payment status values for an RSVP's payment sub-lifecycle.
const (
	PaymentNotRequired = "not_required"
	PaymentPending     = "pending"
	PaymentCompleted   = "completed"
	PaymentFailed      = "failed"
)

// Attendee is a single person on an RSVP's roster.
// swagger:model Attendee
type Attendee struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Den     string `json:"den,omitempty"`
	IsAdult bool   `json:"is_adult"`
}

// RSVP is a family's recorded intent to attend an event. At most one RSVP
// exists per (event, user) pair; repeat submissions update the existing
// record in place.
// swagger:model RSVP
type RSVP struct {
	ID                  string     `json:"id"`
	EventID             string     `json:"event_id"`
	UserID              string     `json:"user_id"`
	UserEmail           string     `json:"user_email"`
	FamilyName          string     `json:"family_name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone,omitempty"`
	Attendees           []Attendee `json:"attendees"`
	DietaryRestrictions string     `json:"dietary_restrictions,omitempty"`
	SpecialNeeds        string     `json:"special_needs,omitempty"`
	Notes               string     `json:"notes,omitempty"`

	// Security metadata attached at submission.
	IPHash    string `json:"-"`
	UserAgent string `json:"-"`

	// Paperwork approval has its own lifecycle, independent of payment.
	PaperworkComplete   bool   `json:"paperwork_complete"`
	PaperworkApprovedBy string `json:"paperwork_approved_by,omitempty"`

	PaymentRequired    bool       `json:"payment_required"`
	PaymentStatus      string     `json:"payment_status"`
	PaymentAmountCents int        `json:"payment_amount_cents,omitempty"`
	PaymentMethod      string     `json:"payment_method,omitempty"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AttendeeCount returns the number of people on the roster.
func (r *RSVP) AttendeeCount() int { return len(r.Attendees) }

// RSVPSubmission is the validated input to the submit workflow.
type RSVPSubmission struct {
	EventID             string
	FamilyName          string
	Email               string
	Phone               string
	Attendees           []Attendee
	DietaryRestrictions string
	SpecialNeeds        string
	Notes               string
	IPHash              string
	UserAgent           string
}

// SubmitResult is returned to the caller on a successful submit so the client
// can update its display optimistically.
type SubmitResult struct {
	RSVP               *RSVP `json:"rsvp"`
	Created            bool  `json:"created"`
	NewAttendeeCount   int   `json:"new_attendee_count"`
	PaymentRequired    bool  `json:"payment_required"`
	PaymentAmountCents int   `json:"payment_amount_cents,omitempty"`
	PaymentCurrency    string `json:"payment_currency,omitempty"`
}

// EventRoster is the privileged admin view of all RSVPs for one event with
// aggregates recomputed from the loaded roster.
type EventRoster struct {
	RSVPs          []*RSVP        `json:"rsvps"`
	TotalRSVPs     int            `json:"total_rsvps"`
	TotalAttendees int            `json:"total_attendees"`
	ByDen          map[string]int `json:"by_den"`
}

// RSVPRepository defines storage operations for RSVPs. Create and Update run
// the capacity admission transactionally against the event row; both return
// the event's new attendee total.
type RSVPRepository interface {
	// Create inserts a new RSVP after a capacity check, all in one
	// transaction holding a lock on the event row. Returns the event's new
	// attendee total. Fails with *CapacityError when the roster would not
	// fit, ErrAlreadyExists on a duplicate (event, user) insert, and
	// ErrNotFound when the event is missing.
	Create(ctx context.Context, rsvp *RSVP) (newTotal int, err error)
	// Update mutates the mutable fields of an existing RSVP. The capacity
	// baseline excludes the RSVP's own prior attendees, so a family can
	// shrink or regrow its roster without double-counting itself.
	Update(ctx context.Context, rsvp *RSVP) (newTotal int, err error)
	GetByID(ctx context.Context, id string) (*RSVP, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*RSVP, error)
	ListByEventID(ctx context.Context, eventID string) ([]*RSVP, error)
	ListByUserID(ctx context.Context, userID string) ([]*RSVP, error)
	Delete(ctx context.Context, id string) error
	SetPaperwork(ctx context.Context, id string, complete bool, approvedBy string) error
	SetPaymentStatus(ctx context.Context, id, status, method string, paidAt *time.Time) error
	// CountAttendees sums attendee roster sizes for one event.
	CountAttendees(ctx context.Context, eventID string) (int, error)
	// CountAttendeesBatch resolves totals for many events in one query.
	// Events with no RSVPs are absent from the result map.
	CountAttendeesBatch(ctx context.Context, eventIDs []string) (map[string]int, error)
}

// RSVPService defines the submission, admin, and deletion workflows.
type RSVPService interface {
	// Submit validates the submission and routes it to the create or update
	// path depending on whether the user already has an RSVP for the event.
	Submit(ctx context.Context, userID, userEmail string, sub *RSVPSubmission) (*SubmitResult, error)
	ListMyRSVPs(ctx context.Context, userID string) ([]*RSVP, error)
	// Delete removes an RSVP. Allowed for the owner, admins, and holders of
	// the events:delete permission.
	Delete(ctx context.Context, callerID, rsvpID string) error
	// GetEventRoster is the privileged admin read path; requires the admin
	// role or the rsvps:read permission.
	GetEventRoster(ctx context.Context, callerID, eventID string) (*EventRoster, error)
	// ExportEventRoster flattens the roster to CSV. Pure projection.
	ExportEventRoster(ctx context.Context, callerID, eventID string) ([]byte, error)
	SetPaperwork(ctx context.Context, callerID, rsvpID string, complete bool) error
}

// CountService resolves per-event attendee totals for display, batched and
// cached. It never fails the render path: counts degrade to zero.
type CountService interface {
	GetBatchCounts(ctx context.Context, eventIDs []string) map[string]int
	GetCount(ctx context.Context, eventID string) int
	// Invalidate drops any cached count for the event.
	Invalidate(eventID string)
}
