package domain

import (
	"context"
	"time"
)

// Payment tracks one payment attempt for an RSVP to an event with a fee.
// A failed payment never invalidates the underlying RSVP.
// swagger:model Payment
type Payment struct {
	ID                string    `json:"id"`
	RSVPID            string    `json:"rsvp_id"`
	EventID           string    `json:"event_id"`
	ProviderPaymentID string    `json:"provider_payment_id"`
	AmountCents       int       `json:"amount_cents"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PaymentIntent is what the client needs to run the provider's card
// tokenization step.
type PaymentIntent struct {
	PaymentID     string `json:"payment_id"`
	ApplicationID string `json:"application_id"`
	LocationID    string `json:"location_id"`
	AmountCents   int    `json:"amount_cents"`
	Currency      string `json:"currency"`
}

// PaymentProvider is the outbound port to the card processor.
type PaymentProvider interface {
	// CreatePayment registers an intent with the provider and returns its id
	// plus the application/location ids the client tokenizer needs.
	CreatePayment(ctx context.Context, amountCents int, currency, reference string) (providerPaymentID, applicationID, locationID string, err error)
	// CompletePayment charges the tokenized card (nonce) against the intent.
	CompletePayment(ctx context.Context, providerPaymentID, nonce string) error
}

// PaymentRepository defines storage operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// PaymentService drives the RSVP payment sub-flow.
type PaymentService interface {
	CreateRSVPPayment(ctx context.Context, callerID, rsvpID string) (*PaymentIntent, error)
	CompleteRSVPPayment(ctx context.Context, callerID, paymentID, rsvpID, nonce string) error
}
