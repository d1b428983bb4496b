package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RSVPConfirmationEmailData holds data for the RSVP confirmation email.
type RSVPConfirmationEmailData struct {
	Email           string
	FamilyName      string
	EventTitle      string
	EventStartsAt   string
	AttendeeCount   int
	PaymentRequired bool
	PaymentAmount   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRSVPConfirmation(ctx context.Context, data *RSVPConfirmationEmailData) error
}
