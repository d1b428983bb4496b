package services

import (
	"context"
	"fmt"
	"log"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendRSVPConfirmation sends the RSVP confirmation email using the
// "rsvp_confirmation" template and the given data.
func (s *emailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("rsvp_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render rsvp confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send rsvp confirmation email: %w", err)
	}
	log.Printf("[EMAIL] RSVP confirmation sent to %s", data.Email)
	return nil
}
