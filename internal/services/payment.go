package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

type paymentService struct {
	paymentRepo domain.PaymentRepository
	rsvpRepo    domain.RSVPRepository
	provider    domain.PaymentProvider
	logger      *slog.Logger
}

// NewPaymentService creates the RSVP payment service.
func NewPaymentService(paymentRepo domain.PaymentRepository, rsvpRepo domain.RSVPRepository, provider domain.PaymentProvider, logger *slog.Logger) domain.PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		rsvpRepo:    rsvpRepo,
		provider:    provider,
		logger:      logger,
	}
}

func (s *paymentService) CreateRSVPPayment(ctx context.Context, callerID, rsvpID string) (*domain.PaymentIntent, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	if rsvp.UserID != callerID {
		return nil, domain.ErrForbidden
	}
	if !rsvp.PaymentRequired {
		return nil, fmt.Errorf("%w: rsvp does not require payment", domain.ErrInvalidInput)
	}
	if rsvp.PaymentStatus == domain.PaymentCompleted {
		return nil, fmt.Errorf("%w: rsvp is already paid", domain.ErrInvalidInput)
	}

	currency := "USD"
	providerID, applicationID, locationID, err := s.provider.CreatePayment(ctx, rsvp.PaymentAmountCents, currency, rsvp.ID)
	if err != nil {
		return nil, fmt.Errorf("create provider payment: %w", err)
	}

	now := time.Now()
	payment := &domain.Payment{
		RSVPID:            rsvp.ID,
		EventID:           rsvp.EventID,
		ProviderPaymentID: providerID,
		AmountCents:       rsvp.PaymentAmountCents,
		Currency:          currency,
		Status:            domain.PaymentPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("store payment: %w", err)
	}

	return &domain.PaymentIntent{
		PaymentID:     payment.ID,
		ApplicationID: applicationID,
		LocationID:    locationID,
		AmountCents:   payment.AmountCents,
		Currency:      currency,
	}, nil
}

func (s *paymentService) CompleteRSVPPayment(ctx context.Context, callerID, paymentID, rsvpID, nonce string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get payment: %w", err)
	}
	if payment.RSVPID != rsvpID {
		return fmt.Errorf("%w: payment does not belong to rsvp", domain.ErrInvalidInput)
	}
	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get rsvp: %w", err)
	}
	if rsvp.UserID != callerID {
		return domain.ErrForbidden
	}

	if err := s.provider.CompletePayment(ctx, payment.ProviderPaymentID, nonce); err != nil {
		// The attendance record stays valid; only the payment state moves to
		// failed so the family can retry.
		if statusErr := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentFailed); statusErr != nil {
			s.logger.ErrorContext(ctx, "mark payment failed", "payment_id", payment.ID, "err", statusErr)
		}
		if statusErr := s.rsvpRepo.SetPaymentStatus(ctx, rsvp.ID, domain.PaymentFailed, "", nil); statusErr != nil {
			s.logger.ErrorContext(ctx, "mark rsvp payment failed", "rsvp_id", rsvp.ID, "err", statusErr)
		}
		return fmt.Errorf("complete provider payment: %w", err)
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentCompleted); err != nil {
		return fmt.Errorf("mark payment completed: %w", err)
	}
	paidAt := time.Now()
	if err := s.rsvpRepo.SetPaymentStatus(ctx, rsvp.ID, domain.PaymentCompleted, "card", &paidAt); err != nil {
		return fmt.Errorf("mark rsvp paid: %w", err)
	}
	return nil
}
