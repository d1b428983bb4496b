package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	minFamilyNameLen = 2
	maxAttendeeAge   = 120

	// Submission throttle: at most this many submits per user per window.
	submitLimit  = 5
	submitWindow = time.Minute
)

// submitLimiter is a per-user sliding window over submission timestamps.
// Kept in memory; a restart resets it, which is acceptable for a throttle.
type submitLimiter struct {
	mu      sync.Mutex
	history map[string][]time.Time
	now     func() time.Time
}

func newSubmitLimiter() *submitLimiter {
	return &submitLimiter{history: make(map[string][]time.Time), now: time.Now}
}

// allow records an attempt and reports whether the user is within the limit.
func (l *submitLimiter) allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-submitWindow)
	recent := l.history[userID][:0]
	for _, t := range l.history[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= submitLimit {
		l.history[userID] = recent
		return false
	}
	l.history[userID] = append(recent, now)
	return true
}

type rsvpService struct {
	rsvpRepo     domain.RSVPRepository
	eventRepo    domain.EventRepository
	counts       domain.CountService
	authz        domain.Authorizer
	emailService domain.EmailService
	limiter      *submitLimiter
	logger       *slog.Logger
}

// NewRSVPService creates the RSVP workflow service. emailService may be nil to
// skip confirmation emails.
func NewRSVPService(
	rsvpRepo domain.RSVPRepository,
	eventRepo domain.EventRepository,
	counts domain.CountService,
	authz domain.Authorizer,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.RSVPService {
	return &rsvpService{
		rsvpRepo:     rsvpRepo,
		eventRepo:    eventRepo,
		counts:       counts,
		authz:        authz,
		emailService: emailService,
		limiter:      newSubmitLimiter(),
		logger:       logger,
	}
}

// validateSubmission collects field-level errors for the whole submission so
// the caller can show them inline.
func validateSubmission(sub *domain.RSVPSubmission) []string {
	var errs []string
	if sub.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if len(strings.TrimSpace(sub.FamilyName)) < minFamilyNameLen {
		errs = append(errs, "family_name must be at least 2 characters")
	}
	if !emailRegexp.MatchString(strings.TrimSpace(sub.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	if len(sub.Attendees) == 0 {
		errs = append(errs, "at least one attendee is required")
	}
	for i, a := range sub.Attendees {
		if strings.TrimSpace(a.Name) == "" {
			errs = append(errs, fmt.Sprintf("attendees[%d].name is required", i))
		}
		if a.Age < 0 || a.Age > maxAttendeeAge {
			errs = append(errs, fmt.Sprintf("attendees[%d].age must be between 0 and %d", i, maxAttendeeAge))
		}
	}
	return errs
}

func (s *rsvpService) Submit(ctx context.Context, userID, userEmail string, sub *domain.RSVPSubmission) (*domain.SubmitResult, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if errs := validateSubmission(sub); len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}
	if !s.limiter.allow(userID) {
		return nil, domain.ErrRateLimited
	}

	event, err := s.eventRepo.GetByID(ctx, sub.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Route to the update path when the user already has an RSVP. This
	// lookup is a fast path only; the unique (event_id, user_id) constraint
	// in the repository is what actually prevents duplicates when two
	// submissions race.
	existing, err := s.rsvpRepo.GetByEventAndUser(ctx, sub.EventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get existing rsvp: %w", err)
	}
	if existing != nil {
		return s.update(ctx, event, existing, sub)
	}

	result, err := s.create(ctx, event, userID, userEmail, sub)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Lost a race with a concurrent submit from the same user (another
		// tab). The record exists now, so fall through to the update path.
		existing, getErr := s.rsvpRepo.GetByEventAndUser(ctx, sub.EventID, userID)
		if getErr != nil {
			return nil, fmt.Errorf("get rsvp after duplicate insert: %w", getErr)
		}
		return s.update(ctx, event, existing, sub)
	}
	return result, err
}

func (s *rsvpService) create(ctx context.Context, event *domain.Event, userID, userEmail string, sub *domain.RSVPSubmission) (*domain.SubmitResult, error) {
	now := time.Now()
	rsvp := &domain.RSVP{
		EventID:             event.ID,
		UserID:              userID,
		UserEmail:           userEmail,
		FamilyName:          strings.TrimSpace(sub.FamilyName),
		Email:               strings.TrimSpace(sub.Email),
		Phone:               strings.TrimSpace(sub.Phone),
		Attendees:           sub.Attendees,
		DietaryRestrictions: sub.DietaryRestrictions,
		SpecialNeeds:        sub.SpecialNeeds,
		Notes:               sub.Notes,
		IPHash:              sub.IPHash,
		UserAgent:           sub.UserAgent,
		PaymentStatus:       domain.PaymentNotRequired,
		SubmittedAt:         now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if event.RequiresPayment() {
		rsvp.PaymentRequired = true
		rsvp.PaymentStatus = domain.PaymentPending
		rsvp.PaymentAmountCents = event.FeeCents
	}

	newTotal, err := s.rsvpRepo.Create(ctx, rsvp)
	if err != nil {
		return nil, err
	}
	s.counts.Invalidate(event.ID)
	s.sendConfirmation(ctx, event, rsvp)

	return &domain.SubmitResult{
		RSVP:               rsvp,
		Created:            true,
		NewAttendeeCount:   newTotal,
		PaymentRequired:    rsvp.PaymentRequired,
		PaymentAmountCents: rsvp.PaymentAmountCents,
		PaymentCurrency:    event.Currency,
	}, nil
}

func (s *rsvpService) update(ctx context.Context, event *domain.Event, existing *domain.RSVP, sub *domain.RSVPSubmission) (*domain.SubmitResult, error) {
	existing.FamilyName = strings.TrimSpace(sub.FamilyName)
	existing.Email = strings.TrimSpace(sub.Email)
	existing.Phone = strings.TrimSpace(sub.Phone)
	existing.Attendees = sub.Attendees
	existing.DietaryRestrictions = sub.DietaryRestrictions
	existing.SpecialNeeds = sub.SpecialNeeds
	existing.Notes = sub.Notes
	existing.IPHash = sub.IPHash
	existing.UserAgent = sub.UserAgent

	newTotal, err := s.rsvpRepo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	s.counts.Invalidate(event.ID)

	return &domain.SubmitResult{
		RSVP:               existing,
		Created:            false,
		NewAttendeeCount:   newTotal,
		PaymentRequired:    existing.PaymentRequired,
		PaymentAmountCents: existing.PaymentAmountCents,
		PaymentCurrency:    event.Currency,
	}, nil
}

// sendConfirmation is best effort; a mail failure never fails the submit.
func (s *rsvpService) sendConfirmation(ctx context.Context, event *domain.Event, rsvp *domain.RSVP) {
	if s.emailService == nil {
		return
	}
	data := &domain.RSVPConfirmationEmailData{
		Email:           rsvp.Email,
		FamilyName:      rsvp.FamilyName,
		EventTitle:      event.Title,
		EventStartsAt:   event.StartsAt.Format("Monday, January 2 2006 at 3:04 PM"),
		AttendeeCount:   rsvp.AttendeeCount(),
		PaymentRequired: rsvp.PaymentRequired,
	}
	if rsvp.PaymentRequired {
		data.PaymentAmount = fmt.Sprintf("$%.2f", float64(rsvp.PaymentAmountCents)/100)
	}
	if err := s.emailService.SendRSVPConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation email failed", "rsvp_id", rsvp.ID, "err", err)
	}
}

func (s *rsvpService) ListMyRSVPs(ctx context.Context, userID string) ([]*domain.RSVP, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	rsvps, err := s.rsvpRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	return rsvps, nil
}

func (s *rsvpService) Delete(ctx context.Context, callerID, rsvpID string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get rsvp: %w", err)
	}
	if rsvp.UserID != callerID {
		allowed, err := s.authz.HasPermission(ctx, callerID, domain.PermEventsDelete)
		if err != nil {
			return fmt.Errorf("check permission: %w", err)
		}
		if !allowed {
			return domain.ErrForbidden
		}
	}
	if err := s.rsvpRepo.Delete(ctx, rsvpID); err != nil {
		return fmt.Errorf("delete rsvp: %w", err)
	}
	s.counts.Invalidate(rsvp.EventID)
	return nil
}

func (s *rsvpService) GetEventRoster(ctx context.Context, callerID, eventID string) (*domain.EventRoster, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	allowed, err := s.authz.HasPermission(ctx, callerID, domain.PermRSVPsRead)
	if err != nil {
		return nil, fmt.Errorf("check permission: %w", err)
	}
	if !allowed {
		return nil, domain.ErrForbidden
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	rsvps, err := s.rsvpRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}

	roster := &domain.EventRoster{
		RSVPs:      rsvps,
		TotalRSVPs: len(rsvps),
		ByDen:      make(map[string]int),
	}
	for _, r := range rsvps {
		roster.TotalAttendees += r.AttendeeCount()
		for _, a := range r.Attendees {
			den := a.Den
			if den == "" {
				den = "unassigned"
			}
			roster.ByDen[den]++
		}
	}
	return roster, nil
}

// csv header for the roster export.
var exportHeader = []string{
	"family_name", "contact_email", "phone", "attendees",
	"attendee_count", "payment_status", "payment_amount",
	"dietary_restrictions", "special_needs", "notes", "submitted_at",
}

func (s *rsvpService) ExportEventRoster(ctx context.Context, callerID, eventID string) ([]byte, error) {
	roster, err := s.GetEventRoster(ctx, callerID, eventID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range roster.RSVPs {
		names := make([]string, 0, len(r.Attendees))
		for _, a := range r.Attendees {
			label := fmt.Sprintf("%s (%d", a.Name, a.Age)
			if a.Den != "" {
				label += ", " + a.Den
			}
			label += ")"
			names = append(names, label)
		}
		amount := ""
		if r.PaymentRequired {
			amount = fmt.Sprintf("%.2f", float64(r.PaymentAmountCents)/100)
		}
		record := []string{
			r.FamilyName, r.Email, r.Phone, strings.Join(names, "; "),
			strconv.Itoa(r.AttendeeCount()), r.PaymentStatus, amount,
			r.DietaryRestrictions, r.SpecialNeeds, r.Notes,
			r.SubmittedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *rsvpService) SetPaperwork(ctx context.Context, callerID, rsvpID string, complete bool) error {
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
	approvedBy := ""
	if complete {
		approvedBy = callerID
	}
	if err := s.rsvpRepo.SetPaperwork(ctx, rsvpID, complete, approvedBy); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set paperwork: %w", err)
	}
	return nil
}
