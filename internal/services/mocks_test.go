package services

import (
	"context"
	"time"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

// Shared hand-rolled mocks for service tests.

type mockRSVPRepo struct {
	createTotal int
	createErr   error
	created     *domain.RSVP
	updateTotal int
	updateErr   error
	updated     *domain.RSVP

	byEventAndUser map[string]*domain.RSVP // eventID + ":" + userID
	byID           map[string]*domain.RSVP
	byEvent        map[string][]*domain.RSVP
	byUser         map[string][]*domain.RSVP

	deleteErr error
	deletedID string

	paperworkID       string
	paperworkComplete bool
	paperworkBy       string

	paymentStatusID     string
	paymentStatusValue  string
	paymentStatusMethod string

	countByEvent map[string]int
	countErr     error
	countCalls   int
	batchCounts  map[string]int
	batchErr     error
	batchCalls   int
}

func (m *mockRSVPRepo) Create(ctx context.Context, rsvp *domain.RSVP) (int, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	rsvp.ID = "rsvp-new"
	m.created = rsvp
	return m.createTotal, nil
}

func (m *mockRSVPRepo) Update(ctx context.Context, rsvp *domain.RSVP) (int, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	m.updated = rsvp
	return m.updateTotal, nil
}

func (m *mockRSVPRepo) GetByID(ctx context.Context, id string) (*domain.RSVP, error) {
	if r, ok := m.byID[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockRSVPRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	if r, ok := m.byEventAndUser[eventID+":"+userID]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockRSVPRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	return m.byEvent[eventID], nil
}

func (m *mockRSVPRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.RSVP, error) {
	return m.byUser[userID], nil
}

func (m *mockRSVPRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func (m *mockRSVPRepo) SetPaperwork(ctx context.Context, id string, complete bool, approvedBy string) error {
	m.paperworkID = id
	m.paperworkComplete = complete
	m.paperworkBy = approvedBy
	return nil
}

func (m *mockRSVPRepo) SetPaymentStatus(ctx context.Context, id, status, method string, paidAt *time.Time) error {
	m.paymentStatusID = id
	m.paymentStatusValue = status
	m.paymentStatusMethod = method
	return nil
}

func (m *mockRSVPRepo) CountAttendees(ctx context.Context, eventID string) (int, error) {
	m.countCalls++
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.countByEvent[eventID], nil
}

func (m *mockRSVPRepo) CountAttendeesBatch(ctx context.Context, eventIDs []string) (map[string]int, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make(map[string]int)
	for _, id := range eventIDs {
		if n, ok := m.batchCounts[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type mockEventRepo struct {
	events    map[string]*domain.Event
	created   *domain.Event
	createErr error
	deleteErr error
	deletedID string
}

func (m *mockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	event.ID = "ev-new"
	m.created = event
	return nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockEventRepo) ListUpcoming(ctx context.Context, from time.Time, p domain.PaginationParams) ([]*domain.Event, int, error) {
	out := make([]*domain.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *mockEventRepo) Update(ctx context.Context, eventID string, title, description, location *string, startsAt *time.Time, maxCapacity *int, feeCents *int) (*domain.Event, error) {
	e, ok := m.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if title != nil {
		e.Title = *title
	}
	return e, nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	m.deletedID = id
	return nil
}

type fakeCountService struct {
	counts      map[string]int
	invalidated []string
}

func (f *fakeCountService) GetBatchCounts(ctx context.Context, eventIDs []string) map[string]int {
	out := make(map[string]int)
	for _, id := range eventIDs {
		out[id] = f.counts[id]
	}
	return out
}

func (f *fakeCountService) GetCount(ctx context.Context, eventID string) int {
	return f.counts[eventID]
}

func (f *fakeCountService) Invalidate(eventID string) {
	f.invalidated = append(f.invalidated, eventID)
}

type mockAuthorizer struct {
	admin bool
	perms map[string]bool
	err   error
}

func (m *mockAuthorizer) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return m.admin, m.err
}

func (m *mockAuthorizer) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.admin {
		return true, nil
	}
	return m.perms[permission], nil
}

type mockEmailService struct {
	sent []*domain.RSVPConfirmationEmailData
	err  error
}

func (m *mockEmailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, data)
	return nil
}

type mockPaymentRepo struct {
	payments  map[string]*domain.Payment
	created   *domain.Payment
	createErr error
	statuses  map[string]string
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = "pay-new"
	m.created = p
	return nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if m.statuses == nil {
		m.statuses = make(map[string]string)
	}
	m.statuses[id] = status
	return nil
}

type mockPaymentProvider struct {
	providerID  string
	completeErr error
	createErr   error
	lastNonce   string
}

func (m *mockPaymentProvider) CreatePayment(ctx context.Context, amountCents int, currency, reference string) (string, string, string, error) {
	if m.createErr != nil {
		return "", "", "", m.createErr
	}
	return m.providerID, "app-1", "loc-1", nil
}

func (m *mockPaymentProvider) CompletePayment(ctx context.Context, providerPaymentID, nonce string) error {
	m.lastNonce = nonce
	return m.completeErr
}

type mockUserRepo struct {
	byEmail   map[string]*domain.User
	byID      map[string]*domain.User
	created   *domain.User
	roleUser  string
	roleID    string
	createErr error
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user-new"
	m.created = user
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	m.roleUser = userID
	m.roleID = roleID
	return nil
}

type mockRoleRepo struct {
	byCode      map[string]*domain.Role
	byUser      map[string][]*domain.Role
	permsByUser map[string][]string
	err         error
}

func (m *mockRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.byCode[code]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byUser[userID], nil
}

func (m *mockRoleRepo) ListPermissionsByUserID(ctx context.Context, userID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.permsByUser[userID], nil
}

type mockHasher struct {
	compareErr error
}

func (m *mockHasher) GenerateSalt() (string, error) { return "salt", nil }

func (m *mockHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}

func (m *mockHasher) Compare(hash, salt, password string) error { return m.compareErr }

type mockTokenIssuer struct {
	token     string
	lastEmail string
}

func (m *mockTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	m.lastEmail = email
	if m.token == "" {
		return "token-1", nil
	}
	return m.token, nil
}
