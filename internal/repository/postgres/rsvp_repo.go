package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{DB: db}
}

const rsvpColumns = `id, event_id, user_id, user_email, family_name, email, phone,
		attendees, attendee_count, dietary_restrictions, special_needs, notes,
		ip_hash, user_agent, paperwork_complete, paperwork_approved_by,
		payment_required, payment_status, payment_amount_cents, payment_method, paid_at,
		submitted_at, created_at, updated_at`

// uniqueViolation is the Postgres error code for a unique constraint violation.
const uniqueViolation = "23505"

// lockEventCapacity acquires a row-level lock on the event inside tx and
// returns its max_capacity (nil = unlimited). The lock serializes concurrent
// admissions for the same event so the read-check-insert sequence cannot
// overbook.
func lockEventCapacity(ctx context.Context, tx *sql.Tx, eventID string) (*int, error) {
	var capNull sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT max_capacity FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&capNull)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}
	if !capNull.Valid {
		return nil, nil
	}
	v := int(capNull.Int64)
	return &v, nil
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.RSVP) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	maxCapacity, err := lockEventCapacity(ctx, tx, rsvp.EventID)
	if err != nil {
		return 0, err
	}

	var total int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(attendee_count), 0) FROM rsvps WHERE event_id = $1`,
		rsvp.EventID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum attendee counts: %w", err)
	}

	n := rsvp.AttendeeCount()
	if maxCapacity != nil && total+n > *maxCapacity {
		remaining := *maxCapacity - total
		if remaining < 0 {
			remaining = 0
		}
		return 0, &domain.CapacityError{Remaining: remaining}
	}

	if rsvp.ID == "" {
		rsvp.ID = uuid.New().String()
	}
	attendeesJSON, err := json.Marshal(rsvp.Attendees)
	if err != nil {
		return 0, fmt.Errorf("marshal attendees: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rsvps (`+rsvpColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		rsvp.ID, rsvp.EventID, rsvp.UserID, rsvp.UserEmail, rsvp.FamilyName, rsvp.Email, rsvp.Phone,
		attendeesJSON, n, rsvp.DietaryRestrictions, rsvp.SpecialNeeds, rsvp.Notes,
		rsvp.IPHash, rsvp.UserAgent, rsvp.PaperworkComplete, rsvp.PaperworkApprovedBy,
		rsvp.PaymentRequired, rsvp.PaymentStatus, rsvp.PaymentAmountCents, rsvp.PaymentMethod, rsvp.PaidAt,
		rsvp.SubmittedAt, rsvp.CreatedAt, rsvp.UpdatedAt,
	)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && string(pgErr.Code) == uniqueViolation {
			return 0, domain.ErrAlreadyExists
		}
		return 0, fmt.Errorf("insert rsvp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return total + n, nil
}

func (r *rsvpRepository) Update(ctx context.Context, rsvp *domain.RSVP) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	maxCapacity, err := lockEventCapacity(ctx, tx, rsvp.EventID)
	if err != nil {
		return 0, err
	}

	// Baseline excludes this RSVP's own prior attendees, so only the delta
	// is admitted against capacity.
	var totalOthers int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(attendee_count), 0) FROM rsvps WHERE event_id = $1 AND id <> $2`,
		rsvp.EventID, rsvp.ID,
	).Scan(&totalOthers)
	if err != nil {
		return 0, fmt.Errorf("sum attendee counts: %w", err)
	}

	n := rsvp.AttendeeCount()
	if maxCapacity != nil && totalOthers+n > *maxCapacity {
		remaining := *maxCapacity - totalOthers
		if remaining < 0 {
			remaining = 0
		}
		return 0, &domain.CapacityError{Remaining: remaining}
	}

	attendeesJSON, err := json.Marshal(rsvp.Attendees)
	if err != nil {
		return 0, fmt.Errorf("marshal attendees: %w", err)
	}

	// submitted_at and created_at are immutable; only mutable fields change.
	result, err := tx.ExecContext(ctx, `
		UPDATE rsvps
		SET family_name = $1, email = $2, phone = $3,
		    attendees = $4, attendee_count = $5,
		    dietary_restrictions = $6, special_needs = $7, notes = $8,
		    ip_hash = $9, user_agent = $10, updated_at = NOW()
		WHERE id = $11`,
		rsvp.FamilyName, rsvp.Email, rsvp.Phone,
		attendeesJSON, n,
		rsvp.DietaryRestrictions, rsvp.SpecialNeeds, rsvp.Notes,
		rsvp.IPHash, rsvp.UserAgent, rsvp.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update rsvp: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return 0, domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return totalOthers + n, nil
}

func scanRSVP(row interface{ Scan(...any) error }) (*domain.RSVP, error) {
	rsvp := &domain.RSVP{}
	var attendeesJSON []byte
	var attendeeCount int
	var paidAtNull sql.NullTime
	err := row.Scan(
		&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.UserEmail, &rsvp.FamilyName, &rsvp.Email, &rsvp.Phone,
		&attendeesJSON, &attendeeCount, &rsvp.DietaryRestrictions, &rsvp.SpecialNeeds, &rsvp.Notes,
		&rsvp.IPHash, &rsvp.UserAgent, &rsvp.PaperworkComplete, &rsvp.PaperworkApprovedBy,
		&rsvp.PaymentRequired, &rsvp.PaymentStatus, &rsvp.PaymentAmountCents, &rsvp.PaymentMethod, &paidAtNull,
		&rsvp.SubmittedAt, &rsvp.CreatedAt, &rsvp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attendeesJSON, &rsvp.Attendees); err != nil {
		return nil, fmt.Errorf("unmarshal attendees: %w", err)
	}
	if paidAtNull.Valid {
		rsvp.PaidAt = &paidAtNull.Time
	}
	return rsvp, nil
}

func (r *rsvpRepository) GetByID(ctx context.Context, id string) (*domain.RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE id = $1`
	rsvp, err := scanRSVP(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 AND user_id = $2`
	rsvp, err := scanRSVP(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 ORDER BY submitted_at ASC`
	return r.list(ctx, query, eventID)
}

func (r *rsvpRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE user_id = $1 ORDER BY submitted_at DESC`
	return r.list(ctx, query, userID)
}

func (r *rsvpRepository) list(ctx context.Context, query string, arg any) ([]*domain.RSVP, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rsvps := make([]*domain.RSVP, 0)
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, rows.Err()
}

func (r *rsvpRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM rsvps WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rsvpRepository) SetPaperwork(ctx context.Context, id string, complete bool, approvedBy string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE rsvps SET paperwork_complete = $1, paperwork_approved_by = $2, updated_at = NOW() WHERE id = $3`,
		complete, approvedBy, id,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rsvpRepository) SetPaymentStatus(ctx context.Context, id, status, method string, paidAt *time.Time) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE rsvps SET payment_status = $1, payment_method = $2, paid_at = $3, updated_at = NOW() WHERE id = $4`,
		status, method, paidAt, id,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rsvpRepository) CountAttendees(ctx context.Context, eventID string) (int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(attendee_count), 0) FROM rsvps WHERE event_id = $1`,
		eventID,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *rsvpRepository) CountAttendeesBatch(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT event_id, COALESCE(SUM(attendee_count), 0)
		 FROM rsvps
		 WHERE event_id = ANY($1)
		 GROUP BY event_id`,
		pq.Array(eventIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var total int
		if err := rows.Scan(&id, &total); err != nil {
			return nil, err
		}
		counts[id] = total
	}
	return counts, rows.Err()
}
