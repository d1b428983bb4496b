package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{DB: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payments (id, rsvp_id, event_id, provider_payment_id, amount_cents, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.RSVPID, p.EventID, p.ProviderPaymentID, p.AmountCents, p.Currency, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, rsvp_id, event_id, provider_payment_id, amount_cents, currency, status, created_at, updated_at
		FROM payments
		WHERE id = $1
	`
	p := &domain.Payment{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.RSVPID, &p.EventID, &p.ProviderPaymentID, &p.AmountCents, &p.Currency, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
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
