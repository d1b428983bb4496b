package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var capNull sql.NullInt64
	var currencyNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt,
		&capNull, &e.FeeCents, &currencyNull, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if capNull.Valid {
		v := int(capNull.Int64)
		e.MaxCapacity = &v
	}
	if currencyNull.Valid {
		e.Currency = currencyNull.String
	}
	return e, nil
}

const eventColumns = "id, title, description, location, starts_at, max_capacity, fee_cents, currency, created_by, created_at, updated_at"

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, starts_at, max_capacity, fee_cents, currency, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var capArg any
	if e.MaxCapacity != nil {
		capArg = *e.MaxCapacity
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.StartsAt, capArg,
		e.FeeCents, e.Currency, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time, p domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE starts_at >= $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, from).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE starts_at >= $1
		ORDER BY starts_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, from, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, title, description, location *string, startsAt *time.Time, maxCapacity *int, feeCents *int) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *title)
		n++
	}
	if description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *description)
		n++
	}
	if location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *location)
		n++
	}
	if startsAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("starts_at = $%d", n))
		args = append(args, *startsAt)
		n++
	}
	if maxCapacity != nil {
		// Zero clears the cap back to unlimited.
		if *maxCapacity == 0 {
			setClauses = append(setClauses, "max_capacity = NULL")
		} else {
			setClauses = append(setClauses, fmt.Sprintf("max_capacity = $%d", n))
			args = append(args, *maxCapacity)
			n++
		}
	}
	if feeCents != nil {
		setClauses = append(setClauses, fmt.Sprintf("fee_cents = $%d", n))
		args = append(args, *feeCents)
		n++
	}
	if n == 1 && maxCapacity == nil {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns+`
	`, strings.Join(setClauses, ", "), n)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
