package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/helpers"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/middleware"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	MaxCapacity *int      `json:"max_capacity"`
	FeeCents    int       `json:"fee_cents"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.StartsAt.IsZero() {
		errs = append(errs, "starts_at is required")
	}
	if c.MaxCapacity != nil && *c.MaxCapacity < 1 {
		errs = append(errs, "max_capacity must be positive")
	}
	if c.FeeCents < 0 {
		errs = append(errs, "fee_cents must not be negative")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// All fields are optional; only present fields are updated.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	MaxCapacity *int       `json:"max_capacity"`
	FeeCents    *int       `json:"fee_cents"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if u.FeeCents != nil && *u.FeeCents < 0 {
		errs = append(errs, "fee_cents must not be negative")
	}
	return errs
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a pack event. Requires the admin role. MaxCapacity null means unlimited; a positive fee_cents makes the event paid.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Title, req.Description, req.Location, userID, req.StartsAt, req.MaxCapacity, req.FeeCents, now, now)
	if err := c.Service.CreateEvent(r.Context(), userID, event); err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event along with its current attendee count.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the event and attendee_count"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEvents godoc
// @Summary List upcoming events
// @Description Returns upcoming events with their current attendee counts. Counts come from the batch count cache and may be up to five minutes stale.
// @Tags events
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains the event list and pagination metadata"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	p := h.ParsePagination(r)
	events, total, err := c.Service.ListUpcomingEvents(r.Context(), p)
	if err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]any{
		"events":     events,
		"pagination": h.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially update an event. Requires the admin role. Only fields present in the body are changed.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), userID, eventID, req.Title, req.Description, req.Location, req.StartsAt, req.MaxCapacity, req.FeeCents)
	if err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Delete an event. Requires the admin role or the events:delete permission.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the deleted event id"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), userID, eventID); err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"id": eventID})
}

func (c *EventController) logUnexpected(r *http.Request, err error) {
	if isExpectedError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
