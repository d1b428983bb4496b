package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	h "github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/helpers"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/middleware"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

// AttendeeInput is one roster entry in a submission.
type AttendeeInput struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Den     string `json:"den"`
	IsAdult bool   `json:"is_adult"`
}

// SubmitRSVPRequest is the request body for POST /events/{eventID}/rsvp.
type SubmitRSVPRequest struct {
	FamilyName          string          `json:"family_name"`
	Email               string          `json:"email"`
	Phone               string          `json:"phone"`
	Attendees           []AttendeeInput `json:"attendees"`
	DietaryRestrictions string          `json:"dietary_restrictions"`
	SpecialNeeds        string          `json:"special_needs"`
	Notes               string          `json:"notes"`
}

// Validate implements Validator. Only structural checks live here; field rules
// are enforced by the service so they hold for every caller.
func (s SubmitRSVPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.FamilyName) == "" {
		errs = append(errs, "family_name is required")
	}
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if len(s.Attendees) == 0 {
		errs = append(errs, "at least one attendee is required")
	}
	return errs
}

// SetPaperworkRequest is the request body for PATCH /admin/rsvps/{rsvpID}/paperwork.
type SetPaperworkRequest struct {
	Complete bool `json:"complete"`
}

// BatchCountsRequest is the request body for POST /rsvps/counts.
type BatchCountsRequest struct {
	EventIDs []string `json:"event_ids"`
}

// Validate implements Validator.
func (b BatchCountsRequest) Validate() []string {
	var errs []string
	if len(b.EventIDs) == 0 {
		errs = append(errs, "event_ids is required")
	}
	return errs
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
	Counts  domain.CountService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService, counts domain.CountService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
		Counts:  counts,
	}
}

// clientIPHash hashes the client's IP for the audit trail. The raw address is
// never stored.
func clientIPHash(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		// First hop is the client when behind a trusted proxy.
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	} else {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// SubmitRSVP godoc
// @Summary Submit an RSVP
// @Description Submit or update the caller's RSVP for an event. A user has at most one RSVP per event; submitting again replaces the roster and contact details. The whole roster is admitted or rejected atomically against the event's capacity.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SubmitRSVPRequest true "RSVP data"
// @Success 200 {object} helpers.APIResponse "data contains the rsvp, created flag, and new_attendee_count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: capacity_exceeded"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [post]
func (c *RSVPController) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req SubmitRSVPRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	// Account identity comes from the verified token. The body's email is
	// only a contact address and never overwrites it.
	accountEmail, _ := middleware.UserEmailFromContext(r.Context())

	attendees := make([]domain.Attendee, 0, len(req.Attendees))
	for _, a := range req.Attendees {
		attendees = append(attendees, domain.Attendee{
			Name:    a.Name,
			Age:     a.Age,
			Den:     a.Den,
			IsAdult: a.IsAdult,
		})
	}
	sub := &domain.RSVPSubmission{
		EventID:             eventID,
		FamilyName:          req.FamilyName,
		Email:               req.Email,
		Phone:               req.Phone,
		Attendees:           attendees,
		DietaryRestrictions: req.DietaryRestrictions,
		SpecialNeeds:        req.SpecialNeeds,
		Notes:               req.Notes,
		IPHash:              clientIPHash(r),
		UserAgent:           r.UserAgent(),
	}

	result, err := c.Service.Submit(r.Context(), userID, accountEmail, sub)
	if err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	h.WriteJSONSuccess(w, status, result)
}

// ListMyRSVPs godoc
// @Summary List the caller's RSVPs
// @Description Returns every RSVP the authenticated user has submitted, newest first.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the rsvp list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/mine [get]
func (c *RSVPController) ListMyRSVPs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvps, err := c.Service.ListMyRSVPs(r.Context(), userID)
	if err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rsvps)
}

// DeleteRSVP godoc
// @Summary Delete an RSVP
// @Description Delete an RSVP. Allowed for the RSVP's owner, admins, and holders of the events:delete permission.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the deleted rsvp id"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/{rsvpID} [delete]
func (c *RSVPController) DeleteRSVP(w http.ResponseWriter, r *http.Request) {
	rsvpID := r.PathValue("rsvpID")
	if rsvpID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing rsvpID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), userID, rsvpID); err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"id": rsvpID})
}

// GetEventRoster godoc
// @Summary Get the roster for an event
// @Description Returns every RSVP for the event with per-den and total aggregates. Requires the admin role or the rsvps:read permission.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains rsvps, total_rsvps, total_attendees, and by_den"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/rsvps [get]
func (c *RSVPController) GetEventRoster(w http.ResponseWriter, r *http.Request) {
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
	roster, err := c.Service.GetEventRoster(r.Context(), userID, eventID)
	if err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, roster)
}

// ExportEventRoster godoc
// @Summary Export the roster as CSV
// @Description Downloads the event roster as a CSV file. Requires the admin role or the rsvps:read permission.
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {string} string "CSV file"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/rsvps/export [get]
func (c *RSVPController) ExportEventRoster(w http.ResponseWriter, r *http.Request) {
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
	data, err := c.Service.ExportEventRoster(r.Context(), userID, eventID)
	if err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "roster-"+eventID+".csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// SetPaperwork godoc
// @Summary Set an RSVP's paperwork status
// @Description Mark an RSVP's paperwork complete or incomplete. Requires the admin role. Completing records the approving admin.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID (UUID)"
// @Param body body SetPaperworkRequest true "Paperwork status"
// @Success 200 {object} helpers.APIResponse "data contains the rsvp id and paperwork status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/rsvps/{rsvpID}/paperwork [patch]
func (c *RSVPController) SetPaperwork(w http.ResponseWriter, r *http.Request) {
	rsvpID := r.PathValue("rsvpID")
	if rsvpID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing rsvpID")
		return
	}
	var req SetPaperworkRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.SetPaperwork(r.Context(), userID, rsvpID, req.Complete); err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]any{"id": rsvpID, "paperwork_complete": req.Complete})
}

// BatchCounts godoc
// @Summary Get attendee counts for many events
// @Description Returns the attendee total for each requested event in one call. Counts are cached for up to five minutes; events with no RSVPs report zero.
// @Tags rsvps
// @Accept json
// @Produce json
// @Param body body BatchCountsRequest true "Event IDs"
// @Success 200 {object} helpers.APIResponse "data maps event id to attendee count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /rsvps/counts [post]
func (c *RSVPController) BatchCounts(w http.ResponseWriter, r *http.Request) {
	var req BatchCountsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	counts := c.Counts.GetBatchCounts(r.Context(), req.EventIDs)
	h.WriteJSONSuccess(w, http.StatusOK, counts)
}

// GetCount godoc
// @Summary Get one event's attendee count
// @Description Returns the attendee total for a single event, served from the count cache when fresh.
// @Tags rsvps
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains event_id and attendee_count"
// @Router /events/{eventID}/rsvps/count [get]
func (c *RSVPController) GetCount(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	count := c.Counts.GetCount(r.Context(), eventID)
	h.WriteJSONSuccess(w, http.StatusOK, map[string]any{"event_id": eventID, "attendee_count": count})
}

func (c *RSVPController) logUnexpected(r *http.Request, err error) {
	if isExpectedError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
