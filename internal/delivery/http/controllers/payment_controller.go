package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/helpers"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/middleware"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

// CreatePaymentRequest is the request body for POST /payments/rsvp.
type CreatePaymentRequest struct {
	RSVPID string `json:"rsvp_id"`
}

// Validate implements Validator.
func (c CreatePaymentRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.RSVPID) == "" {
		errs = append(errs, "rsvp_id is required")
	}
	return errs
}

// CompletePaymentRequest is the request body for POST /payments/rsvp/complete.
type CompletePaymentRequest struct {
	PaymentID string `json:"payment_id"`
	RSVPID    string `json:"rsvp_id"`
	Nonce     string `json:"nonce"`
}

// Validate implements Validator.
func (c CompletePaymentRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.PaymentID) == "" {
		errs = append(errs, "payment_id is required")
	}
	if strings.TrimSpace(c.RSVPID) == "" {
		errs = append(errs, "rsvp_id is required")
	}
	if strings.TrimSpace(c.Nonce) == "" {
		errs = append(errs, "nonce is required")
	}
	return errs
}

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// CreatePayment godoc
// @Summary Start payment for an RSVP
// @Description Creates a payment intent with the card processor for a fee-bearing RSVP. Returns the ids the client tokenizer needs. Only the RSVP's owner may pay.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePaymentRequest true "RSVP to pay for"
// @Success 201 {object} helpers.APIResponse "data contains the payment intent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/rsvp [post]
func (c *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	intent, err := c.Service.CreateRSVPPayment(r.Context(), userID, req.RSVPID)
	if err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, intent)
}

// CompletePayment godoc
// @Summary Complete payment for an RSVP
// @Description Charges the tokenized card against the payment intent. On decline the RSVP stays valid with payment_status failed so the family can retry.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CompletePaymentRequest true "Payment completion data"
// @Success 200 {object} helpers.APIResponse "data contains the payment id and status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/rsvp/complete [post]
func (c *PaymentController) CompletePayment(w http.ResponseWriter, r *http.Request) {
	var req CompletePaymentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.CompleteRSVPPayment(r.Context(), userID, req.PaymentID, req.RSVPID, req.Nonce); err != nil {
		c.logUnexpected(r, err)
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{
		"payment_id": req.PaymentID,
		"status":     domain.PaymentCompleted,
	})
}

func (c *PaymentController) logUnexpected(r *http.Request, err error) {
	if isExpectedError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
