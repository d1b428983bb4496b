package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/controllers"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/middleware"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Event listings and counts are public; everything that writes, and every
// admin read, requires a Bearer token.
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	rsvpController *controllers.RSVPController,
	paymentController *controllers.PaymentController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.DeleteEvent))

	// RSVPs
	mux.HandleFunc("POST /events/{eventID}/rsvp", auth(rsvpController.SubmitRSVP))
	mux.HandleFunc("GET /events/{eventID}/rsvps/count", rsvpController.GetCount)
	mux.HandleFunc("POST /rsvps/counts", rsvpController.BatchCounts)
	mux.HandleFunc("GET /rsvps/mine", auth(rsvpController.ListMyRSVPs))
	mux.HandleFunc("DELETE /rsvps/{rsvpID}", auth(rsvpController.DeleteRSVP))

	// Admin
	mux.HandleFunc("GET /admin/events/{eventID}/rsvps", auth(rsvpController.GetEventRoster))
	mux.HandleFunc("GET /admin/events/{eventID}/rsvps/export", auth(rsvpController.ExportEventRoster))
	mux.HandleFunc("PATCH /admin/rsvps/{rsvpID}/paperwork", auth(rsvpController.SetPaperwork))

	// Payments
	mux.HandleFunc("POST /payments/rsvp", auth(paymentController.CreatePayment))
	mux.HandleFunc("POST /payments/rsvp/complete", auth(paymentController.CompletePayment))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
