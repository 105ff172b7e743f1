package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"roomstay-backend/internal/security"
	"roomstay-backend/internal/service"
)

// Services bundles everything the router exposes.
type Services struct {
	Auth         service.AuthService
	Booking      service.BookingService
	Seat         service.SeatService
	Finance      service.FinanceService
	Notification service.NotificationService
}

// NewRouter builds the API route table. Everything except login and health
// sits behind the auth middleware.
func NewRouter(svcs Services, tokenMgr security.TokenManager) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	authHandler := NewAuthHandler(svcs.Auth)
	router.HandleFunc("/api/v1/auth/login", authHandler.Login).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokenMgr))

	bookings := NewBookingHandler(svcs.Booking)
	api.HandleFunc("/bookings", bookings.Create).Methods("POST")
	api.HandleFunc("/bookings", bookings.ListMine).Methods("GET")
	api.HandleFunc("/bookings/received", bookings.ListForProperties).Methods("GET")
	api.HandleFunc("/bookings/{id}", bookings.Get).Methods("GET")
	api.HandleFunc("/bookings/{id}", bookings.Delete).Methods("DELETE")
	api.HandleFunc("/bookings/{id}/confirm", bookings.Confirm).Methods("POST")
	api.HandleFunc("/bookings/{id}/reject", bookings.Reject).Methods("POST")
	api.HandleFunc("/bookings/{id}/cancel", bookings.Cancel).Methods("POST")
	api.HandleFunc("/bookings/{id}/check-in", bookings.CheckIn).Methods("POST")
	api.HandleFunc("/bookings/{id}/check-out", bookings.CheckOut).Methods("POST")

	seats := NewSeatHandler(svcs.Seat)
	api.HandleFunc("/properties/{property_id}/seats", seats.List).Methods("GET")
	api.HandleFunc("/properties/{property_id}/seats/available", seats.CountAvailable).Methods("GET")
	api.HandleFunc("/seats/{id}/toggle", seats.Toggle).Methods("POST")

	finance := NewFinanceHandler(svcs.Finance)
	api.HandleFunc("/payouts", finance.RequestPayout).Methods("POST")
	api.HandleFunc("/payouts", finance.ListPayouts).Methods("GET")
	api.HandleFunc("/payouts/{id}/process", finance.ProcessPayout).Methods("POST")
	api.HandleFunc("/earnings", finance.ListEarnings).Methods("GET")
	api.HandleFunc("/earnings/summary", finance.EarningsSummary).Methods("GET")
	api.HandleFunc("/payments", finance.ListPayments).Methods("GET")
	api.HandleFunc("/payout-methods", finance.AddPayoutMethod).Methods("POST")
	api.HandleFunc("/payout-methods", finance.ListPayoutMethods).Methods("GET")
	api.HandleFunc("/payout-methods/{id}", finance.DeletePayoutMethod).Methods("DELETE")

	notifications := NewNotificationHandler(svcs.Notification)
	api.HandleFunc("/notifications", notifications.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notifications.MarkRead).Methods("POST")

	return router
}
