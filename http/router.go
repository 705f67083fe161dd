package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the session endpoints behind the rate limiter.
func NewRouter(handler *SessionHandler, limiter *RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return RateLimitMiddleware(limiter, next)
	})

	r.HandleFunc("/loan/request", handler.ProcessRequest).Methods(http.MethodPost)
	r.HandleFunc("/loan/offers", handler.ListOffers).Methods(http.MethodGet)
	r.HandleFunc("/loan/offers/{index}/negotiate", handler.NegotiateOffer).Methods(http.MethodPost)
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	return r
}
