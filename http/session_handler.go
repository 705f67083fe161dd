package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"credit-negotiator/domain"
)

// SessionService is the slice of the loan session the HTTP layer needs.
type SessionService interface {
	ProcessText(ctx context.Context, text string) (*domain.SessionResult, error)
	Negotiate(ctx context.Context, index int) (domain.NegotiationOutcome, error)
	RefreshOffers(ctx context.Context) error
	History() []domain.RequestHistoryEntry
}

type SessionHandler struct {
	session SessionService
}

func NewSessionHandler(session SessionService) *SessionHandler {
	return &SessionHandler{session: session}
}

// ProcessRequest interprets the free-text body, submits the request and
// returns the ranked offers. Incomplete requests come back as 422 with the
// missing fields so the caller can ask the user for clarification.
func (h *SessionHandler) ProcessRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "request body must be JSON with a non-empty \"text\" field")
		return
	}

	result, err := h.session.ProcessText(r.Context(), body.Text)
	if err != nil {
		var incomplete *domain.IncompleteRequestError
		if errors.As(err, &incomplete) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "loan request is incomplete, please clarify",
				"missing": incomplete.Missing,
			})
			return
		}
		var submission *domain.SubmissionError
		if errors.As(err, &submission) {
			writeError(w, http.StatusBadGateway, submission.Detail)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListOffers refreshes the view from the remote log and returns it.
func (h *SessionHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RefreshOffers(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"loan_requests": h.session.History(),
	})
}

// NegotiateOffer runs one negotiation attempt against the offer position in
// the path. A busy position answers 409; a stale one answers 404 and the
// caller should reload the offers.
func (h *SessionHandler) NegotiateOffer(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "offer index must be an integer")
		return
	}

	outcome, err := h.session.Negotiate(r.Context(), index)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNegotiationInProgress):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, domain.ErrInvalidIndex):
			writeError(w, http.StatusNotFound, "offer position is stale, reload offers and retry")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func (h *SessionHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "credit-negotiator",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
