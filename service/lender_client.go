package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"credit-negotiator/domain"
)

// LenderPool is the remote authority that underwrites requests, keeps the
// durable offer log, and renegotiates individual offers.
type LenderPool interface {
	SubmitRequest(ctx context.Context, req domain.LoanRequest) (*domain.EvaluationResult, error)
	FetchHistory(ctx context.Context) ([]domain.RequestHistoryEntry, error)
	NegotiateOffer(ctx context.Context, req domain.NegotiationRequest) (*domain.NegotiationResponse, error)
}

// LenderClient talks to the lender pool over its fixed HTTP+JSON contract.
// No timeouts here: once a call is issued the session waits for the answer.
type LenderClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewLenderClient(baseURL string) *LenderClient {
	return &LenderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// SubmitRequest sends the structured request for evaluation. A non-2xx
// answer carries {"detail": ...}, which is surfaced as a SubmissionError.
func (c *LenderClient) SubmitRequest(ctx context.Context, req domain.LoanRequest) (*domain.EvaluationResult, error) {
	resp, err := c.post(ctx, "/process_loan", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.SubmissionError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	var result domain.EvaluationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding evaluation result: %w", err)
	}
	return &result, nil
}

// FetchHistory retrieves every stored request with its offers, oldest first.
func (c *LenderClient) FetchHistory(ctx context.Context) ([]domain.RequestHistoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/offers", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching offer history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching offer history (status %d): %s", resp.StatusCode, readDetail(resp.Body))
	}

	var payload struct {
		LoanRequests []domain.RequestHistoryEntry `json:"loan_requests"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding offer history: %w", err)
	}
	return payload.LoanRequests, nil
}

// NegotiateOffer asks one lender to meet the target rate.
func (c *LenderClient) NegotiateOffer(ctx context.Context, req domain.NegotiationRequest) (*domain.NegotiationResponse, error) {
	resp, err := c.post(ctx, "/negotiate_offer", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("negotiation request failed (status %d): %s", resp.StatusCode, readDetail(resp.Body))
	}

	var result domain.NegotiationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding negotiation response: %w", err)
	}
	return &result, nil
}

func (c *LenderClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling lender pool %s: %w", path, err)
	}
	return resp, nil
}

// readDetail pulls the {"detail": ...} message lenders attach to failures,
// falling back to the raw body.
func readDetail(r io.Reader) string {
	raw, _ := io.ReadAll(r)
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(raw))
}
