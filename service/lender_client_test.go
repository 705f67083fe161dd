package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"credit-negotiator/domain"
)

func TestSubmitRequest_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process_loan" || r.Method != http.MethodPost {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		var req domain.LoanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("body did not decode as LoanRequest: %v", err)
		}
		if req.Amount != 250000 {
			t.Errorf("amount = %v, want 250000", req.Amount)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"selected_bank": "bank_1",
			"total_score":   0.82,
			"reasoning":     "lowest carbon-adjusted rate",
		})
	}))
	defer srv.Close()

	client := NewLenderClient(srv.URL)
	result, err := client.SubmitRequest(context.Background(), domain.LoanRequest{
		Amount: 250000, Duration: 24, Purpose: "open a bakery", ExpectedIncome: 80000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SelectedBank != "bank_1" {
		t.Errorf("selected_bank = %s, want bank_1", result.SelectedBank)
	}
	if result.TotalScore != 0.82 {
		t.Errorf("total_score = %v, want 0.82", result.TotalScore)
	}
}

func TestSubmitRequest_RemoteDetailSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "No valid offers received from any bank"})
	}))
	defer srv.Close()

	client := NewLenderClient(srv.URL)
	_, err := client.SubmitRequest(context.Background(), domain.LoanRequest{Amount: 1, Duration: 1, Purpose: "x"})

	var submission *domain.SubmissionError
	if !errors.As(err, &submission) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if submission.Detail != "No valid offers received from any bank" {
		t.Errorf("detail = %q, want remote message", submission.Detail)
	}
	if submission.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", submission.StatusCode)
	}
}

func TestFetchHistory_OrderPreserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/offers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"loan_requests": []map[string]any{
				{"timestamp": "2025-01-01T00:00:00", "request": map[string]any{"amount": 1000.0}},
				{"timestamp": "2025-02-01T00:00:00", "request": map[string]any{"amount": 2000.0}},
			},
		})
	}))
	defer srv.Close()

	client := NewLenderClient(srv.URL)
	entries, err := client.FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Request.Amount != 1000 || entries[1].Request.Amount != 2000 {
		t.Error("history entries out of order")
	}
}

func TestNegotiateOffer_DecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/negotiate_offer" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req domain.NegotiationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("body did not decode as NegotiationRequest: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"agreed":   true,
			"new_rate": 0.065,
			"reason":   "Bank agreed to reduce interest rate to 6.50%",
		})
	}))
	defer srv.Close()

	client := NewLenderClient(srv.URL)
	resp, err := client.NegotiateOffer(context.Background(), domain.NegotiationRequest{
		BankID:       "bank_1",
		CurrentOffer: domain.Offer{InterestRate: 0.07},
		TargetRate:   0.065,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Agreed || resp.NewRate == nil || *resp.NewRate != 0.065 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestNegotiateOffer_TransportError(t *testing.T) {
	client := NewLenderClient("http://127.0.0.1:1")
	if _, err := client.NegotiateOffer(context.Background(), domain.NegotiationRequest{}); err == nil {
		t.Fatal("expected error for unreachable lender pool")
	}
}
