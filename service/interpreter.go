package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"credit-negotiator/domain"
	"credit-negotiator/repository"
)

// Interpreter turns free text into a structured loan request. The language
// model is the higher-quality path; any failure there (transport, non-2xx,
// unusable JSON, missing required fields) drops to the deterministic
// FieldExtractor, so the caller always receives a best-effort result and
// never an error.
type Interpreter struct {
	baseURL    string
	model      string
	extractor  *FieldExtractor
	cache      repository.CacheRepository
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

func NewInterpreter(baseURL, model string, extractor *FieldExtractor, cache repository.CacheRepository) *Interpreter {
	return &Interpreter{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		extractor: extractor,
		cache:     cache,
		httpClient: &http.Client{
			// a hung model call just means we fall back a little later
			Timeout: 30 * time.Second,
		},
	}
}

// Interpret extracts the loan request fields from raw text. Results are
// cached by text hash; cache failures are logged and ignored.
func (it *Interpreter) Interpret(ctx context.Context, text string) domain.ExtractedRequest {
	key := cacheKey(text)

	if cached, ok := it.cache.Get(ctx, key); ok {
		var result domain.ExtractedRequest
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return result
		}
	}

	result, err := it.callModel(ctx, text)
	if err != nil {
		log.Infof("interpreter unavailable, using fallback extractor: %v", err)
		result = it.extractor.Extract(text)
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := it.cache.Set(ctx, key, string(encoded)); err != nil {
			log.Warnf("failed to cache interpretation: %v", err)
		}
	}
	return result
}

// callModel issues a single chat completion with low-randomness decoding.
// No retries: one shot, then the fallback takes over.
func (it *Interpreter) callModel(ctx context.Context, text string) (domain.ExtractedRequest, error) {
	payload := chatRequest{
		Model: it.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(extractionPrompt, text)},
		},
		Stream: false,
		Options: chatOptions{
			Temperature: interpreterTemperature,
			TopP:        interpreterTopP,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.ExtractedRequest{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, it.baseURL+"/api/chat", bytes.NewBuffer(body))
	if err != nil {
		return domain.ExtractedRequest{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := it.httpClient.Do(req)
	if err != nil {
		return domain.ExtractedRequest{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return domain.ExtractedRequest{}, fmt.Errorf("interpretation service error (status %d): %s", resp.StatusCode, string(raw))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return domain.ExtractedRequest{}, err
	}

	result, err := parseModelOutput(chat.Message.Content)
	if err != nil {
		return domain.ExtractedRequest{}, err
	}
	if !result.IsComplete() {
		return domain.ExtractedRequest{}, fmt.Errorf("model output missing required fields: %v", result.MissingFields())
	}
	return result, nil
}

// parseModelOutput coerces the model's reply into an ExtractedRequest. The
// reply is expected to be a bare JSON object, but models wrap it in prose or
// fences often enough that we cut out the first {...} span before decoding.
func parseModelOutput(content string) (domain.ExtractedRequest, error) {
	var out domain.ExtractedRequest

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return out, fmt.Errorf("no JSON object in model output")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(content[start:end+1]), &fields); err != nil {
		return out, fmt.Errorf("model output is not valid JSON: %w", err)
	}

	if v, ok := coerceNumber(fields["amount"]); ok {
		out.Amount = &v
	}
	if v, ok := coerceNumber(fields["duration"]); ok {
		d := int(v)
		out.Duration = &d
	}
	if v, ok := coerceNumber(fields["expected_income"]); ok {
		out.ExpectedIncome = v
	}
	if s, ok := fields["purpose"].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			out.Purpose = &s
		}
	}
	return out, nil
}

// coerceNumber accepts the numbers-as-strings the model occasionally emits.
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := parseMoney(n)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return "interpret:" + hex.EncodeToString(sum[:])
}
