package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"chatbot-backend/internal/observability"
)

// ErrInvalidResponse marks a 2xx gateway reply that is not a non-empty list
// whose first element carries generated_text.
var ErrInvalidResponse = errors.New("invalid inference response")

type generation struct {
	GeneratedText string `json:"generated_text"`
}

// InferenceClient talks to a Hugging Face style text-generation endpoint.
// It sets no client timeout: a call ends when the gateway answers, the
// transport fails or ctx is cancelled.
type InferenceClient struct {
	client  *resty.Client
	url     string
	apiKey  string
	metrics *observability.Metrics
}

func NewInferenceClient(url, apiKey string, metrics *observability.Metrics) *InferenceClient {
	return &InferenceClient{
		client:  resty.New(),
		url:     url,
		apiKey:  apiKey,
		metrics: metrics,
	}
}

// Configured reports whether a bearer credential is available. Callers check
// it on every request rather than once at startup.
func (c *InferenceClient) Configured() bool {
	return c.apiKey != ""
}

func (c *InferenceClient) Generate(ctx context.Context, input string) (string, error) {
	start := time.Now()

	res, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"inputs": input}).
		Post(c.url)
	if err != nil {
		c.observe("transport_error", start)
		return "", fmt.Errorf("inference request failed: %w", err)
	}

	if !res.IsSuccess() {
		c.observe("http_error", start)
		return "", fmt.Errorf("inference gateway returned status %d: %s", res.StatusCode(), res.String())
	}

	text, err := parseGeneration(res.Body())
	if err != nil {
		c.observe("invalid_response", start)
		return "", err
	}

	c.observe("ok", start)
	return text, nil
}

func (c *InferenceClient) observe(outcome string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveInference(outcome, time.Since(start))
	}
}

func parseGeneration(body []byte) (string, error) {
	var out []generation
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidResponse, string(body))
	}
	if len(out) == 0 || out[0].GeneratedText == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidResponse, string(body))
	}
	return out[0].GeneratedText, nil
}
