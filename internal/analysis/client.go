package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mithilai/Customer-Call-Analyzer/internal/config"
	"github.com/mithilai/Customer-Call-Analyzer/pkg/logger"
)

// Client issues chat completions against the hosted LLM. Rate-limit, server
// and network errors are retried with exponential backoff; authentication
// and other client errors are permanent.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	timeout     time.Duration
	maxRetries  uint64
	logger      *logger.Logger
}

// NewClient creates a new analysis client from config
func NewClient(cfg config.AnalysisConfig, apiKey string, log *logger.Logger) *Client {
	return &Client{
		api:         openai.NewClient(option.WithAPIKey(apiKey)),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		maxRetries:  uint64(cfg.RetryMaxAttempts),
		logger:      log.Named("analysis-client"),
	}
}

// Complete sends one instruction to the model and returns the raw response
// text. The result is always (text, nil) or ("", err); callers never probe
// the response shape.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	operation := func() (string, error) {
		text, err := c.complete(ctx, prompt)
		if err != nil && !isRetryable(err) {
			return "", backoff.Permanent(err)
		}
		return text, err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)

	text, err := backoff.RetryWithData(operation, policy)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return text, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	c.logger.Debug("Completion finished",
		logger.String("model", c.model),
		logger.Int("prompt_chars", len(prompt)),
		logger.Duration("duration", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// isRetryable reports whether an API error is worth retrying: rate limits,
// server-side failures and transport errors are; auth and other 4xx are not.
func isRetryable(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusTooManyRequests ||
			apierr.StatusCode >= http.StatusInternalServerError
	}
	// Transport-level failure without an API response
	return true
}
