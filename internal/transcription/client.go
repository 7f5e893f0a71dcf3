package transcription

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mithilai/Customer-Call-Analyzer/internal/config"
	"github.com/mithilai/Customer-Call-Analyzer/pkg/logger"
)

// Client transcribes call recordings through the hosted speech-to-text API
type Client struct {
	api      openai.Client
	model    string
	language string
	timeout  time.Duration
	logger   *logger.Logger
}

// NewClient creates a new transcription client from config
func NewClient(cfg config.TranscriptionConfig, apiKey string, log *logger.Logger) *Client {
	return &Client{
		api:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:    cfg.Model,
		language: cfg.Language,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:   log.Named("transcription"),
	}
}

// Transcribe converts the recording at path to plain text. A failure here
// aborts the whole analysis run; there is no retry.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(c.model),
		File:  f,
	}
	if c.language != "" {
		params.Language = openai.String(c.language)
	}

	resp, err := c.api.Audio.Transcriptions.New(reqCtx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	c.logger.Info("Transcribed recording",
		logger.String("path", path),
		logger.Int("transcript_chars", len(resp.Text)),
		logger.Duration("duration", time.Since(start)))

	return resp.Text, nil
}
