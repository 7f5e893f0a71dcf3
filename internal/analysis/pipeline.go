package analysis

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mithilai/Customer-Call-Analyzer/internal/audio"
	"github.com/mithilai/Customer-Call-Analyzer/internal/config"
	"github.com/mithilai/Customer-Call-Analyzer/internal/storage/sqlite"
	"github.com/mithilai/Customer-Call-Analyzer/pkg/logger"
)

// Transcriber converts a recording on disk to plain text
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Completer answers one analysis instruction with free-form text
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ReportWriter persists one fully resolved report row
type ReportWriter interface {
	InsertReport(fields sqlite.ReportFields) (int64, error)
}

// CollaboratorError marks a transcription or LLM failure that aborted an
// analysis run before anything was persisted.
type CollaboratorError struct {
	Stage string
	Err   error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s collaborator failed: %v", e.Stage, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// Pipeline runs the full call-analysis flow: save the upload, transcribe it,
// ask the model one facet at a time, extract structured fields, and persist a
// single report row once every facet has resolved.
type Pipeline struct {
	transcriber Transcriber
	completer   Completer
	reports     ReportWriter
	uploads     config.UploadsConfig
	logger      *logger.Logger
}

// NewPipeline creates a new analysis pipeline
func NewPipeline(
	transcriber Transcriber,
	completer Completer,
	reports ReportWriter,
	uploads config.UploadsConfig,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		completer:   completer,
		reports:     reports,
		uploads:     uploads,
		logger:      log.Named("pipeline"),
	}
}

// Analyze processes one uploaded recording end to end and returns the full
// analysis result. The uploaded file is a scoped temporary resource removed
// on every path, success or failure. No row is written unless all facets
// resolve.
func (p *Pipeline) Analyze(ctx context.Context, upload io.Reader, filename string) (*Result, error) {
	path, err := audio.SaveUpload(p.uploads.TempDir, filename, upload, p.uploads.MaxBytes)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			p.logger.Warn("Failed to remove temporary audio file",
				logger.String("path", path),
				logger.Error(rmErr))
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open saved upload: %w", err)
	}
	format, err := audio.DetectFormat(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	p.logger.Info("Starting analysis run",
		logger.String("filename", filename),
		logger.String("format", string(format)))

	transcript, err := p.transcriber.Transcribe(ctx, path)
	if err != nil {
		return nil, &CollaboratorError{Stage: "transcription", Err: err}
	}

	raw := make(map[Facet]string, len(facetOrder))
	for _, facet := range facetOrder {
		prompt, err := BuildPrompt(facet, transcript)
		if err != nil {
			return nil, err
		}
		text, err := p.completer.Complete(ctx, prompt)
		if err != nil {
			return nil, &CollaboratorError{Stage: string(facet), Err: err}
		}
		raw[facet] = text
	}

	result := &Result{
		Transcript:          transcript,
		Summary:             CleanText(raw[FacetSummary]),
		CustomerSatisfied:   CleanLabel(raw[FacetSatisfaction]),
		OverallSentiment:    CleanLabel(raw[FacetSentiment]),
		AttentionAreas:      CleanText(raw[FacetAttentionAreas]),
		CompanyImprovements: CleanText(raw[FacetImprovements]),
		ResponseCritique:    CleanText(raw[FacetResponseCritique]),
	}

	agent, customer, ok := ExtractNames(raw[FacetNameExtraction])
	result.AgentName = agent
	result.CustomerName = customer
	if !ok {
		result.Diagnostics = append(result.Diagnostics,
			fmt.Sprintf("failed to extract names from model response: %s", raw[FacetNameExtraction]))
		p.logger.Warn("Name extraction fell back to defaults",
			logger.String("raw_response", raw[FacetNameExtraction]))
	}

	id, err := p.reports.InsertReport(sqlite.ReportFields{
		CustomerName:        result.CustomerName,
		AgentName:           result.AgentName,
		CustomerSatisfied:   result.CustomerSatisfied,
		CompanyImprovements: result.CompanyImprovements,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}
	result.ReportID = id

	p.logger.Info("Analysis run complete",
		logger.Int64("report_id", id),
		logger.String("agent_name", result.AgentName),
		logger.String("customer_name", result.CustomerName),
		logger.String("customer_satisfied", result.CustomerSatisfied),
		logger.Int("diagnostics", len(result.Diagnostics)))

	return result, nil
}
