package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/mithilai/Customer-Call-Analyzer/internal/audio"
	"github.com/mithilai/Customer-Call-Analyzer/internal/config"
	"github.com/mithilai/Customer-Call-Analyzer/internal/storage/sqlite"
	"github.com/mithilai/Customer-Call-Analyzer/pkg/logger"
)

type fakeTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

// fakeCompleter routes on distinctive fragments of each facet's template
type fakeCompleter struct {
	nameResponse string
	failOn       string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return "", fmt.Errorf("simulated model outage")
	}
	switch {
	case strings.Contains(prompt, "Summarize"):
		return "Customer called about an order issue; the agent resolved it.", nil
	case strings.Contains(prompt, "names of the agent"):
		return f.nameResponse, nil
	case strings.Contains(prompt, "satisfied at the end"):
		return " Yes\n", nil
	case strings.Contains(prompt, "overall sentiment"):
		return "Positive", nil
	case strings.Contains(prompt, "areas of attention"):
		return "billing, refund", nil
	case strings.Contains(prompt, "needs to improve"):
		return "No issues reported.", nil
	case strings.Contains(prompt, "Upgraded Response"):
		return "- Old Response: \"ok\"\n- Upgraded Response: \"Certainly!\"\n- Reason for improvement: \"warmer\"", nil
	default:
		return "", fmt.Errorf("unrecognized prompt: %.60s", prompt)
	}
}

type fakeReports struct {
	inserted []sqlite.ReportFields
	err      error
}

func (f *fakeReports) InsertReport(fields sqlite.ReportFields) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, fields)
	return int64(len(f.inserted)), nil
}

func wavUpload() *bytes.Reader {
	body := append([]byte{'R', 'I', 'F', 'F', 0, 0, 0, 0, 'W', 'A', 'V', 'E'}, []byte("data")...)
	return bytes.NewReader(body)
}

func newTestPipeline(t *testing.T, tr Transcriber, c Completer, r ReportWriter) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	uploads := config.UploadsConfig{TempDir: dir, MaxBytes: 1 << 20}
	return NewPipeline(tr, c, r, uploads, logger.Nop()), dir
}

func TestAnalyzeStoresExtractedNames(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "Agent Sam helped. Customer Alice was happy."}
	completer := &fakeCompleter{nameResponse: `Sure! {"agent_name": "Sam", "customer_name": "Alice"}`}
	reports := &fakeReports{}
	pipeline, dir := newTestPipeline(t, transcriber, completer, reports)

	result, err := pipeline.Analyze(context.Background(), wavUpload(), "call.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AgentName != "Sam" || result.CustomerName != "Alice" {
		t.Errorf("unexpected names: %q / %q", result.AgentName, result.CustomerName)
	}
	if result.CustomerSatisfied != "Yes" {
		t.Errorf("expected trimmed satisfaction Yes, got %q", result.CustomerSatisfied)
	}
	if result.OverallSentiment != "Positive" {
		t.Errorf("unexpected sentiment %q", result.OverallSentiment)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if result.ReportID != 1 {
		t.Errorf("expected report id 1, got %d", result.ReportID)
	}

	if len(reports.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(reports.inserted))
	}
	stored := reports.inserted[0]
	if stored.AgentName != "Sam" || stored.CustomerName != "Alice" ||
		stored.CustomerSatisfied != "Yes" || stored.CompanyImprovements != "No issues reported." {
		t.Errorf("stored fields wrong: %+v", stored)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temporary audio file not removed, %d files remain", len(entries))
	}
}

func TestAnalyzeSurfacesNameDiagnostic(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "No names mentioned here."}
	completer := &fakeCompleter{nameResponse: "I could not find any names in this conversation."}
	reports := &fakeReports{}
	pipeline, _ := newTestPipeline(t, transcriber, completer, reports)

	result, err := pipeline.Analyze(context.Background(), wavUpload(), "call.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AgentName != "Unknown" || result.CustomerName != "Unknown" {
		t.Errorf("expected Unknown fallbacks, got %q / %q", result.AgentName, result.CustomerName)
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(result.Diagnostics))
	}
	if !strings.Contains(result.Diagnostics[0], "could not find any names") {
		t.Errorf("diagnostic should carry the raw offending text: %q", result.Diagnostics[0])
	}
	if len(reports.inserted) != 1 || reports.inserted[0].AgentName != "Unknown" {
		t.Errorf("fallback names not persisted: %+v", reports.inserted)
	}
}

func TestAnalyzeTranscriptionFailureAbortsRun(t *testing.T) {
	transcriber := &fakeTranscriber{err: fmt.Errorf("model unavailable")}
	reports := &fakeReports{}
	pipeline, dir := newTestPipeline(t, transcriber, &fakeCompleter{}, reports)

	_, err := pipeline.Analyze(context.Background(), wavUpload(), "call.wav")
	var collab *CollaboratorError
	if !errors.As(err, &collab) {
		t.Fatalf("expected CollaboratorError, got %v", err)
	}
	if collab.Stage != "transcription" {
		t.Errorf("unexpected stage %q", collab.Stage)
	}
	if len(reports.inserted) != 0 {
		t.Error("no row may be persisted after a collaborator failure")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Error("temporary audio file must be removed on the failure path too")
	}
}

func TestAnalyzeFacetFailureLeavesStoreUnchanged(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "hello"}
	completer := &fakeCompleter{
		nameResponse: `{"agent_name": "Sam", "customer_name": "Alice"}`,
		failOn:       "needs to improve",
	}
	reports := &fakeReports{}
	pipeline, _ := newTestPipeline(t, transcriber, completer, reports)

	_, err := pipeline.Analyze(context.Background(), wavUpload(), "call.wav")
	var collab *CollaboratorError
	if !errors.As(err, &collab) {
		t.Fatalf("expected CollaboratorError, got %v", err)
	}
	if len(reports.inserted) != 0 {
		t.Error("partial analysis must not be persisted")
	}
}

func TestAnalyzeRejectsUnsupportedFormat(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "unused"}
	pipeline, dir := newTestPipeline(t, transcriber, &fakeCompleter{}, &fakeReports{})

	_, err := pipeline.Analyze(context.Background(), strings.NewReader("definitely not audio bytes"), "notes.txt")
	if !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if transcriber.calls != 0 {
		t.Error("transcriber must not be called for rejected uploads")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Error("rejected upload left a temporary file behind")
	}
}
