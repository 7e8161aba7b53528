package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hostel-analytics/models"
	"hostel-analytics/utils"
)

type fakeAnalyst struct {
	replies []string
	errs    []error
	calls   int
	prompt  string
}

func (f *fakeAnalyst) Complete(_ context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.prompt = prompt
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", errors.New("no reply")
}

func TestBuildPrompt(t *testing.T) {
	series := seriesOf(map[string]int{"Flamingo": 2})
	prompt, err := BuildPrompt(series)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Analyze this hostel reservation data",
		`"week": "1 Jan 2024 - 7 Jan 2024"`,
		`"hostels"`,
		`"Flamingo"`,
		"Format your response in a clear, actionable report.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalyzeReturnsReplyVerbatim(t *testing.T) {
	analyst := &fakeAnalyst{replies: []string{"  Report\nwith lines  "}}
	svc := NewAnalysisService(analyst, nil, newTestLogger())

	got := svc.Analyze(context.Background(), seriesOf(map[string]int{"Puerto": 1}))
	if got != "  Report\nwith lines  " {
		t.Errorf("got %q", got)
	}
}

func TestAnalyzeFallsBackOnFailure(t *testing.T) {
	analyst := &fakeAnalyst{errs: []error{errors.New("quota exceeded")}}
	svc := NewAnalysisService(analyst, nil, newTestLogger())

	if got := svc.Analyze(context.Background(), seriesOf(map[string]int{"Puerto": 1})); got != AnalysisFallback {
		t.Errorf("got %q; want fallback", got)
	}
}

func TestAnalyzeRetries(t *testing.T) {
	analyst := &fakeAnalyst{
		errs:    []error{errors.New("timeout"), nil},
		replies: []string{"", "second time lucky"},
	}
	retry := &utils.RetryConfig{MaxAttempts: 2, Logger: newTestLogger()}
	svc := NewAnalysisService(analyst, retry, newTestLogger())

	if got := svc.Analyze(context.Background(), seriesOf(map[string]int{"Puerto": 1})); got != "second time lucky" {
		t.Errorf("got %q", got)
	}
	if analyst.calls != 2 {
		t.Errorf("calls = %d; want 2", analyst.calls)
	}
}

func TestSessionAnalyze(t *testing.T) {
	session := NewSession(models.DefaultRegistry(), nil, 1, newTestLogger())
	svc := NewAnalysisService(&fakeAnalyst{replies: []string{"report"}}, nil, newTestLogger())

	if _, err := session.Analyze(context.Background(), svc); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("empty series: got %v", err)
	}

	if _, err := session.ProcessPaste(context.Background(),
		textRow("R1", "03/01/2024", "10/01/2024", "2", "50", "OK", "Sitio web"),
		Overrides{Property: "Arena"}); err != nil {
		t.Fatal(err)
	}

	report, err := session.Analyze(context.Background(), svc)
	if err != nil || report != "report" {
		t.Errorf("got %q, %v", report, err)
	}
	if session.Report() != "report" {
		t.Errorf("stored report = %q", session.Report())
	}
}
