package services

import (
	"context"
	"encoding/json"
	"fmt"

	"hostel-analytics/models"
	"hostel-analytics/utils"
)

// AnalysisFallback replaces the report whenever the analyst cannot be reached.
const AnalysisFallback = "Sorry, there was an error generating the analysis. Please try again."

const promptTemplate = `Analyze this hostel reservation data and provide insights on performance trends and reasons for changes:

%s

Please provide:
1. Key performance insights
2. Trends by hostel
3. Possible reasons for week-over-week changes
4. Recommendations for improvement
5. Notable patterns in booking behavior and ADR

Format your response in a clear, actionable report.`

// Analyst is the external language-model collaborator. The reply is opaque text.
type Analyst interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnalysisService builds the prompt and shields callers from analyst failures.
type AnalysisService struct {
	analyst Analyst
	retry   *utils.RetryConfig
	logger  *utils.Logger
}

// NewAnalysisService wires an analyst with the given retry policy.
func NewAnalysisService(analyst Analyst, retry *utils.RetryConfig, logger *utils.Logger) *AnalysisService {
	return &AnalysisService{analyst: analyst, retry: retry, logger: logger}
}

// BuildPrompt embeds the serialized series into the fixed instruction template.
func BuildPrompt(series models.TimeSeries) (string, error) {
	payload, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize series: %w", err)
	}
	return fmt.Sprintf(promptTemplate, payload), nil
}

// Analyze returns the analyst's report verbatim, or AnalysisFallback on any failure.
func (s *AnalysisService) Analyze(ctx context.Context, series models.TimeSeries) string {
	prompt, err := BuildPrompt(series)
	if err != nil {
		s.logger.Error("[analysis] %v", err)
		return AnalysisFallback
	}

	var report string
	call := func(ctx context.Context) error {
		text, err := s.analyst.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		report = text
		return nil
	}

	if s.retry != nil {
		err = s.retry.Do(ctx, "analysis", call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		s.logger.Error("[analysis] Error getting AI analysis: %v", err)
		return AnalysisFallback
	}

	s.logger.Info("[analysis] Received report (%d chars) for %d periods", len(report), len(series))
	return report
}
