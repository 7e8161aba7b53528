package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hostel-analytics/models"
	"hostel-analytics/spreadsheet"
	"hostel-analytics/utils"
)

// Blocking batch errors. The series is left unchanged when any of these is returned.
var (
	ErrNoSpreadsheets     = errors.New("no Excel files found")
	ErrEmptyPaste         = errors.New("please paste data")
	ErrPropertyUndetected = errors.New("could not detect hostel, please select one")
	ErrNoReservations     = errors.New("no valid reservations found")
	ErrPeriodUndetermined = errors.New("could not determine week, please select a week date")
	ErrEmptySeries        = errors.New("no data to analyse")
)

// RowDecoder turns one spreadsheet blob into row-major cell values.
type RowDecoder interface {
	Decode(name string, data []byte) ([][]any, error)
}

// Overrides are the operator's explicit choices for a batch. Both are optional.
type Overrides struct {
	// Property replaces detection. For file batches it only applies to a single file.
	Property string
	// WeekStart is any date (YYYY-MM-DD) inside the intended week.
	WeekStart string
}

// Session holds the state of one dashboard session: the time series, the
// warnings of the last batch and the last analysis report. Batches are
// processed one at a time; readers always receive copies.
type Session struct {
	registry   models.PropertyRegistry
	normalizer *Normalizer
	decoder    RowDecoder
	logger     *utils.Logger
	workers    int

	batchMu sync.Mutex

	mu         sync.RWMutex
	series     models.TimeSeries
	warnings   []string
	report     string
	processing bool
}

// NewSession creates an empty session. workers bounds concurrent spreadsheet decoding.
func NewSession(registry models.PropertyRegistry, decoder RowDecoder, workers int, logger *utils.Logger) *Session {
	return &Session{
		registry:   registry,
		normalizer: NewNormalizer(logger),
		decoder:    decoder,
		logger:     logger,
		workers:    workers,
		series:     models.TimeSeries{},
	}
}

// Registry returns the property registry used for detection.
func (s *Session) Registry() models.PropertyRegistry {
	return s.registry
}

// Series returns a snapshot of the time series.
func (s *Session) Series() models.TimeSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series.Clone()
}

// Warnings returns the warnings produced by the most recent batch.
func (s *Session) Warnings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.warnings...)
}

// Report returns the last stored analysis report.
func (s *Session) Report() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Processing reports whether a batch is currently running.
func (s *Session) Processing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing
}

type decodedFile struct {
	property     string
	reservations []models.Reservation
	diag         models.Diagnostics
}

// ProcessFiles ingests a batch of spreadsheet blobs, one property per file.
// Files whose names do not end in .xlsx or .xls are ignored.
func (s *Session) ProcessFiles(ctx context.Context, files []models.FileBlob, ov Overrides) (*models.BatchResult, error) {
	var sheets []models.FileBlob
	for _, f := range files {
		if spreadsheet.IsSpreadsheetName(f.Name) {
			sheets = append(sheets, f)
		}
	}
	if len(sheets) == 0 {
		return nil, ErrNoSpreadsheets
	}

	return s.runBatch(ctx, func(log *utils.Logger) (*batchInput, error) {
		decoded, err := s.decodeAll(sheets, ov, log)
		if err != nil {
			return nil, err
		}

		in := &batchInput{byProperty: make(map[string][]models.Reservation)}
		for i, d := range decoded {
			if _, exists := in.byProperty[d.property]; exists {
				log.Warn("[pipeline] %s replaces an earlier file for %s in this batch", sheets[i].Name, d.property)
			} else {
				in.order = append(in.order, d.property)
			}
			// a later file for the same property wins
			in.byProperty[d.property] = d.reservations
			in.diag.Add(d.diag)
		}
		return in, nil
	}, ov)
}

// ProcessPaste ingests one pasted blob (HTML table or tab-separated text) for a single property.
func (s *Session) ProcessPaste(ctx context.Context, data string, ov Overrides) (*models.BatchResult, error) {
	if strings.TrimSpace(data) == "" {
		return nil, ErrEmptyPaste
	}

	return s.runBatch(ctx, func(log *utils.Logger) (*batchInput, error) {
		property, ok := ResolveProperty(ov.Property, data, s.registry)
		if !ok {
			return nil, ErrPropertyUndetected
		}

		rows, err := SplitPastedTable(data)
		if err != nil {
			return nil, err
		}
		reservations, diag := s.normalizer.Normalize(rows)
		log.Info("[pipeline] Paste for %s: %d rows, %d direct reservations", property, diag.RowsSeen, len(reservations))

		return &batchInput{
			order:      []string{property},
			byProperty: map[string][]models.Reservation{property: reservations},
			diag:       diag,
		}, nil
	}, ov)
}

type batchInput struct {
	order      []string
	byProperty map[string][]models.Reservation
	diag       models.Diagnostics
}

func (in *batchInput) all() []models.Reservation {
	var all []models.Reservation
	for _, name := range in.order {
		all = append(all, in.byProperty[name]...)
	}
	return all
}

// runBatch serializes batches, resolves the period, validates and merges.
// Nothing is written to the session unless every step succeeds.
func (s *Session) runBatch(ctx context.Context, load func(*utils.Logger) (*batchInput, error), ov Overrides) (*models.BatchResult, error) {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	s.mu.Lock()
	s.processing = true
	s.warnings = []string{}
	s.mu.Unlock()
	defer s.setProcessing(false)

	batchID := uuid.New()
	log := s.logger.WithField("batch", batchID.String())
	if o := strings.TrimSpace(ov.Property); o != "" && !s.registry.Has(o) {
		log.Warn("[pipeline] Property %q is not in the registry", o)
	}

	in, err := load(log)
	if err != nil {
		log.Warn("[pipeline] Batch rejected: %v", err)
		return nil, err
	}

	all := in.all()
	if len(all) == 0 {
		log.Warn("[pipeline] Batch rejected: %v", ErrNoReservations)
		return nil, ErrNoReservations
	}

	period, err := s.resolvePeriod(all, ov)
	if err != nil {
		log.Warn("[pipeline] Batch rejected: %v", err)
		return nil, err
	}

	result := &models.BatchResult{
		BatchID:     batchID,
		Period:      period,
		Summaries:   make(map[string]models.PropertyPeriodSummary, len(in.order)),
		Warnings:    []string{},
		Diagnostics: in.diag,
	}
	for _, name := range in.order {
		reservations := in.byProperty[name]
		for _, w := range ValidateWeekMatch(reservations, period) {
			if len(in.order) > 1 {
				w = name + ": " + w
			}
			result.Warnings = append(result.Warnings, w)
		}
		result.Summaries[name] = Aggregate(reservations)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", batchID, err)
	}

	s.mu.Lock()
	s.series = MergeBatch(s.series, period, result.Summaries)
	s.warnings = result.Warnings
	s.mu.Unlock()

	for _, w := range result.Warnings {
		log.Warn("[pipeline] %s", w)
	}
	log.Info("[pipeline] Merged %d properties into %s", len(result.Summaries), period.Label)
	return result, nil
}

func (s *Session) resolvePeriod(reservations []models.Reservation, ov Overrides) (models.Period, error) {
	if strings.TrimSpace(ov.WeekStart) != "" {
		return PeriodForWeekStart(ov.WeekStart)
	}
	period, ok := DetectPeriod(reservations)
	if !ok {
		return models.Period{}, ErrPeriodUndetermined
	}
	return period, nil
}

func (s *Session) decodeAll(files []models.FileBlob, ov Overrides, log *utils.Logger) ([]decodedFile, error) {
	results := make([]decodedFile, len(files))
	errs := make([]error, len(files))

	pool := utils.NewWorkerPool(s.workers)
	for i, f := range files {
		i, f := i, f
		pool.Submit(func() {
			cells, err := s.decoder.Decode(f.Name, f.Data)
			if err != nil {
				errs[i] = err
				return
			}
			reservations, diag := s.normalizer.Normalize(SheetRows(cells))
			results[i] = decodedFile{
				property:     s.fileProperty(f.Name, len(files), ov),
				reservations: reservations,
				diag:         diag,
			}
		})
	}
	pool.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", files[i].Name, err)
		}
	}
	for i, d := range results {
		log.Info("[pipeline] %s -> %s: %d direct reservations", files[i].Name, d.property, len(d.reservations))
	}
	return results, nil
}

func (s *Session) fileProperty(name string, batchSize int, ov Overrides) string {
	if batchSize == 1 && strings.TrimSpace(ov.Property) != "" {
		return strings.TrimSpace(ov.Property)
	}
	base := spreadsheet.BaseName(name)
	if matched, ok := MatchFileName(base, s.registry); ok {
		return matched
	}
	return base
}

func (s *Session) setProcessing(v bool) {
	s.mu.Lock()
	s.processing = v
	s.mu.Unlock()
}

// Analyze asks the analysis service about the current series and stores its report.
func (s *Session) Analyze(ctx context.Context, svc *AnalysisService) (string, error) {
	series := s.Series()
	if len(series) == 0 {
		return "", ErrEmptySeries
	}

	report := svc.Analyze(ctx, series)

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()
	return report, nil
}
