package ingest

import (
	"context"
	"fmt"
	"math"
	"sync"

	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/model"
	"insights-dashboard/pkg/utils"
)

// metaInvalid carries a reader-detected problem to the validation stage
const metaInvalid = "_invalid"

var (
	metricFields = []string{"intensity", "likelihood", "relevance", "impact"}
	yearFields   = []string{"start_year", "end_year"}
	textFields   = []string{
		"title", "insight", "url", "added", "published",
		"topic", "sector", "region", "pestle", "source", "swot", "country", "city",
	}
)

// ValidationError describes a rejected import row
type ValidationError struct {
	Source string
	Row    int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s row %d: %s", e.Source, e.Row, e.Reason)
	}
	return fmt.Sprintf("%s row %d: field %s %s", e.Source, e.Row, e.Field, e.Reason)
}

// ValidateRecords passes valid rows from in to out and reports the rest on
// errs as *ValidationError. out is closed once every worker is done.
func ValidateRecords(
	ctx context.Context,
	in <-chan model.RawRecord,
	out chan<- model.RawRecord,
	errs chan<- error,
	workerCount int,
	log logger.Logger,
) {
	var wg sync.WaitGroup
	wg.Add(workerCount)

	var mu sync.Mutex
	var validCount, invalidCount int

	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			valid, invalid := 0, 0

			for rec := range in {
				if err := validateRecord(rec); err != nil {
					invalid++
					send(ctx, errs, err)
					continue
				}
				if !emit(ctx, out, rec) {
					break
				}
				valid++
			}

			mu.Lock()
			validCount += valid
			invalidCount += invalid
			mu.Unlock()
		}()
	}

	go func() {
		wg.Wait()
		log.Info("Validation complete", logger.Int("valid", validCount), logger.Int("invalid", invalidCount))
		close(out)
	}()
}

func validateRecord(rec model.RawRecord) error {
	source, _ := rec[metaSource].(string)
	row, _ := rec[metaRow].(int)
	fail := func(field, reason string) error {
		return &ValidationError{Source: source, Row: row, Field: field, Reason: reason}
	}

	if reason, ok := rec[metaInvalid].(string); ok {
		return fail("", reason)
	}

	known := 0
	for _, f := range textFields {
		v, ok := rec[f]
		if !ok {
			continue
		}
		known++
		switch v.(type) {
		case nil, string, int64, float64:
		default:
			return fail(f, fmt.Sprintf("must be text, got %T", v))
		}
	}
	for _, f := range metricFields {
		v, ok := rec[f]
		if !ok {
			continue
		}
		known++
		if blank(v) {
			continue
		}
		if _, ok := utils.Numeric(v); !ok {
			return fail(f, fmt.Sprintf("must be numeric, got %v", v))
		}
	}
	for _, f := range yearFields {
		v, ok := rec[f]
		if !ok {
			continue
		}
		known++
		if blank(v) {
			continue
		}
		if _, ok := year(v); !ok {
			return fail(f, fmt.Sprintf("must be a whole year, got %v", v))
		}
	}

	if known == 0 {
		return fail("", "has no insight fields")
	}
	return nil
}

// blank reports a missing value: nil or an empty string
func blank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func year(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case string:
		return utils.ParseInt(val)
	default:
		f, ok := utils.Numeric(v)
		if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	}
}
