package ingest

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/model"
	"insights-dashboard/pkg/utils"
)

// TransformRecords converts validated rows into records. out is closed once
// every worker is done.
func TransformRecords(
	ctx context.Context,
	in <-chan model.RawRecord,
	out chan<- model.Record,
	workerCount int,
	log logger.Logger,
) {
	var wg sync.WaitGroup
	wg.Add(workerCount)

	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for raw := range in {
				rec := ToRecord(raw)
				select {
				case <-ctx.Done():
					return
				case out <- rec:
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		log.Debug("Transformation complete")
		close(out)
	}()
}

// ToRecord maps a validated row onto a record. Rows without an id get a
// fresh UUID.
func ToRecord(raw model.RawRecord) model.Record {
	rec := model.Record{
		ID:        recordID(raw),
		Title:     text(raw["title"]),
		Insight:   text(raw["insight"]),
		URL:       text(raw["url"]),
		Added:     text(raw["added"]),
		Published: text(raw["published"]),
		StartYear: yearPtr(raw["start_year"]),
		EndYear:   yearPtr(raw["end_year"]),
		Topic:     text(raw["topic"]),
		Sector:    text(raw["sector"]),
		Region:    text(raw["region"]),
		Pestle:    text(raw["pestle"]),
		Source:    text(raw["source"]),
		Swot:      text(raw["swot"]),
		Country:   text(raw["country"]),
		City:      text(raw["city"]),

		Intensity:  number(raw["intensity"]),
		Likelihood: number(raw["likelihood"]),
		Relevance:  number(raw["relevance"]),
		Impact:     number(raw["impact"]),
	}
	return rec
}

func recordID(raw model.RawRecord) string {
	for _, key := range []string{"id", "_id"} {
		switch v := raw[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]interface{}:
			// extended JSON object ids
			if oid, ok := v["$oid"].(string); ok && oid != "" {
				return oid
			}
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return uuid.NewString()
}

// text keeps an empty string as present-but-empty; only a missing value is nil
func text(v interface{}) *string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return model.Str(strings.TrimSpace(val))
	case int64:
		return model.Str(strconv.FormatInt(val, 10))
	case float64:
		return model.Str(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		return nil
	}
}

func number(v interface{}) *float64 {
	if blank(v) {
		return nil
	}
	f, ok := utils.Numeric(v)
	if !ok {
		return nil
	}
	return model.Float(f)
}

func yearPtr(v interface{}) *int64 {
	if blank(v) {
		return nil
	}
	y, ok := year(v)
	if !ok {
		return nil
	}
	return model.Int(y)
}
