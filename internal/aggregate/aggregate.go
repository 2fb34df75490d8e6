// Package aggregate computes the chart summaries from a set of records.
// Every function here is pure and safe for concurrent use.
package aggregate

import (
	"sort"

	"github.com/montanaflynn/stats"

	"insights-dashboard/internal/model"
)

// KeyFunc extracts a grouping key. ok is false for an empty or missing key.
type KeyFunc func(model.Record) (string, bool)

// MetricFunc extracts a numeric value. ok is false when it is missing.
type MetricFunc func(model.Record) (float64, bool)

// ByField groups on a categorical field
func ByField(f model.Field) KeyFunc {
	return func(r model.Record) (string, bool) { return r.Value(f) }
}

// ByMetric reads a numeric metric
func ByMetric(m model.Metric) MetricFunc {
	return func(r model.Record) (float64, bool) { return r.Number(m) }
}

// groupWorker accumulates one group's values
type groupWorker struct {
	key    string
	count  int
	values []float64
}

// GroupMean groups records by key and reports, per non-empty key, the record
// count and the mean of metric over the members that carry it. Records
// without a key are dropped. Groups come back in first-seen order.
func GroupMean(records []model.Record, key KeyFunc, metric MetricFunc) []model.GroupSummary {
	index := make(map[string]*groupWorker)
	order := make([]*groupWorker, 0)

	for _, rec := range records {
		k, ok := key(rec)
		if !ok || k == "" {
			continue
		}
		g, exists := index[k]
		if !exists {
			g = &groupWorker{key: k}
			index[k] = g
			order = append(order, g)
		}
		g.count++
		if v, ok := metric(rec); ok {
			g.values = append(g.values, v)
		}
	}

	out := make([]model.GroupSummary, 0, len(order))
	for _, g := range order {
		out = append(out, model.GroupSummary{
			Key:   g.key,
			Count: g.count,
			Mean:  mean(g.values),
		})
	}
	return out
}

// mean returns nil for an empty sample
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	return &m
}

// TopN counts each non-empty key and returns the n most frequent, ties kept
// in first-seen order. n <= 0 returns every key.
func TopN(records []model.Record, key KeyFunc, n int) []model.Frequency {
	index := make(map[string]int)
	counts := make([]model.Frequency, 0)

	for _, rec := range records {
		k, ok := key(rec)
		if !ok || k == "" {
			continue
		}
		if i, exists := index[k]; exists {
			counts[i].Count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, model.Frequency{Key: k, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Pairs turns each record carrying both metrics into one point. label may be
// nil; records missing either metric are skipped.
func Pairs(records []model.Record, x, y MetricFunc, label KeyFunc) []model.Point {
	points := make([]model.Point, 0, len(records))
	for _, rec := range records {
		xv, ok := x(rec)
		if !ok {
			continue
		}
		yv, ok := y(rec)
		if !ok {
			continue
		}
		p := model.Point{X: xv, Y: yv}
		if label != nil {
			p.Label, _ = label(rec)
		}
		points = append(points, p)
	}
	return points
}

// SortByMean orders groups by mean, highest first. Groups without a mean go
// last; ties keep their current order.
func SortByMean(groups []model.GroupSummary) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Mean, groups[j].Mean
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}

// SortByCount orders groups by record count, highest first
func SortByCount(groups []model.GroupSummary) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
}

// Lookup returns the group for key
func Lookup(groups []model.GroupSummary, key string) (model.GroupSummary, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return model.GroupSummary{}, false
}
