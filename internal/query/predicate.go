// Package query turns a filter selection into an equality-conjunction
// predicate that can be evaluated in memory or rendered as SQL.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"insights-dashboard/internal/filter"
	"insights-dashboard/internal/model"
	"insights-dashboard/pkg/utils"
)

// Constraint requires a record field to equal Value. Value is an int64 for
// end_year and a string for every other field.
type Constraint struct {
	Field model.Field
	Value interface{}
}

// Predicate is a logical AND of constraints. With no constraints it matches
// every record; when MatchNone is set it matches nothing.
type Predicate struct {
	Constraints []Constraint
	MatchNone   bool
}

// Build translates a selection into a predicate. Fields are visited in the
// canonical filter order, so equal selections always build equal predicates.
func Build(sel model.Selection) Predicate {
	var p Predicate
	for _, f := range filter.Fields {
		raw, ok := sel[f]
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if f == model.FieldEndYear {
			year, ok := utils.ParseInt(raw)
			if !ok {
				// a non-integer can never equal a stored year
				p.MatchNone = true
				continue
			}
			p.Constraints = append(p.Constraints, Constraint{Field: f, Value: year})
			continue
		}
		p.Constraints = append(p.Constraints, Constraint{Field: f, Value: raw})
	}
	return p
}

// MatchAll reports whether the predicate filters nothing
func (p Predicate) MatchAll() bool {
	return !p.MatchNone && len(p.Constraints) == 0
}

// Matches evaluates the predicate against a record in memory
func (p Predicate) Matches(r model.Record) bool {
	if p.MatchNone {
		return false
	}
	for _, c := range p.Constraints {
		if c.Field == model.FieldEndYear {
			want, _ := c.Value.(int64)
			if r.EndYear == nil || *r.EndYear != want {
				return false
			}
			continue
		}
		got, ok := r.Value(c.Field)
		if !ok || got != c.Value {
			return false
		}
	}
	return true
}

// Filter returns the records that satisfy the predicate, in input order
func (p Predicate) Filter(records []model.Record) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if p.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Key is a canonical string for the predicate, stable across equal selections
func (p Predicate) Key() string {
	if p.MatchNone {
		return "none"
	}
	if len(p.Constraints) == 0 {
		return "all"
	}
	parts := make([]string, 0, len(p.Constraints))
	for _, c := range p.Constraints {
		var v string
		switch val := c.Value.(type) {
		case int64:
			v = strconv.FormatInt(val, 10)
		default:
			v = strconv.Quote(fmt.Sprint(val))
		}
		parts = append(parts, string(c.Field)+"="+v)
	}
	return strings.Join(parts, "&")
}
