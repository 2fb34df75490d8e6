// Package filter defines the filterable fields of an insight record and the
// option lists offered for each of them.
package filter

import (
	"net/url"
	"sort"
	"strings"

	"insights-dashboard/internal/model"
	"insights-dashboard/pkg/utils"
)

// Fields is the fixed, ordered set of filterable fields
var Fields = []model.Field{
	model.FieldEndYear,
	model.FieldTopic,
	model.FieldSector,
	model.FieldRegion,
	model.FieldPestle,
	model.FieldSource,
	model.FieldSwot,
	model.FieldCountry,
	model.FieldCity,
}

// Known reports whether name is one of the filterable fields
func Known(name string) bool {
	for _, f := range Fields {
		if string(f) == name {
			return true
		}
	}
	return false
}

// Empty returns the selection with no constraint on any field
func Empty() model.Selection {
	return model.Selection{}
}

// FromQuery reads a selection from URL query parameters. Unknown keys and
// blank values are dropped; only the first value of a repeated key counts.
func FromQuery(q url.Values) model.Selection {
	sel := Empty()
	for _, f := range Fields {
		v := strings.TrimSpace(q.Get(string(f)))
		if v == "" {
			continue
		}
		sel[f] = v
	}
	return sel
}

// Encode writes the non-empty entries of a selection as query parameters
func Encode(sel model.Selection) url.Values {
	q := url.Values{}
	for _, f := range Fields {
		if v := sel[f]; v != "" {
			q.Set(string(f), v)
		}
	}
	return q
}

// OptionsFor returns the distinct non-empty values of field across records,
// sorted ascending. end_year sorts numerically, everything else by string.
func OptionsFor(field model.Field, records []model.Record) []string {
	seen := make(map[string]struct{})
	options := make([]string, 0)
	for _, r := range records {
		v, ok := r.Value(field)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		options = append(options, v)
	}

	if field == model.FieldEndYear {
		sort.Slice(options, func(i, j int) bool {
			a, _ := utils.ParseInt(options[i])
			b, _ := utils.ParseInt(options[j])
			return a < b
		})
	} else {
		sort.Strings(options)
	}
	return options
}

// AllOptions computes OptionsFor for every filterable field
func AllOptions(records []model.Record) map[model.Field][]string {
	out := make(map[model.Field][]string, len(Fields))
	for _, f := range Fields {
		out[f] = OptionsFor(f, records)
	}
	return out
}
