package query

import (
	"strings"

	"insights-dashboard/internal/model"
)

// columns maps filter fields to table columns. Anything outside this map never
// reaches SQL.
var columns = map[model.Field]string{
	model.FieldEndYear: "end_year",
	model.FieldTopic:   "topic",
	model.FieldSector:  "sector",
	model.FieldRegion:  "region",
	model.FieldPestle:  "pestle",
	model.FieldSource:  "source",
	model.FieldSwot:    "swot",
	model.FieldCountry: "country",
	model.FieldCity:    "city",
}

// Where renders the predicate as a SQL condition with '?' placeholders.
// Callers rebind the placeholders for their driver. A match-all predicate
// renders as an empty clause.
func (p Predicate) Where() (string, []interface{}) {
	if p.MatchNone {
		return "1 = 0", nil
	}
	conds := make([]string, 0, len(p.Constraints))
	args := make([]interface{}, 0, len(p.Constraints))
	for _, c := range p.Constraints {
		col, ok := columns[c.Field]
		if !ok {
			continue
		}
		conds = append(conds, col+" = ?")
		args = append(args, c.Value)
	}
	return strings.Join(conds, " AND "), args
}
