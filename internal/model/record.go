package model

import "strconv"

// Field names a filterable record attribute
type Field string

const (
	FieldEndYear Field = "end_year"
	FieldTopic   Field = "topic"
	FieldSector  Field = "sector"
	FieldRegion  Field = "region"
	FieldPestle  Field = "pestle"
	FieldSource  Field = "source"
	FieldSwot    Field = "swot"
	FieldCountry Field = "country"
	FieldCity    Field = "city"
)

// Metric names a numeric record attribute
type Metric string

const (
	MetricIntensity  Metric = "intensity"
	MetricLikelihood Metric = "likelihood"
	MetricRelevance  Metric = "relevance"
	MetricImpact     Metric = "impact"
)

// Record represents one insight row. Nil pointers mean the attribute is absent,
// which is not the same as an empty string.
type Record struct {
	ID         string   `json:"id" db:"id"`
	Title      *string  `json:"title" db:"title"`
	Insight    *string  `json:"insight" db:"insight"`
	URL        *string  `json:"url" db:"url"`
	Added      *string  `json:"added" db:"added"`
	Published  *string  `json:"published" db:"published"`
	StartYear  *int64   `json:"start_year" db:"start_year"`
	EndYear    *int64   `json:"end_year" db:"end_year"`
	Topic      *string  `json:"topic" db:"topic"`
	Sector     *string  `json:"sector" db:"sector"`
	Region     *string  `json:"region" db:"region"`
	Pestle     *string  `json:"pestle" db:"pestle"`
	Source     *string  `json:"source" db:"source"`
	Swot       *string  `json:"swot" db:"swot"`
	Country    *string  `json:"country" db:"country"`
	City       *string  `json:"city" db:"city"`
	Intensity  *float64 `json:"intensity" db:"intensity"`
	Likelihood *float64 `json:"likelihood" db:"likelihood"`
	Relevance  *float64 `json:"relevance" db:"relevance"`
	Impact     *float64 `json:"impact" db:"impact"`
}

// Value returns the textual value of a categorical field. ok is false when the
// field is absent or empty.
func (r Record) Value(f Field) (string, bool) {
	if f == FieldEndYear {
		if r.EndYear == nil {
			return "", false
		}
		return strconv.FormatInt(*r.EndYear, 10), true
	}

	var p *string
	switch f {
	case FieldTopic:
		p = r.Topic
	case FieldSector:
		p = r.Sector
	case FieldRegion:
		p = r.Region
	case FieldPestle:
		p = r.Pestle
	case FieldSource:
		p = r.Source
	case FieldSwot:
		p = r.Swot
	case FieldCountry:
		p = r.Country
	case FieldCity:
		p = r.City
	}
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

// Number returns a numeric metric, ok is false when it is absent.
func (r Record) Number(m Metric) (float64, bool) {
	var p *float64
	switch m {
	case MetricIntensity:
		p = r.Intensity
	case MetricLikelihood:
		p = r.Likelihood
	case MetricRelevance:
		p = r.Relevance
	case MetricImpact:
		p = r.Impact
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Str returns a pointer to s. Handy for building records in code.
func Str(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i.
func Int(i int64) *int64 { return &i }
