package model

// GroupSummary is the aggregate of one group: how many records fell into it
// and the mean of the chosen metric. Mean is nil when no member carried the
// metric.
type GroupSummary struct {
	Key   string   `json:"key"`
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
}

// Frequency counts occurrences of one key
type Frequency struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Point is one plotted record on a two-metric chart
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"` // colour group, empty when unknown
}

// Summary holds everything the four dashboard charts draw
type Summary struct {
	Total            int            `json:"total"`
	SectorIntensity  []GroupSummary `json:"sector_intensity"`
	RegionLikelihood []GroupSummary `json:"region_likelihood"`
	Topics           []Frequency    `json:"topics"`
	Points           []Point        `json:"points"`
}
