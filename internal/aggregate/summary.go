package aggregate

import "insights-dashboard/internal/model"

const (
	// DefaultTopics is how many topics the distribution chart shows
	DefaultTopics = 10
	// NarrowTopics is used when the display is narrow
	NarrowTopics = 5
	// NarrowWidth is the display width, in pixels, below which a display is narrow
	NarrowWidth = 500
)

// Options tune Summarize
type Options struct {
	TopN int // topics to keep, DefaultTopics when zero
}

// TopicLimit picks the topic count for a display width. Zero width means
// unknown and gets the default.
func TopicLimit(width int) int {
	if width > 0 && width < NarrowWidth {
		return NarrowTopics
	}
	return DefaultTopics
}

// Summarize computes the four chart summaries for one result set
func Summarize(records []model.Record, opts Options) model.Summary {
	topN := opts.TopN
	if topN == 0 {
		topN = DefaultTopics
	}

	sectors := GroupMean(records, ByField(model.FieldSector), ByMetric(model.MetricIntensity))
	SortByMean(sectors)

	regions := GroupMean(records, ByField(model.FieldRegion), ByMetric(model.MetricLikelihood))
	SortByCount(regions)

	return model.Summary{
		Total:            len(records),
		SectorIntensity:  sectors,
		RegionLikelihood: regions,
		Topics:           TopN(records, ByField(model.FieldTopic), topN),
		Points: Pairs(records,
			ByMetric(model.MetricRelevance),
			ByMetric(model.MetricLikelihood),
			ByField(model.FieldSector),
		),
	}
}
