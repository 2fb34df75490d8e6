package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insights-dashboard/internal/model"
)

func TestTopicLimit(t *testing.T) {
	assert.Equal(t, NarrowTopics, TopicLimit(320))
	assert.Equal(t, DefaultTopics, TopicLimit(NarrowWidth))
	assert.Equal(t, DefaultTopics, TopicLimit(0))
}

func TestSummarize(t *testing.T) {
	records := []model.Record{
		{Sector: model.Str("Energy"), Region: model.Str("Asia"), Topic: model.Str("oil"),
			Intensity: model.Float(10), Likelihood: model.Float(3), Relevance: model.Float(2)},
		{Sector: model.Str("Energy"), Region: model.Str("Asia"), Topic: model.Str("gas"),
			Intensity: model.Float(20), Likelihood: model.Float(1)},
		{Sector: model.Str("Retail"), Region: model.Str("Europe"), Topic: model.Str("oil"),
			Intensity: model.Float(30), Likelihood: model.Float(4), Relevance: model.Float(5)},
	}

	s := Summarize(records, Options{})

	assert.Equal(t, 3, s.Total)
	require.Len(t, s.SectorIntensity, 2)
	assert.Equal(t, "Retail", s.SectorIntensity[0].Key)
	assert.Equal(t, "Energy", s.SectorIntensity[1].Key)

	require.Len(t, s.RegionLikelihood, 2)
	assert.Equal(t, "Asia", s.RegionLikelihood[0].Key)
	assert.Equal(t, 2, s.RegionLikelihood[0].Count)
	assert.InDelta(t, 2.0, *s.RegionLikelihood[0].Mean, 1e-9)

	assert.Equal(t, []model.Frequency{{Key: "oil", Count: 2}, {Key: "gas", Count: 1}}, s.Topics)
	assert.Len(t, s.Points, 2)
}

func TestSummarize_RespectsTopN(t *testing.T) {
	records := make([]model.Record, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, model.Record{Topic: model.Str(fmt.Sprintf("t%02d", i))})
	}
	assert.Len(t, Summarize(records, Options{}).Topics, DefaultTopics)
	assert.Len(t, Summarize(records, Options{TopN: TopicLimit(300)}).Topics, NarrowTopics)
}
