package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insights-dashboard/internal/model"
)

func mean(v float64) *float64 { return &v }

func TestSectorIntensity(t *testing.T) {
	var buf bytes.Buffer
	err := SectorIntensity(&buf, []model.GroupSummary{
		{Key: "Energy", Count: 2, Mean: mean(15)},
		{Key: "Retail", Count: 1, Mean: mean(6)},
		{Key: "Empty", Count: 3},
	}, SizeFor(800))
	require.NoError(t, err)

	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "Energy")
	assert.Contains(t, svg, "Retail")
	assert.NotContains(t, svg, ">Empty<")
}

func TestSectorIntensity_SingleBar(t *testing.T) {
	var buf bytes.Buffer
	err := SectorIntensity(&buf, []model.GroupSummary{{Key: "Energy", Count: 1, Mean: mean(0)}}, Size{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Energy")
}

func TestSectorIntensity_NoMeans(t *testing.T) {
	err := SectorIntensity(&bytes.Buffer{}, []model.GroupSummary{{Key: "Energy", Count: 1}}, Size{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTopics(t *testing.T) {
	var buf bytes.Buffer
	err := Topics(&buf, []model.Frequency{{Key: "oil", Count: 5}, {Key: "gas", Count: 3}}, SizeFor(400))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "oil")

	assert.ErrorIs(t, Topics(&bytes.Buffer{}, nil, Size{}), ErrNoData)
}

func TestRegionLikelihood_HidesSmallLabels(t *testing.T) {
	var buf bytes.Buffer
	err := RegionLikelihood(&buf, []model.GroupSummary{
		{Key: "World", Count: 95},
		{Key: "Oceania", Count: 5},
	}, Size{})
	require.NoError(t, err)

	svg := buf.String()
	assert.Contains(t, svg, "World")
	assert.NotContains(t, svg, "Oceania")
}

func TestRegionLikelihood_Empty(t *testing.T) {
	err := RegionLikelihood(&bytes.Buffer{}, []model.GroupSummary{}, Size{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRelevanceLikelihood(t *testing.T) {
	var buf bytes.Buffer
	err := RelevanceLikelihood(&buf, []model.Point{
		{X: 2, Y: 3, Label: "Energy"},
		{X: 4, Y: 2, Label: "Retail"},
		{X: 1, Y: 1},
	}, Size{})
	require.NoError(t, err)

	svg := buf.String()
	assert.Contains(t, svg, "Energy")
	assert.Contains(t, svg, "Unknown")
}

func TestRelevanceLikelihood_SinglePoint(t *testing.T) {
	var buf bytes.Buffer
	err := RelevanceLikelihood(&buf, []model.Point{{X: 2, Y: 2, Label: "Energy"}}, Size{})
	require.NoError(t, err)
}

func TestRender_Dispatch(t *testing.T) {
	sum := model.Summary{
		Total:  1,
		Topics: []model.Frequency{{Key: "oil", Count: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, ChartTopics, sum, Size{}))
	assert.NotZero(t, buf.Len())

	err := Render(&bytes.Buffer{}, ChartSectorIntensity, sum, Size{})
	assert.ErrorIs(t, err, ErrNoData)

	err = Render(&bytes.Buffer{}, "pie", sum, Size{})
	assert.True(t, errors.Is(err, ErrUnknownChart))
	assert.False(t, Known("pie"))
	assert.True(t, Known(ChartTopics))
}

func TestSizeFor(t *testing.T) {
	assert.Equal(t, Size{Width: defaultWidth, Height: defaultHeight}, SizeFor(0))
	assert.Equal(t, minWidth, SizeFor(50).Width)
	assert.Equal(t, maxWidth, SizeFor(10000).Width)
	assert.Equal(t, 640, SizeFor(640).Width)
}
