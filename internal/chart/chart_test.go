package chart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moonlabel.dev/internal/classify"
	"moonlabel.dev/internal/dataset"
)

func fixtureView(t *testing.T) *dataset.View {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "testdata", "codes.csv"))
	require.NoError(t, err)

	manager, err := dataset.InitManager(context.Background(), dataset.Config{
		Source:      path,
		Encoding:    "cp949",
		CodeColumn:  "90",
		LabelColumn: "245",
	})
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)
	return manager.View()
}

func indexes(points []Point) []int {
	out := make([]int, 0, len(points))
	for _, p := range points {
		out = append(out, p.Index)
	}
	return out
}

func TestBuildMarked(t *testing.T) {
	c, err := Build(fixtureView(t), Marked)
	require.NoError(t, err)

	assert.Equal(t, "수평선 상의 '문' 데이터", c.Title)
	assert.Equal(t, Axis{Title: "값 (90 컬럼)", Min: 0, Max: 1000}, c.XAxis)
	assert.Equal(t, []int{0, 3, 5}, indexes(c.Points))

	labels := []string{}
	for _, p := range c.Points {
		labels = append(labels, p.Label)
		assert.Equal(t, "blue", p.Color)
		assert.Equal(t, classify.Marked, p.Category)
	}
	assert.Equal(t, []string{"120.0", "45.0", "815.5"}, labels)
	assert.Equal(t, 35, c.Points[0].LabelY)
	assert.Equal(t, 65, c.Points[1].LabelY)
	assert.Equal(t, 35, c.Points[2].LabelY)
	assert.Equal(t, "한국사 개론", c.Points[0].Tooltip)
}

func TestBuildPlainKeepsRowsWithoutValue(t *testing.T) {
	c, err := Build(fixtureView(t), Plain)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 4, 6}, indexes(c.Points))

	missing := c.Points[1]
	assert.Nil(t, missing.Value)
	assert.Empty(t, missing.Label)
	assert.Nil(t, missing.Code)
	assert.False(t, missing.InDomain())

	for _, p := range c.Points {
		assert.Equal(t, "yellow", p.Color)
	}
}

func TestBuildAllKeepsNumericRowsOnly(t *testing.T) {
	c, err := Build(fixtureView(t), All)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 3, 5, 6}, indexes(c.Points))

	colors := []string{}
	for _, p := range c.Points {
		require.NotNil(t, p.Value)
		colors = append(colors, p.Color)
	}
	assert.Equal(t, []string{"blue", "yellow", "blue", "blue", "yellow"}, colors)

	// Label positions restart for each view.
	assert.Equal(t, []int{35, 65, 35, 65, 35}, []int{
		c.Points[0].LabelY, c.Points[1].LabelY, c.Points[2].LabelY, c.Points[3].LabelY, c.Points[4].LabelY,
	})
}

func TestBuildUnknownView(t *testing.T) {
	_, err := Build(nil, Name("bar"))
	assert.Error(t, err)
}

func TestBuildNilView(t *testing.T) {
	c, err := Build(nil, All)
	require.NoError(t, err)
	assert.NotNil(t, c.Points)
	assert.Empty(t, c.Points)
}

func TestBuildAll(t *testing.T) {
	charts := BuildAll(fixtureView(t))
	require.Len(t, charts, 3)
	assert.Equal(t, Marked, charts[0].Name)
	assert.Equal(t, Plain, charts[1].Name)
	assert.Equal(t, All, charts[2].Name)
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
		ok   bool
	}{
		{"marked", Marked, true},
		{"plain.json", Plain, true},
		{" ALL ", All, true},
		{"moon", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseName(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatLabelAndDomain(t *testing.T) {
	assert.Equal(t, "45.0", FormatLabel(45))
	assert.Equal(t, "815.5", FormatLabel(815.5))
	assert.Equal(t, "0.3", FormatLabel(0.26))

	over := 1200.0
	assert.False(t, Point{Value: &over}.InDomain())
	in := 12.0
	assert.True(t, Point{Value: &in}.InDomain())
}
