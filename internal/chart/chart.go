// Package chart turns a classified dataset view into the data behind the
// three horizontal value charts: marked codes, plain codes, and every code
// that carries a number.
package chart

import (
	"fmt"
	"strings"

	"moonlabel.dev/internal/classify"
	"moonlabel.dev/internal/dataset"
)

// Name identifies one of the supported views.
type Name string

const (
	Marked Name = "marked"
	Plain  Name = "plain"
	All    Name = "all"
)

// Names lists the views in display order.
var Names = []Name{Marked, Plain, All}

const (
	DomainMin = 0
	DomainMax = 1000

	// PointY is the fixed vertical position of every point.
	PointY = 50
	Width  = 700
	Height = 200

	labelYEven = 35
	labelYOdd  = 65
)

// Colors by category.
var Colors = map[classify.Category]string{
	classify.Marked: "blue",
	classify.Plain:  "yellow",
}

var titles = map[Name]string{
	Marked: "수평선 상의 '문' 데이터",
	Plain:  "수평선 상의 일반 데이터",
	All:    "수평선 상의 전체 데이터 (색상 구분)",
}

// ParseName maps a route parameter such as "marked" or "all.json" to a Name.
func ParseName(s string) (Name, bool) {
	s = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ".json"))
	for _, name := range Names {
		if string(name) == s {
			return name, true
		}
	}
	return "", false
}

// Point is one row placed on the horizontal axis.
type Point struct {
	Index    int               `json:"index"`
	Code     *string           `json:"code"`
	Value    *float64          `json:"value"`
	Label    string            `json:"label"`
	LabelY   int               `json:"labelY"`
	Category classify.Category `json:"category"`
	Color    string            `json:"color"`
	Tooltip  string            `json:"tooltip"`
}

// Axis describes the x axis shared by every view.
type Axis struct {
	Title string  `json:"title"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Chart is the data for one view.
type Chart struct {
	Name   Name    `json:"name"`
	Title  string  `json:"title"`
	XAxis  Axis    `json:"xAxis"`
	PointY int     `json:"pointY"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Points []Point `json:"points"`
}

// Build assembles the named view. Marked and plain keep rows without a
// numeric value (their Value is nil); all keeps only rows with one.
func Build(view *dataset.View, name Name) (*Chart, error) {
	title, ok := titles[name]
	if !ok {
		return nil, fmt.Errorf("unknown chart view %q", name)
	}

	chart := &Chart{
		Name:  name,
		Title: title,
		XAxis: Axis{
			Title: fmt.Sprintf("값 (%s 컬럼)", codeColumn(view)),
			Min:   DomainMin,
			Max:   DomainMax,
		},
		PointY: PointY,
		Width:  Width,
		Height: Height,
		Points: []Point{},
	}
	if view == nil {
		return chart, nil
	}

	var rows []classify.Result
	switch name {
	case Marked:
		rows = view.Partitions.Marked
	case Plain:
		rows = view.Partitions.Plain
	case All:
		rows = view.Partitions.Numeric
	}

	chart.Points = make([]Point, 0, len(rows))
	for pos, r := range rows {
		chart.Points = append(chart.Points, newPoint(view, r, pos))
	}
	return chart, nil
}

// BuildAll assembles every view in display order.
func BuildAll(view *dataset.View) []*Chart {
	charts := make([]*Chart, 0, len(Names))
	for _, name := range Names {
		c, _ := Build(view, name)
		charts = append(charts, c)
	}
	return charts
}

func newPoint(view *dataset.View, r classify.Result, pos int) Point {
	p := Point{
		Index:    r.Record.Index,
		Code:     view.Code(r),
		LabelY:   LabelY(pos),
		Category: r.Value.Category,
		Color:    Colors[r.Value.Category],
		Tooltip:  view.Label(r),
	}
	if v, ok := r.Value.Float(); ok {
		p.Value = &v
		p.Label = FormatLabel(v)
	}
	return p
}

// LabelY alternates label heights so that neighbouring labels do not overlap.
func LabelY(pos int) int {
	if pos%2 == 0 {
		return labelYEven
	}
	return labelYOdd
}

// FormatLabel renders a value with one decimal place.
func FormatLabel(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// InDomain reports whether the point falls inside the x axis range.
func (p Point) InDomain() bool {
	return p.Value != nil && *p.Value >= DomainMin && *p.Value <= DomainMax
}

func codeColumn(view *dataset.View) string {
	if view == nil || view.CodeColumn == "" {
		return "90"
	}
	return view.CodeColumn
}
