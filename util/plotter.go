package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ga-covid-server/models"
)

const chartWidth = "1000px"
const chartHeight = "560px"

// stackName groups the bar series of a chart into one stack.
const stackName = "total"

// NamedValues is one stacked series of a categorical bar chart.
type NamedValues struct {
	Name   string
	Values []int64
}

func globalOpts(pageTitle, title, xTitle, yTitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: pageTitle,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: yTitle}),
	}
}

// seriesTitle names the chart after the selection: statewide or by county.
func seriesTitle(set models.SeriesSet) string {
	if len(set.Series) == 1 && set.Series[0].Location == models.AllCounties {
		return fmt.Sprintf("%s in Georgia", set.Label)
	}
	return fmt.Sprintf("%s by County", set.Label)
}

// RenderSeriesChart renders a SeriesSet as an HTML page: a line chart for the line
// representation, a stacked bar chart for the bar one. The x-axis is the day number;
// each point is named by its calendar date, which the item tooltip shows. Days
// without a row are gaps.
func RenderSeriesChart(w io.Writer, set models.SeriesSet) error {
	global := append(globalOpts("GA COVID-19 "+set.Label, seriesTitle(set), "Day", set.Label),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}))

	switch set.Representation {
	case models.RepresentationBar.String():
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(set.Axis.Days)
		for _, s := range set.Series {
			data := make([]opts.BarData, len(s.Points))
			for i, p := range s.Points {
				data[i] = opts.BarData{Name: p.Date, Value: pointValue(p)}
			}
			bar.AddSeries(s.Location, data, charts.WithBarChartOpts(opts.BarChart{Stack: stackName}))
		}
		return bar.Render(w)
	default:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(set.Axis.Days)
		for _, s := range set.Series {
			data := make([]opts.LineData, len(s.Points))
			for i, p := range s.Points {
				data[i] = opts.LineData{Name: p.Date, Value: pointValue(p)}
			}
			line.AddSeries(s.Location, data)
		}
		return line.Render(w)
	}
}

// pointValue maps a missing point to "-", which echarts draws as a gap.
func pointValue(p models.SeriesPoint) interface{} {
	if !p.Present {
		return "-"
	}
	return p.Value
}

// RenderStackedBarChart renders categorical counts as stacked bars, one stack per category.
func RenderStackedBarChart(w io.Writer, title, xTitle, yTitle string, categories []string, stacks []NamedValues) error {
	for _, s := range stacks {
		if len(s.Values) != len(categories) {
			return fmt.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), len(categories))
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(title, title, xTitle, yTitle)...)
	bar.SetXAxis(categories)
	for _, s := range stacks {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Name: categories[i], Value: v}
		}
		bar.AddSeries(s.Name, data, charts.WithBarChartOpts(opts.BarChart{Stack: stackName}))
	}
	return bar.Render(w)
}

// RenderPieChart renders labelled values as a pie.
func RenderPieChart(w io.Writer, title string, slices []models.SummaryRow) error {
	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		data[i] = opts.PieData{Name: s.Label, Value: s.Value}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	pie.AddSeries(title, data,
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}: {d}%",
		}),
	)
	return pie.Render(w)
}
