package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed/difftest"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"
	lineWidth   = 2
)

// WriteChart renders an HTML page with two line charts: list size against
// stored anchors, and generator calls per step for both strategies.
func WriteChart(w io.Writer, title string, results []difftest.StepResult) error {
	labels := make([]string, len(results))
	length := make([]opts.LineData, len(results))
	anchors := make([]opts.LineData, len(results))
	lazyCalls := make([]opts.LineData, len(results))
	fullCalls := make([]opts.LineData, len(results))

	for i, r := range results {
		labels[i] = strconv.Itoa(r.Step)
		length[i] = opts.LineData{Value: r.Len}
		anchors[i] = opts.LineData{Value: r.Anchors}
		lazyCalls[i] = opts.LineData{Value: r.LazyCalls()}
		fullCalls[i] = opts.LineData{Value: r.FullGenerateCalls}
	}

	size := newLine(title+": size", "Elements", labels)
	size.AddSeries("Length", length, lineStyle())
	size.AddSeries("Anchors", anchors, lineStyle())

	calls := newLine(title+": generator calls", "Calls", labels)
	calls.AddSeries("Lazy", lazyCalls, lineStyle())
	calls.AddSeries("Full", fullCalls, lineStyle())

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(size, calls)

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

func newLine(title, yName string, labels []string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Step"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	line.SetXAxis(labels)

	return line
}

func lineStyle() charts.SeriesOpts {
	return charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth})
}
