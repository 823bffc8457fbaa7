package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed/difftest"
)

// WriteTable prints one row per step followed by a totals footer.
func WriteTable(w io.Writer, results []difftest.StepResult) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"Step", "Edit", "Len", "Anchors", "Lazy recalc calls", "Lazy read calls", "Full calls"})

	for _, r := range results {
		tbl.AppendRow(table.Row{
			r.Step,
			r.Replace,
			humanize.Comma(int64(r.Len)),
			humanize.Comma(int64(r.Anchors)),
			humanize.Comma(int64(r.LazyGenerateCalls)),
			humanize.Comma(int64(r.LazyReadCalls)),
			humanize.Comma(int64(r.FullGenerateCalls)),
		})
	}

	s := Summarize(results)

	tbl.AppendFooter(table.Row{
		"Total",
		fmt.Sprintf("saved %.1f%%", s.Savings()),
		humanize.Comma(int64(s.FinalLen)),
		humanize.Comma(int64(s.MaxAnchors)),
		humanize.Comma(int64(s.LazyCalls)),
		humanize.Comma(int64(s.LazyReadCalls)),
		humanize.Comma(int64(s.FullCalls)),
	})

	tbl.Render()
}

// RunLine is one row of a multi-run overview.
type RunLine struct {
	Seed    uint64
	Summary Summary
	Error   string // Empty when the run passed.
}

// WriteRuns prints one row per seeded run.
func WriteRuns(w io.Writer, runs []RunLine) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	tbl.AppendHeader(table.Row{
		"Seed", "Steps", "Final len", "Max anchors", "Lazy recalc calls", "Lazy read calls", "Full calls", "Saved", "Result",
	})

	for _, run := range runs {
		result := "ok"
		if run.Error != "" {
			result = run.Error
		}

		s := run.Summary

		tbl.AppendRow(table.Row{
			run.Seed,
			humanize.Comma(int64(s.Steps)),
			humanize.Comma(int64(s.FinalLen)),
			humanize.Comma(int64(s.MaxAnchors)),
			humanize.Comma(int64(s.LazyCalls)),
			humanize.Comma(int64(s.LazyReadCalls)),
			humanize.Comma(int64(s.FullCalls)),
			fmt.Sprintf("%.1f%%", s.Savings()),
			result,
		})
	}

	tbl.Render()
}
