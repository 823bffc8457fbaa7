// Package report renders differential run results as terminal tables,
// colored status lines and HTML charts.
package report

import "github.com/Sumatoshi-tech/lazyseq/pkg/compressed/difftest"

const percent = 100

// Summary aggregates the steps of one run.
type Summary struct {
	Steps         int `json:"steps"           yaml:"steps"`
	FinalLen      int `json:"final_len"       yaml:"final_len"`
	MaxAnchors    int `json:"max_anchors"     yaml:"max_anchors"`
	LazyCalls     int `json:"lazy_calls"      yaml:"lazy_calls"`
	LazyReadCalls int `json:"lazy_read_calls" yaml:"lazy_read_calls"`
	FullCalls     int `json:"full_calls"      yaml:"full_calls"`
}

// Summarize folds step results into a Summary.
func Summarize(results []difftest.StepResult) Summary {
	var s Summary

	for _, r := range results {
		s.Steps++
		s.FinalLen = r.Len
		s.MaxAnchors = max(s.MaxAnchors, r.Anchors)
		s.LazyCalls += r.LazyGenerateCalls
		s.LazyReadCalls += r.LazyReadCalls
		s.FullCalls += r.FullGenerateCalls
	}

	return s
}

// Savings returns the share of the full list's generator calls the lazy list
// avoided, in percent, counting both its recalculation and read calls. Zero
// when the full list made no calls.
func (s Summary) Savings() float64 {
	if s.FullCalls == 0 {
		return 0
	}

	return percent * (1 - float64(s.LazyCalls+s.LazyReadCalls)/float64(s.FullCalls))
}
