package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed/difftest"
	"github.com/Sumatoshi-tech/lazyseq/pkg/report"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// runOutput is the machine-readable form of one run.
type runOutput struct {
	Seed    uint64                `json:"seed"            yaml:"seed"`
	Error   string                `json:"error,omitempty" yaml:"error,omitempty"`
	Summary report.Summary        `json:"summary"         yaml:"summary"`
	Steps   []difftest.StepResult `json:"steps"           yaml:"steps"`
}

func checkFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)

		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return nil
}

// writeChartFile renders the step chart to path.
func writeChartFile(path, title string, results []difftest.StepResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	renderErr := report.WriteChart(f, title, results)
	closeErr := f.Close()

	return errors.Join(renderErr, closeErr)
}
