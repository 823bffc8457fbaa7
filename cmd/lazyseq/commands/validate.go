package commands

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/lazyseq/pkg/report"
	"github.com/Sumatoshi-tech/lazyseq/pkg/script"
)

// ErrValidationFailed is returned when a script does not validate.
var ErrValidationFailed = errors.New("script validation failed")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "validate <script.yaml|->",
		Short: "Validate a YAML edit script",
		Long: `Validate an edit script against the script schema, then check that every
edit fits the sequence length it will be applied to.

Examples:
  lazyseq validate edits.yaml
  lazyseq validate - < edits.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}

			return runValidate(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	data, label, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	violations, err := script.Validate(data)
	if err != nil {
		report.Failure(out, "Script cannot be parsed (%s)", label)

		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if len(violations) > 0 {
		report.Failure(out, "Script does not match the schema (%s)", label)

		for _, v := range violations {
			report.Failure(out, "  - %s", v)
		}

		return fmt.Errorf("%w: %d schema violations", ErrValidationFailed, len(violations))
	}

	s, err := script.Load(bytes.NewReader(data))
	if err != nil {
		report.Failure(out, "Script edits are out of bounds (%s)", label)
		report.Failure(out, "  - %v", err)
		report.Note(out, "Each edit applies to the length left by the previous ones.")

		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	final := s.InitialLength
	for _, r := range s.Replaces() {
		final += r.NetDelta()
	}

	report.Success(out, "Script is valid (%s)", label)
	report.Note(out, "  %d edits, length %d -> %d", len(s.Replaces()), s.InitialLength, final)

	return nil
}
