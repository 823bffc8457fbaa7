// Package script loads and replays YAML edit scripts against the differential harness.
package script

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed"
	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed/difftest"
)

// ErrInvalidScript is returned when a script fails schema or bounds validation.
var ErrInvalidScript = errors.New("invalid script")

// MaxLength bounds the sequence length a script may reach. schema.json
// applies the same bound to initial_length and to each edit's added count.
const MaxLength = 10_000_000

//go:embed schema.json
var schemaJSON []byte

// Edit is one Replace in script form.
type Edit struct {
	From  int `yaml:"from"`
	To    int `yaml:"to"`
	Added int `yaml:"added"`
}

// Script is a validated edit script.
type Script struct {
	InitialLength  int    `yaml:"initial_length"`
	AnchorInterval int    `yaml:"anchor_interval"`
	SeedLimit      *int   `yaml:"seed_limit"`
	Edits          []Edit `yaml:"edits"`

	// Sparse compares the lists only after the last edit, leaving the lazy
	// list unread in between.
	Sparse bool `yaml:"sparse"`

	replaces []compressed.Replace
}

// Validate checks raw YAML against the script schema and returns one message
// per violation. The error is set only when the document cannot be checked at all.
func Validate(data []byte) ([]string, error) {
	var doc any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %w", ErrInvalidScript, err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return violations, nil
}

// Load reads, validates and decodes a script. Every edit is also checked
// against the sequence length it will be applied to.
func Load(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	violations, err := Validate(data)
	if err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScript, strings.Join(violations, "; "))
	}

	var s Script

	err = yaml.Unmarshal(data, &s)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidScript, err)
	}

	length := s.InitialLength
	s.replaces = make([]compressed.Replace, 0, len(s.Edits))

	for i, e := range s.Edits {
		rep, repErr := compressed.NewReplace(e.From, e.To, e.Added)
		if repErr == nil {
			repErr = rep.Validate(length)
		}

		if repErr != nil {
			return nil, fmt.Errorf("%w: edit %d: %w", ErrInvalidScript, i, repErr)
		}

		length += rep.NetDelta()
		if length > MaxLength {
			return nil, fmt.Errorf("%w: edit %d grows the sequence to %d, over %d", ErrInvalidScript, i, length, MaxLength)
		}

		s.replaces = append(s.replaces, rep)
	}

	return &s, nil
}

// Replaces returns the decoded edits.
func (s *Script) Replaces() []compressed.Replace {
	return s.replaces
}

// Options returns the lazy list options the script asks for.
func (s *Script) Options() []compressed.Option {
	opts := []compressed.Option{compressed.WithAnchorInterval(s.AnchorInterval)}
	if s.SeedLimit != nil {
		opts = append(opts, compressed.WithSeedLimit(*s.SeedLimit))
	}

	return opts
}

// Run replays the script through a harness, checking both strategies after
// every edit, or only after the last one for a sparse script. Results of the steps completed before a failure are returned with it.
func (s *Script) Run(ctx context.Context, observe func(difftest.StepResult)) ([]difftest.StepResult, error) {
	h, err := difftest.NewHarness(s.InitialLength, s.Options()...)
	if err != nil {
		return nil, err
	}

	results := make([]difftest.StepResult, 0, len(s.replaces))

	for _, r := range s.replaces {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return results, fmt.Errorf("replay interrupted: %w", ctxErr)
		}

		result, stepErr := s.step(h, r)
		if stepErr != nil {
			return results, stepErr
		}

		results = append(results, result)

		if observe != nil {
			observe(result)
		}
	}

	if s.Sparse {
		err = h.Check("end of script")
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

func (s *Script) step(h *difftest.Harness, r compressed.Replace) (difftest.StepResult, error) {
	if s.Sparse {
		return h.Apply(r)
	}

	return h.Step(r)
}
