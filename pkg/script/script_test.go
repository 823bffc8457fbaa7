package script_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed"
	"github.com/Sumatoshi-tech/lazyseq/pkg/script"
)

func TestLoad_Testdata(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/scenarios.yaml")
	require.NoError(t, err)

	defer f.Close()

	s, err := script.Load(f)
	require.NoError(t, err)

	assert.Equal(t, 200, s.InitialLength)
	assert.Equal(t, 16, s.AnchorInterval)
	require.NotNil(t, s.SeedLimit)
	assert.Equal(t, 8, *s.SeedLimit)
	require.Len(t, s.Replaces(), 4)
	assert.Equal(t, compressed.MustReplace(1, 5, 10), s.Replaces()[1])

	results, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, []int{196, 201, 198, 296}, []int{results[0].Len, results[1].Len, results[2].Len, results[3].Len})
}

func TestScript_SparseReplay(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)

	s, err := script.Load(strings.NewReader(string(data) + "sparse: true\n"))
	require.NoError(t, err)
	require.True(t, s.Sparse)

	results, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, 296, results[3].Len)
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing edits", doc: "initial_length: 3\n"},
		{name: "negative length", doc: "initial_length: -1\nedits: []\n"},
		{name: "unknown field", doc: "initial_length: 3\nedits: []\nstrategy: lazy\n"},
		{name: "negative added", doc: "initial_length: 3\nedits:\n  - {from: 0, to: 0, added: -2}\n"},
		{name: "not a mapping", doc: "- 1\n- 2\n"},
		{name: "initial length too large", doc: "initial_length: 2000000000\nedits: []\n"},
		{name: "added too large", doc: "initial_length: 0\nedits:\n  - {from: 0, to: -1, added: 2000000000}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := script.Load(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, script.ErrInvalidScript)
		})
	}
}

func TestLoad_EditOutOfBounds(t *testing.T) {
	t.Parallel()

	doc := "initial_length: 10\nedits:\n  - {from: 0, to: 4, added: 0}\n  - {from: 4, to: 5, added: 1}\n"

	_, err := script.Load(strings.NewReader(doc))
	require.ErrorIs(t, err, script.ErrInvalidScript)
	require.ErrorIs(t, err, compressed.ErrInvalidReplace)
	assert.Contains(t, err.Error(), "edit 1")
}

func TestLoad_GrowthPastMaxLength(t *testing.T) {
	t.Parallel()

	doc := "initial_length: 10000000\nedits:\n  - {from: 0, to: -1, added: 1}\n"

	_, err := script.Load(strings.NewReader(doc))
	require.ErrorIs(t, err, script.ErrInvalidScript)
	assert.Contains(t, err.Error(), "edit 0")
}

func TestLoad_InvertedRange(t *testing.T) {
	t.Parallel()

	doc := "initial_length: 10\nedits:\n  - {from: 5, to: 2, added: 0}\n"

	_, err := script.Load(strings.NewReader(doc))
	require.ErrorIs(t, err, compressed.ErrInvalidReplace)
}

func TestValidate_ReportsEachViolation(t *testing.T) {
	t.Parallel()

	violations, err := script.Validate([]byte("initial_length: x\nedits:\n  - {from: -1, to: 0}\n"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(violations), 3)
}

func TestValidate_BrokenYAML(t *testing.T) {
	t.Parallel()

	_, err := script.Validate([]byte("initial_length: [\n"))
	require.ErrorIs(t, err, script.ErrInvalidScript)
}

func TestScript_DefaultOptions(t *testing.T) {
	t.Parallel()

	s, err := script.Load(strings.NewReader("initial_length: 20\nedits:\n  - {from: 0, to: -1, added: 5}\n"))
	require.NoError(t, err)
	assert.Nil(t, s.SeedLimit)
	assert.Len(t, s.Options(), 1)

	results, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 25, results[0].Len)
}

func TestScript_RunCancelled(t *testing.T) {
	t.Parallel()

	s, err := script.Load(strings.NewReader("initial_length: 5\nedits:\n  - {from: 0, to: 0, added: 0}\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Run(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}
