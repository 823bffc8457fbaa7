package safeconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustIntToUint64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), MustIntToUint64(0))
	assert.Equal(t, uint64(42), MustIntToUint64(42))
	assert.Panics(t, func() { MustIntToUint64(-1) })
}
