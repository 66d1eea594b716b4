package ids

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IsMonotonic(t *testing.T) {
	prev := New()
	for i := 0; i < 1000; i++ {
		next := New()
		require.Len(t, next, ulid.EncodedSize)
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestNew_Parses(t *testing.T) {
	_, err := ulid.Parse(New())
	assert.NoError(t, err)
}
