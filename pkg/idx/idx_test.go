package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Unique(t *testing.T) {
	seen := make(map[ID]struct{})
	for range 1000 {
		id := New()
		require.False(t, id.IsZero())
		_, dup := seen[id]
		require.False(t, dup, "duplicate ULID generated")
		seen[id] = struct{}{}
	}
}

func TestNewAt_EmbedsTime(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	id := NewAt(at)
	require.WithinDuration(t, at, id.Time(), time.Millisecond)
}

func TestParse(t *testing.T) {
	id := New()

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = Parse("")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("not-a-ulid")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestNew_Sortable(t *testing.T) {
	a := NewAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	b := NewAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.Less(t, a.String(), b.String())
}
