package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate_Layouts(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want string
	}{
		{"2025-03-14", "2025-03-14"},
		{"2025-03-14 09:30:00", "2025-03-14"},
		{"3/14/2025", "2025-03-14"},
		{"03/14/2025 09:30", "2025-03-14"},
		{"2025-03-14T09:30:00Z", "2025-03-14"},
	} {
		d, err := ParseDate(tc.in)
		require.NoError(t, err, tc.in)
		require.True(t, d.Valid, tc.in)
		require.Equal(t, tc.want, d.String(), tc.in)
	}
}

func TestParseDate_Empty(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("  ")
	require.NoError(t, err)
	require.False(t, d.Valid)
}

func TestParseDate_Garbage(t *testing.T) {
	t.Parallel()

	_, err := ParseDate("next tuesday")
	require.Error(t, err)
}

func TestDate_MarshalJSON(t *testing.T) {
	t.Parallel()

	d := NewDate(time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC))
	b, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2025-03-14"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	require.Equal(t, "null", string(b))
}

func TestDate_Max(t *testing.T) {
	t.Parallel()

	a := NewDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	b := NewDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	require.Equal(t, b, a.Max(b))
	require.Equal(t, b, b.Max(a))
	require.Equal(t, a, a.Max(Date{}))
	require.Equal(t, a, Date{}.Max(a))
	require.False(t, Date{}.Max(Date{}).Valid)
}

func TestDateTime_MarshalJSON(t *testing.T) {
	t.Parallel()

	dt := NewDateTime(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	b, err := json.Marshal(dt)
	require.NoError(t, err)
	require.Equal(t, `"2025-03-14T09:00:00"`, string(b))

	b, err = json.Marshal(DateTime{})
	require.NoError(t, err)
	require.Equal(t, "null", string(b))
}
