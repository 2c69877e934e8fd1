package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCurrentWeek(t *testing.T) {
	// 2023-06-14 is a Wednesday; its week starts Monday 2023-06-12.
	wednesday := time.Date(2023, 6, 14, 15, 4, 5, 0, time.UTC)
	require.Equal(t, time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC), CurrentWeek(wednesday))

	// Sunday belongs to the week that started six days earlier.
	sunday := time.Date(2023, 6, 18, 1, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC), CurrentWeek(sunday))

	// Monday is its own week start.
	monday := time.Date(2023, 6, 12, 23, 59, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC), CurrentWeek(monday))
}

func TestDate(t *testing.T) {
	require.Equal(t, "2023-06-14", Date(time.Date(2023, 6, 14, 23, 59, 59, 0, time.UTC)))

	parsed, err := ParseDate("2023-06-14")
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC), parsed)
}
