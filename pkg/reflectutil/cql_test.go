package reflectutil

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetColumnNames(t *testing.T) {
	type test struct {
		ID        string
		ChannelID string
		Bucket    int64
		CreatedBy string
		Reactions string
	}
	got := GetColumnNames(&test{})

	want := []string{"id", "channel_id", "bucket", "created_by", "reactions"}

	sort.Strings(want)
	require.Equal(t, want, got)
}
