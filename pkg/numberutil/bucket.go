package numberutil

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Messages are partitioned by channel and a coarse time bucket so a single
// partition never grows unbounded.
const BucketDuration int64 = 1000 * 60 * 60 * 24 * 10 // 10 days

// BucketFrom maps a snowflake id to its time bucket, or the current bucket
// when the id is zero.
func BucketFrom(id int64) int64 {
	ms := time.Now().UnixMilli()
	if id != 0 {
		ms = snowflake.ParseInt64(id).Time()
	}

	return ms / BucketDuration
}
