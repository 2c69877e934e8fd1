package common

import (
	"fmt"
	"strings"
)

func RedisKeyUserStatus(userID string) string {
	return fmt.Sprintf("userstatus:%s", userID)
}

func FromRedisKeyUserStatus(key string) string {
	return strings.Split(key, ":")[1]
}

// RedisKeyLeaderboard names the ZSET of one metric inside one period, e.g.
// "leaderboard:hours:34:2026".
func RedisKeyLeaderboard(metric, period string) string {
	return fmt.Sprintf("leaderboard:%s:%s", metric, period)
}

// RedisKeySendRef maps a client send ref to the message id it produced, so a
// retried send reconciles to the original row instead of a duplicate.
func RedisKeySendRef(channelID int64, ref string) string {
	return fmt.Sprintf("sendref:%d:%s", channelID, ref)
}

func RedisKeyGifSearch(query string, limit int) string {
	return fmt.Sprintf("gif:%d:%s", limit, strings.ToLower(query))
}

func RedisKeyGroupActivity(groupID string) string {
	return fmt.Sprintf("groupactivity:%s", groupID)
}
