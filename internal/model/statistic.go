package model

type GetLeaderboardRequest struct {
	// Metric is "hours" or "streak".
	Metric string `json:"metric"`

	// Period is "week", "month", or "alltime".
	Period string `json:"period"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`

	// MyRank is 1-based; zero when the requester has no score yet.
	MyRank int `json:"my_rank"`
}

type GetUserStatsRequest struct {
	UserID string `json:"user_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type GetUserStatsResponse struct {
	TotalHours     float64 `json:"total_hours"`
	TotalLogs      int64   `json:"total_logs"`
	CompletedTasks int64   `json:"completed_tasks"`
	BadgeCount     int64   `json:"badge_count"`

	Streaks []Streak `json:"streaks"`

	Heatmap []HeatmapCell `json:"heatmap"`
}
