package model

type GetStreaksRequest struct {
	UserID string `json:"user_id"`
}

type GetStreaksResponse struct {
	Streaks []Streak `json:"streaks"`
}

type ResetStreakRequest struct {
	Type string `json:"type"`
}

type ResetStreakResponse struct{}
