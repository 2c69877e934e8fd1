package model

type UpsertDailyLogRequest struct {
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

type UpsertDailyLogResponse struct {
	DailyLog DailyLog `json:"daily_log"`
}

type GetDailyLogsRequest struct {
	UserID string `json:"user_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type GetDailyLogsResponse struct {
	DailyLogs []DailyLog `json:"daily_logs"`
}

type DeleteDailyLogRequest struct {
	ID string `json:"id"`
}

type DeleteDailyLogResponse struct{}
