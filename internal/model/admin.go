package model

type GetUsersRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetUsersResponse struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
}

type BanUserRequest struct {
	UserID string `json:"user_id"`
	Banned bool   `json:"banned"`
}

type BanUserResponse struct{}

type ResetUserStreakRequest struct {
	UserID string `json:"user_id"`
	Type   string `json:"type"`
}

type ResetUserStreakResponse struct{}

type DeleteUserCompletelyRequest struct {
	UserID string `json:"user_id"`
}

type DeleteUserCompletelyResponse struct{}

type BroadcastNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type BroadcastNotificationResponse struct {
	Recipients int `json:"recipients"`
}
