package model

type GetMeRequest struct{}

type GetMeResponse User

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type GetUserResponse User

type UpdateUserRequest struct {
	Username    string `json:"username"`
	Bio         string `json:"bio"`
	AvatarColor string `json:"avatar_color"`
}

type UpdateUserResponse struct {
	User User `json:"user"`
}

type UploadAvatarRequest struct{}

type UploadAvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

type SearchUsersRequest struct {
	Q      string `json:"q"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type SearchUsersResponse struct {
	Users []ShortUser `json:"users"`
}
