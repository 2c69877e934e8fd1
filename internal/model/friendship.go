package model

type SendFriendRequestRequest struct {
	UserID string `json:"user_id"`
}

type SendFriendRequestResponse struct {
	Friendship Friendship `json:"friendship"`
}

type AcceptFriendRequestRequest struct {
	ID string `json:"id"`
}

type AcceptFriendRequestResponse struct{}

type DeclineFriendRequestRequest struct {
	ID string `json:"id"`
}

type DeclineFriendRequestResponse struct{}

type UnfriendRequest struct {
	UserID string `json:"user_id"`
}

type UnfriendResponse struct{}

type GetFriendsRequest struct{}

type GetFriendsResponse struct {
	Friends []ShortUser `json:"friends"`
}

type GetPendingRequestsRequest struct{}

type GetPendingRequestsResponse struct {
	Received []Friendship `json:"received"`
	Sent     []Friendship `json:"sent"`
}
