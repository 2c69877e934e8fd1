package model

type GetAllBadgesRequest struct{}

type GetAllBadgesResponse struct {
	Badges []Badge `json:"badges"`
}

type GetMyBadgesRequest struct{}

type GetMyBadgesResponse struct {
	Badges []Badge `json:"badges"`
}

type FollowBadgesRequest struct{}

type FollowBadgesResponse struct{}
