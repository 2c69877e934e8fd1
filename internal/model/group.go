package model

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type UpdateGroupRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

type UpdateGroupResponse struct {
	Group Group `json:"group"`
}

type DeleteGroupRequest struct {
	ID string `json:"id"`
}

type DeleteGroupResponse struct{}

type JoinGroupByCodeRequest struct {
	InviteCode string `json:"invite_code"`
}

type JoinGroupByCodeResponse struct {
	Group Group `json:"group"`
}

type JoinGroupRequest struct {
	ID string `json:"id"`
}

type JoinGroupResponse struct{}

type LeaveGroupRequest struct {
	ID string `json:"id"`
}

type LeaveGroupResponse struct{}

type TransferGroupOwnershipRequest struct {
	GroupID string `json:"group_id"`
	// UserID is the member who becomes the new owner.
	UserID string `json:"user_id"`
}

type TransferGroupOwnershipResponse struct{}

type KickMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type KickMemberResponse struct{}

type ChangeMemberRoleRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
}

type ChangeMemberRoleResponse struct{}

type GetGroupsRequest struct {
	// Mine limits the list to groups the requester belongs to; otherwise
	// public groups are returned, ordered by trending score.
	Mine   bool `json:"mine"`
	Offset int  `json:"offset"`
	Limit  int  `json:"limit"`
}

type GetGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type GetGroupRequest struct {
	ID string `json:"id"`
}

type GetGroupResponse Group

type GetGroupMembersRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupMembersResponse struct {
	Members []GroupMember `json:"members"`
}

type SearchGroupsRequest struct {
	Q      string `json:"q"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type SearchGroupsResponse struct {
	Groups []Group `json:"groups"`
}
