package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/domain/search"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/sanitize"
	"github.com/th3void/lotus-routine/pkg/storage"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	Update(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	UploadAvatar(context.Context, *model.UploadAvatarRequest) (*model.UploadAvatarResponse, error)
	Search(context.Context, *model.SearchUsersRequest) (*model.SearchUsersResponse, error)
}

type userDomain struct {
	userRepo     repository.UserRepository
	fileRepo     repository.FileRepository
	redisClient  xredis.Client
	storage      storage.Storage
	searchCaller client.SearchCaller
}

func NewUserDomain(
	userRepo repository.UserRepository,
	fileRepo repository.FileRepository,
	redisClient xredis.Client,
	storage storage.Storage,
	searchCaller client.SearchCaller,
) *userDomain {
	return &userDomain{
		userRepo:     userRepo,
		fileRepo:     fileRepo,
		redisClient:  redisClient,
		storage:      storage,
		searchCaller: searchCaller,
	}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMeResponse(model.ConvertUser(user, true, d.userStatus(ctx, user.ID)))
	return &resp, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetUserResponse(model.ConvertUser(user, false, d.userStatus(ctx, user.ID)))
	return &resp, nil
}

func (d *userDomain) Update(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	updated := entity.User{
		Bio:         sanitize.Strict(req.Bio),
		AvatarColor: req.AvatarColor,
		IsNewUser:   false,
	}

	if req.Username != "" {
		if !usernameRegex.MatchString(req.Username) {
			return nil, errorx.New(errorx.BadRequest,
				"Username must be 4-32 lowercase letters, digits, or underscores")
		}

		updated.Name = req.Username
	}

	if err := d.userRepo.UpdateByID(ctx, userID, &updated); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update user: %v", err)
		return nil, errorx.Friendly(err)
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user after update: %v", err)
		return nil, errorx.Unknown
	}

	err = d.searchCaller.IndexUser(ctx, user.ID, search.UserData{Name: user.Name, Bio: user.Bio})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot index user %s: %v", user.ID, err)
	}

	return &model.UpdateUserResponse{
		User: model.ConvertUser(user, true, d.userStatus(ctx, user.ID)),
	}, nil
}

func (d *userDomain) UploadAvatar(
	ctx context.Context, req *model.UploadAvatarRequest,
) (*model.UploadAvatarResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	uploaded, err := common.ProcessAvatar(ctx, d.storage, "image")
	if err != nil {
		return nil, err
	}

	if len(uploaded) == 0 {
		xcontext.Logger(ctx).Errorf("No avatar image was uploaded")
		return nil, errorx.Unknown
	}

	for _, resp := range uploaded {
		err := d.fileRepo.Create(ctx, &entity.File{
			Base:      entity.Base{ID: uuid.NewString()},
			Name:      resp.FileName,
			Mime:      xcontext.HTTPRequest(ctx).Header.Get("Content-Type"),
			CreatedBy: userID,
			Url:       resp.Url,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record uploaded file: %v", err)
			return nil, errorx.Unknown
		}
	}

	avatarURL := uploaded[0].Url
	err = d.userRepo.UpdateByID(ctx, userID, &entity.User{AvatarURL: avatarURL})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update avatar url: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadAvatarResponse{AvatarURL: avatarURL}, nil
}

func (d *userDomain) Search(
	ctx context.Context, req *model.SearchUsersRequest,
) (*model.SearchUsersResponse, error) {
	if req.Q == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty query")
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit > 50 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (50)")
	}

	ids, err := d.searchCaller.SearchUser(ctx, req.Q, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search users: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users by ids: %v", err)
		return nil, errorx.Unknown
	}

	// Keep the order the index returned.
	byID := map[string]*entity.User{}
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	result := []model.ShortUser{}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			result = append(result, model.ConvertShortUser(u))
		}
	}

	return &model.SearchUsersResponse{Users: result}, nil
}

func (d *userDomain) userStatus(ctx context.Context, userID string) string {
	exist, err := d.redisClient.Exist(ctx, common.RedisKeyUserStatus(userID))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot check user online status: %v", err)
		return ""
	}

	if exist {
		return "online"
	}

	return "offline"
}
