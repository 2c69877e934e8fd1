package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func newTestUserDomain(
	redisClient *testutil.MockRedisClient, searchCaller *testutil.MockSearchCaller,
) *userDomain {
	if redisClient == nil {
		redisClient = &testutil.MockRedisClient{}
	}

	if searchCaller == nil {
		searchCaller = &testutil.MockSearchCaller{}
	}

	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewFileRepository(),
		redisClient,
		&testutil.MockStorage{},
		searchCaller,
	)
}

func Test_userDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return key == common.RedisKeyUserStatus(testutil.User1.ID), nil
		},
	}

	domain := newTestUserDomain(redisClient, nil)

	me, err := domain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Name, me.Name)
	require.Equal(t, testutil.User1.Email, me.Email)
	require.Equal(t, "online", me.Status)

	// Another user's profile carries no email and reflects their presence.
	other, err := domain.GetUser(ctx, &model.GetUserRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.Name, other.Name)
	require.Empty(t, other.Email)
	require.Equal(t, "offline", other.Status)

	_, err = domain.GetUser(ctx, &model.GetUserRequest{UserID: "nobody"})
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())
}

func Test_userDomain_Update(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	domain := newTestUserDomain(nil, nil)

	resp, err := domain.Update(ctx, &model.UpdateUserRequest{
		Username:    "alice_cooper",
		Bio:         "night owl",
		AvatarColor: "#216e39",
	})
	require.NoError(t, err)
	require.Equal(t, "alice_cooper", resp.User.Name)
	require.Equal(t, "night owl", resp.User.Bio)
	require.False(t, resp.User.IsNewUser)

	_, err = domain.Update(ctx, &model.UpdateUserRequest{Username: "Bad Name!"})
	require.Error(t, err)

	// Usernames are unique across users.
	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Update(ctx2, &model.UpdateUserRequest{Username: "alice_cooper"})
	require.Error(t, err)
}

func Test_userDomain_Search(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	searchCaller := &testutil.MockSearchCaller{
		SearchUserFunc: func(ctx context.Context, query string, offset, limit int) ([]string, error) {
			return []string{testutil.User2.ID, testutil.User3.ID, "ghost"}, nil
		},
	}

	domain := newTestUserDomain(nil, searchCaller)

	resp, err := domain.Search(ctx, &model.SearchUsersRequest{Q: "bo"})
	require.NoError(t, err)

	// The index order is kept, unknown ids are dropped.
	require.Len(t, resp.Users, 2)
	require.Equal(t, testutil.User2.Name, resp.Users[0].Name)
	require.Equal(t, testutil.User3.Name, resp.Users[1].Name)

	_, err = domain.Search(ctx, &model.SearchUsersRequest{})
	require.Error(t, err)
}
