package testutil

import (
	"context"

	"github.com/th3void/lotus-routine/internal/domain/search"
)

type MockSearchCaller struct {
	IndexUserFunc   func(ctx context.Context, id string, data search.UserData) error
	IndexGroupFunc  func(ctx context.Context, id string, data search.GroupData) error
	DeleteUserFunc  func(ctx context.Context, id string) error
	DeleteGroupFunc func(ctx context.Context, id string) error
	SearchUserFunc  func(ctx context.Context, query string, offset, limit int) ([]string, error)
	SearchGroupFunc func(ctx context.Context, query string, offset, limit int) ([]string, error)
}

func (c *MockSearchCaller) IndexUser(ctx context.Context, id string, data search.UserData) error {
	if c.IndexUserFunc != nil {
		return c.IndexUserFunc(ctx, id, data)
	}

	return nil
}

func (c *MockSearchCaller) IndexGroup(ctx context.Context, id string, data search.GroupData) error {
	if c.IndexGroupFunc != nil {
		return c.IndexGroupFunc(ctx, id, data)
	}

	return nil
}

func (c *MockSearchCaller) DeleteUser(ctx context.Context, id string) error {
	if c.DeleteUserFunc != nil {
		return c.DeleteUserFunc(ctx, id)
	}

	return nil
}

func (c *MockSearchCaller) DeleteGroup(ctx context.Context, id string) error {
	if c.DeleteGroupFunc != nil {
		return c.DeleteGroupFunc(ctx, id)
	}

	return nil
}

func (c *MockSearchCaller) SearchUser(ctx context.Context, query string, offset, limit int) ([]string, error) {
	if c.SearchUserFunc != nil {
		return c.SearchUserFunc(ctx, query, offset, limit)
	}

	return nil, nil
}

func (c *MockSearchCaller) SearchGroup(ctx context.Context, query string, offset, limit int) ([]string, error) {
	if c.SearchGroupFunc != nil {
		return c.SearchGroupFunc(ctx, query, offset, limit)
	}

	return nil, nil
}

func (c *MockSearchCaller) Close() {}
