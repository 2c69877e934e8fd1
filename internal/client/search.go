package client

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/th3void/lotus-routine/internal/domain/search"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type SearchCaller interface {
	IndexUser(ctx context.Context, id string, data search.UserData) error
	IndexGroup(ctx context.Context, id string, data search.GroupData) error
	DeleteUser(ctx context.Context, id string) error
	DeleteGroup(ctx context.Context, id string) error
	SearchUser(ctx context.Context, query string, offset, limit int) ([]string, error)
	SearchGroup(ctx context.Context, query string, offset, limit int) ([]string, error)
	Close()
}

type searchCaller struct {
	client *rpc.Client
}

func NewSearchCaller(client *rpc.Client) *searchCaller {
	return &searchCaller{client: client}
}

func (c *searchCaller) IndexUser(ctx context.Context, id string, data search.UserData) error {
	return c.client.CallContext(ctx, nil, c.fname(ctx, "index"), search.UserDoc, id, data)
}

func (c *searchCaller) IndexGroup(ctx context.Context, id string, data search.GroupData) error {
	return c.client.CallContext(ctx, nil, c.fname(ctx, "index"), search.GroupDoc, id, data)
}

func (c *searchCaller) DeleteUser(ctx context.Context, id string) error {
	return c.client.CallContext(ctx, nil, c.fname(ctx, "delete"), search.UserDoc, id)
}

func (c *searchCaller) DeleteGroup(ctx context.Context, id string) error {
	return c.client.CallContext(ctx, nil, c.fname(ctx, "delete"), search.GroupDoc, id)
}

func (c *searchCaller) SearchUser(ctx context.Context, query string, offset, limit int) ([]string, error) {
	var result []string
	err := c.client.CallContext(ctx, &result, c.fname(ctx, "search"), search.UserDoc, query, offset, limit)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *searchCaller) SearchGroup(ctx context.Context, query string, offset, limit int) ([]string, error) {
	var result []string
	err := c.client.CallContext(ctx, &result, c.fname(ctx, "search"), search.GroupDoc, query, offset, limit)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *searchCaller) Close() {
	c.client.Close()
}

func (c *searchCaller) fname(ctx context.Context, funcName string) string {
	return fmt.Sprintf("%s_%s", xcontext.Configs(ctx).Search.RPCName, funcName)
}
