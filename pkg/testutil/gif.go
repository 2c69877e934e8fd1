package testutil

import (
	"context"
	"errors"

	"github.com/th3void/lotus-routine/pkg/api/gif"
)

type MockGifEndpoint struct {
	ServiceName string
	SearchFunc  func(ctx context.Context, query string, limit int) ([]gif.Gif, error)
}

func (e *MockGifEndpoint) Service() string {
	return e.ServiceName
}

func (e *MockGifEndpoint) Search(ctx context.Context, query string, limit int) ([]gif.Gif, error) {
	if e.SearchFunc != nil {
		return e.SearchFunc(ctx, query, limit)
	}

	return nil, errors.New("not implemented")
}
