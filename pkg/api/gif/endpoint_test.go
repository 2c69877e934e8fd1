package gif

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/config"
	"github.com/th3void/lotus-routine/pkg/api"
)

func Test_GiphyEndpoint_Search(t *testing.T) {
	endpoint := NewGiphyEndpoint(config.GifProviderConfigs{APIKey: "key"})
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context) (*api.Response, error) {
				return &api.Response{
					Code: http.StatusOK,
					Body: api.JSON{
						"data": []any{
							map[string]any{
								"id":    "abc123",
								"title": "happy cat",
								"images": map[string]any{
									"fixed_height_small": map[string]any{
										"url": "https://example.com/abc123/small.gif",
									},
									"original": map[string]any{
										"url": "https://example.com/abc123/full.gif",
									},
								},
							},
						},
					},
				}, nil
			},
		},
	}

	gifs, err := endpoint.Search(context.Background(), "cat", 10)
	require.NoError(t, err)
	require.Len(t, gifs, 1)
	require.Equal(t, Gif{
		ID:         "abc123",
		Title:      "happy cat",
		PreviewURL: "https://example.com/abc123/small.gif",
		FullURL:    "https://example.com/abc123/full.gif",
	}, gifs[0])
}

func Test_TenorEndpoint_Search(t *testing.T) {
	endpoint := NewTenorEndpoint(config.GifProviderConfigs{APIKey: "key"})
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context) (*api.Response, error) {
				return &api.Response{
					Code: http.StatusOK,
					Body: api.JSON{
						"results": []any{
							map[string]any{
								"id":                  "t-9",
								"title":               "",
								"content_description": "excited dog",
								"media_formats": map[string]any{
									"tinygif": map[string]any{
										"url": "https://example.com/t-9/tiny.gif",
									},
									"gif": map[string]any{
										"url": "https://example.com/t-9/full.gif",
									},
								},
							},
						},
					},
				}, nil
			},
		},
	}

	gifs, err := endpoint.Search(context.Background(), "dog", 10)
	require.NoError(t, err)
	require.Len(t, gifs, 1)
	require.Equal(t, "excited dog", gifs[0].Title)
	require.Equal(t, "https://example.com/t-9/tiny.gif", gifs[0].PreviewURL)
}

func Test_GiphyEndpoint_Search_BadStatus(t *testing.T) {
	endpoint := NewGiphyEndpoint(config.GifProviderConfigs{APIKey: "key"})
	endpoint.apiGenerator = &api.MockAPIGenerator{
		MockClient: api.MockAPIClient{
			GETFunc: func(ctx context.Context) (*api.Response, error) {
				return &api.Response{Code: http.StatusTooManyRequests, Body: api.JSON{}}, nil
			},
		},
	}

	_, err := endpoint.Search(context.Background(), "cat", 10)
	require.Error(t, err)
}

func Test_New_UnknownProvider(t *testing.T) {
	_, err := New(config.GifProviderConfigs{Name: "imgur"})
	require.Error(t, err)

	endpoint, err := New(config.GifProviderConfigs{Name: "giphy"})
	require.NoError(t, err)
	require.Equal(t, "giphy", endpoint.Service())
}
