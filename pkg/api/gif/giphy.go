package gif

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/th3void/lotus-routine/config"
	"github.com/th3void/lotus-routine/pkg/api"
)

type GiphyEndpoint struct {
	apiKey string

	apiGenerator api.Generator
}

func NewGiphyEndpoint(cfg config.GifProviderConfigs) *GiphyEndpoint {
	return &GiphyEndpoint{
		apiKey:       cfg.APIKey,
		apiGenerator: api.NewGenerator(cfg.Domains...),
	}
}

func (e *GiphyEndpoint) Service() string {
	return "giphy"
}

func (e *GiphyEndpoint) Search(ctx context.Context, query string, limit int) ([]Gif, error) {
	resp, err := e.apiGenerator.New("/v1/gifs/search").
		Query(api.Parameter{
			"api_key": e.apiKey,
			"q":       query,
			"limit":   strconv.Itoa(limit),
		}).
		GET(ctx)
	if err != nil {
		return nil, err
	}

	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("got status code %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return nil, errors.New("invalid body type")
	}

	data, err := body.GetArray("data")
	if err != nil {
		return nil, err
	}

	var gifs []Gif
	for _, item := range data {
		id, err := item.GetString("id")
		if err != nil {
			return nil, err
		}

		// Title is best-effort, some entries carry none.
		title, _ := item.GetString("title")

		preview, err := item.GetString("images.fixed_height_small.url")
		if err != nil {
			return nil, err
		}

		full, err := item.GetString("images.original.url")
		if err != nil {
			return nil, err
		}

		gifs = append(gifs, Gif{
			ID:         id,
			Title:      title,
			PreviewURL: preview,
			FullURL:    full,
		})
	}

	return gifs, nil
}
