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

type TenorEndpoint struct {
	apiKey    string
	clientKey string

	apiGenerator api.Generator
}

func NewTenorEndpoint(cfg config.GifProviderConfigs) *TenorEndpoint {
	return &TenorEndpoint{
		apiKey:       cfg.APIKey,
		clientKey:    cfg.ClientKey,
		apiGenerator: api.NewGenerator(cfg.Domains...),
	}
}

func (e *TenorEndpoint) Service() string {
	return "tenor"
}

func (e *TenorEndpoint) Search(ctx context.Context, query string, limit int) ([]Gif, error) {
	params := api.Parameter{
		"key":   e.apiKey,
		"q":     query,
		"limit": strconv.Itoa(limit),
	}
	if e.clientKey != "" {
		params["client_key"] = e.clientKey
	}

	resp, err := e.apiGenerator.New("/v2/search").Query(params).GET(ctx)
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

	results, err := body.GetArray("results")
	if err != nil {
		return nil, err
	}

	var gifs []Gif
	for _, item := range results {
		id, err := item.GetString("id")
		if err != nil {
			return nil, err
		}

		title, _ := item.GetString("title")
		if title == "" {
			title, _ = item.GetString("content_description")
		}

		preview, err := item.GetString("media_formats.tinygif.url")
		if err != nil {
			return nil, err
		}

		full, err := item.GetString("media_formats.gif.url")
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
