package domain

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/pkg/api/gif"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
)

type GifDomain interface {
	Search(context.Context, *model.SearchGifsRequest) (*model.SearchGifsResponse, error)
}

type gifDomain struct {
	primary     gif.IEndpoint
	fallback    gif.IEndpoint
	redisClient xredis.Client
}

func NewGifDomain(primary, fallback gif.IEndpoint, redisClient xredis.Client) *gifDomain {
	return &gifDomain{primary: primary, fallback: fallback, redisClient: redisClient}
}

func (d *gifDomain) Search(
	ctx context.Context, req *model.SearchGifsRequest,
) (*model.SearchGifsResponse, error) {
	if req.Q == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty query")
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit < 0 || req.Limit > 50 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be in range 0-50")
	}

	cacheKey := common.RedisKeyGifSearch(req.Q, req.Limit)
	var cached []model.Gif
	err := d.redisClient.GetObj(ctx, cacheKey, &cached)
	if err == nil {
		return &model.SearchGifsResponse{Gifs: cached}, nil
	}

	if !errors.Is(err, redis.Nil) {
		xcontext.Logger(ctx).Warnf("Cannot read gif cache: %v", err)
	}

	results, err := d.search(ctx, req.Q, req.Limit)
	if err != nil {
		return nil, err
	}

	gifs := []model.Gif{}
	for _, g := range results {
		gifs = append(gifs, model.Gif{
			ID:         g.ID,
			Title:      g.Title,
			PreviewURL: g.PreviewURL,
			FullURL:    g.FullURL,
		})
	}

	ttl := xcontext.Configs(ctx).Gif.CacheTTL
	if err := d.redisClient.SetObj(ctx, cacheKey, gifs, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache gif results: %v", err)
	}

	return &model.SearchGifsResponse{Gifs: gifs}, nil
}

// search tries the primary provider first and falls back on any failure.
// Provider outages degrade to the fallback catalog instead of an error.
func (d *gifDomain) search(ctx context.Context, query string, limit int) ([]gif.Gif, error) {
	results, err := d.primary.Search(ctx, query, limit)
	if err == nil {
		return results, nil
	}

	xcontext.Logger(ctx).Warnf(
		"Gif provider %s failed, trying %s: %v", d.primary.Service(), d.fallback.Service(), err)

	results, err = d.fallback.Search(ctx, query, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Gif provider %s failed: %v", d.fallback.Service(), err)
		return nil, errorx.New(errorx.Unavailable, "Gif search is temporarily unavailable")
	}

	return results, nil
}
