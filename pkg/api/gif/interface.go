package gif

import (
	"context"
	"fmt"

	"github.com/th3void/lotus-routine/config"
)

// Gif is the provider-independent shape every binding normalizes to.
type Gif struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PreviewURL string `json:"preview_url"`
	FullURL    string `json:"full_url"`
}

type IEndpoint interface {
	Service() string
	Search(ctx context.Context, query string, limit int) ([]Gif, error)
}

// New dispatches on the configured provider name.
func New(cfg config.GifProviderConfigs) (IEndpoint, error) {
	switch cfg.Name {
	case "giphy":
		return NewGiphyEndpoint(cfg), nil
	case "tenor":
		return NewTenorEndpoint(cfg), nil
	}

	return nil, fmt.Errorf("not support gif provider %s", cfg.Name)
}
