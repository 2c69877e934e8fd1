package badge

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
)

type BadgeScanner interface {
	// Name returns the name of badge.
	Name() string

	// Scan detects which levels of this badge the user currently deserves.
	Scan(ctx context.Context, userID string) ([]entity.Badge, error)
}
