package migration

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

func migrate0001(ctx context.Context) error {
	return xcontext.DB(ctx).Migrator().AddColumn(&entity.User{}, "avatar_color")
}
