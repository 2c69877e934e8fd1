package challengerule

import (
	"context"
	"errors"

	"github.com/mitchellh/mapstructure"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

// dailyStreakRule completes when the daily-log streak reaches the target.
// Progress is the current streak measured against it.
type dailyStreakRule struct {
	Target int `mapstructure:"target" structs:"target"`

	factory Factory
}

func newDailyStreakRule(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*dailyStreakRule, error) {
	rule := dailyStreakRule{factory: factory}
	if err := mapstructure.Decode(data, &rule); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if rule.Target <= 0 || rule.Target > 365 {
			return nil, errorx.New(errorx.BadRequest, "Target must be between 1 and 365 days")
		}
	}

	return &rule, nil
}

func (r *dailyStreakRule) Evaluate(
	ctx context.Context, userID string, challenge *entity.Challenge,
) (int, error) {
	streak, err := r.factory.streakRepo.Get(ctx, userID, entity.StreakDailyLog)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get streak: %v", err)
		return 0, errorx.Unknown
	}

	return clampPercent(streak.CurrentCount * 100 / r.Target), nil
}
