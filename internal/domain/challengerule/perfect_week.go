package challengerule

import (
	"context"
	"time"

	"github.com/pkg/math"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

// perfectWeekRule completes when the participant logs on all seven days of
// any single week of the challenge window. Progress is the best week so far.
type perfectWeekRule struct {
	factory Factory
}

func newPerfectWeekRule(
	ctx context.Context, factory Factory, data map[string]any,
) (*perfectWeekRule, error) {
	// No parameters to parse. The rule map is kept empty.
	return &perfectWeekRule{factory: factory}, nil
}

func (r *perfectWeekRule) Evaluate(
	ctx context.Context, userID string, challenge *entity.Challenge,
) (int, error) {
	end := windowEnd(challenge, time.Now())

	best := int64(0)
	for start := challenge.StartDate; start.Before(end); start = start.AddDate(0, 0, 7) {
		weekEnd := start.AddDate(0, 0, 7)
		if weekEnd.After(challenge.EndDate) {
			break // a truncated trailing week can never be perfect
		}

		days, err := r.factory.dailyLogRepo.CountDays(ctx, repository.DailyLogFilter{
			UserID: userID,
			Start:  start,
			End:    weekEnd,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count logged days: %v", err)
			return 0, errorx.Unknown
		}

		best = math.MaxInt64(best, days)
		if best >= 7 {
			return 100, nil
		}
	}

	return clampPercent(int(best) * 100 / 7), nil
}
