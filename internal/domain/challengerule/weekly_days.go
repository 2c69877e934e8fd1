package challengerule

import (
	"context"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

// weeklyDaysRule requires logging on at least DaysPerWeek distinct days in
// every week of the challenge window. Progress is the share of elapsed weeks
// that met the quota.
type weeklyDaysRule struct {
	DaysPerWeek int `mapstructure:"days_per_week" structs:"days_per_week"`

	factory Factory
}

func newWeeklyDaysRule(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*weeklyDaysRule, error) {
	rule := weeklyDaysRule{factory: factory}
	if err := mapstructure.Decode(data, &rule); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if rule.DaysPerWeek < 1 || rule.DaysPerWeek > 7 {
			return nil, errorx.New(errorx.BadRequest, "Days per week must be between 1 and 7")
		}
	}

	return &rule, nil
}

func (r *weeklyDaysRule) Evaluate(
	ctx context.Context, userID string, challenge *entity.Challenge,
) (int, error) {
	end := windowEnd(challenge, time.Now())

	totalWeeks, metWeeks := 0, 0
	for start := challenge.StartDate; start.Before(end); start = start.AddDate(0, 0, 7) {
		weekEnd := start.AddDate(0, 0, 7)
		if weekEnd.After(challenge.EndDate) {
			weekEnd = challenge.EndDate
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

		totalWeeks++
		if days >= int64(r.DaysPerWeek) {
			metWeeks++
		}
	}

	if totalWeeks == 0 {
		return 0, nil
	}

	// An unmet elapsed week can no longer complete, but partial credit keeps
	// the progress bar honest.
	return clampPercent(metWeeks * 100 / totalWeeks), nil
}
