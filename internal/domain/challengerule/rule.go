// Package challengerule parses and evaluates the typed rules of challenges.
// A rule is stored on the challenge row as a plain map; each challenge type
// knows how to read its own rule back and score a participant against it.
package challengerule

import (
	"context"
	"time"

	"github.com/fatih/structs"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

// Rule scores one participant. Progress is a percentage clamped to [0, 100];
// the participant completes at 100.
type Rule interface {
	Evaluate(ctx context.Context, userID string, challenge *entity.Challenge) (int, error)
}

type Factory struct {
	dailyLogRepo repository.DailyLogRepository
	streakRepo   repository.StreakRepository
}

func NewFactory(
	dailyLogRepo repository.DailyLogRepository,
	streakRepo repository.StreakRepository,
) Factory {
	return Factory{dailyLogRepo: dailyLogRepo, streakRepo: streakRepo}
}

// NewRule parses a client-provided rule map. The rule is validated here,
// once, at challenge creation.
func (f Factory) NewRule(
	ctx context.Context, challengeType entity.ChallengeType, data map[string]any,
) (Rule, error) {
	switch challengeType {
	case entity.ChallengeDailyStreak:
		return newDailyStreakRule(ctx, f, data, true)
	case entity.ChallengeWeeklyDays:
		return newWeeklyDaysRule(ctx, f, data, true)
	case entity.ChallengePerfectWeek:
		return newPerfectWeekRule(ctx, f, data)
	}

	return nil, errorx.New(errorx.BadRequest, "Invalid challenge type %s", challengeType)
}

// LoadRule reads a stored rule back. Stored rules were validated at creation
// and are trusted.
func (f Factory) LoadRule(ctx context.Context, challenge *entity.Challenge) (Rule, error) {
	switch challenge.Type {
	case entity.ChallengeDailyStreak:
		return newDailyStreakRule(ctx, f, challenge.Rule, false)
	case entity.ChallengeWeeklyDays:
		return newWeeklyDaysRule(ctx, f, challenge.Rule, false)
	case entity.ChallengePerfectWeek:
		return newPerfectWeekRule(ctx, f, challenge.Rule)
	}

	xcontext.Logger(ctx).Errorf("Invalid challenge type %s in storage", challenge.Type)
	return nil, errorx.Unknown
}

// ToMap flattens a rule struct for storage.
func ToMap(rule Rule) map[string]any {
	return structs.Map(rule)
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}

	if v > 100 {
		return 100
	}

	return v
}

func windowEnd(challenge *entity.Challenge, now time.Time) time.Time {
	if now.Before(challenge.EndDate) {
		return now
	}

	return challenge.EndDate
}
