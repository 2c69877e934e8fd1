package migration

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.OAuth2{},
		&entity.RefreshToken{},
		&entity.PasswordReset{},
		&entity.Project{},
		&entity.DailyLog{},
		&entity.Task{},
		&entity.Habit{},
		&entity.HabitCompletion{},
		&entity.Goal{},
		&entity.Streak{},
		&entity.Friendship{},
		&entity.Group{},
		&entity.GroupMember{},
		&entity.ChatChannel{},
		&entity.Challenge{},
		&entity.ChallengeParticipant{},
		&entity.Badge{},
		&entity.BadgeDetail{},
		&entity.Notification{},
		&entity.File{},
	)
}
