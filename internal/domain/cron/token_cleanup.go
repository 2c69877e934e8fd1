package cron

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

// TokenCleanupCronJob sweeps expired password reset tokens and refresh
// token rows. Expired rows are already rejected on use, this just keeps the
// tables from growing without bound.
type TokenCleanupCronJob struct {
	passwordResetRepo repository.PasswordResetRepository
	refreshTokenRepo  repository.RefreshTokenRepository
}

func NewTokenCleanupCronJob(
	passwordResetRepo repository.PasswordResetRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
) *TokenCleanupCronJob {
	return &TokenCleanupCronJob{
		passwordResetRepo: passwordResetRepo,
		refreshTokenRepo:  refreshTokenRepo,
	}
}

func (job *TokenCleanupCronJob) Do(ctx context.Context) {
	if err := job.passwordResetRepo.DeleteExpired(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete expired password resets: %v", err)
	}

	if err := job.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete expired refresh tokens: %v", err)
	}
}

func (job *TokenCleanupCronJob) RunNow() bool {
	return true
}

func (job *TokenCleanupCronJob) Next() time.Time {
	return time.Now().Add(time.Hour)
}
