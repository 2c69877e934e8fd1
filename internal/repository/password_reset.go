package repository

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, data *entity.PasswordReset) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*entity.PasswordReset, error)
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
}

type passwordResetRepository struct{}

func NewPasswordResetRepository() *passwordResetRepository {
	return &passwordResetRepository{}
}

func (r *passwordResetRepository) Create(ctx context.Context, data *entity.PasswordReset) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *passwordResetRepository) GetByTokenHash(
	ctx context.Context, tokenHash string,
) (*entity.PasswordReset, error) {
	var result entity.PasswordReset
	if err := xcontext.DB(ctx).Take(&result, "token_hash=?", tokenHash).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *passwordResetRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.PasswordReset{}, "user_id=?", userID).Error
}

func (r *passwordResetRepository) DeleteExpired(ctx context.Context) error {
	return xcontext.DB(ctx).Delete(&entity.PasswordReset{}, "expiration < ?", time.Now()).Error
}
