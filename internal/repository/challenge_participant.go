package repository

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type ChallengeParticipantRepository interface {
	Create(ctx context.Context, data *entity.ChallengeParticipant) error
	Get(ctx context.Context, challengeID, userID string) (*entity.ChallengeParticipant, error)
	GetByChallengeID(ctx context.Context, challengeID string) ([]entity.ChallengeParticipant, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.ChallengeParticipant, error)
	UpdateProgress(ctx context.Context, challengeID, userID string, progress int) error
	SetCompleted(ctx context.Context, challengeID, userID string, completedAt time.Time) error
	Count(ctx context.Context, challengeID string) (int64, error)
	Delete(ctx context.Context, challengeID, userID string) error
	DeleteByChallengeID(ctx context.Context, challengeID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type challengeParticipantRepository struct{}

func NewChallengeParticipantRepository() *challengeParticipantRepository {
	return &challengeParticipantRepository{}
}

func (r *challengeParticipantRepository) Create(
	ctx context.Context, data *entity.ChallengeParticipant,
) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *challengeParticipantRepository) Get(
	ctx context.Context, challengeID, userID string,
) (*entity.ChallengeParticipant, error) {
	var record entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Where("challenge_id=? AND user_id=?", challengeID, userID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *challengeParticipantRepository) GetByChallengeID(
	ctx context.Context, challengeID string,
) ([]entity.ChallengeParticipant, error) {
	var records []entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Where("challenge_id=?", challengeID).
		Order("progress DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *challengeParticipantRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.ChallengeParticipant, error) {
	var records []entity.ChallengeParticipant
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *challengeParticipantRepository) UpdateProgress(
	ctx context.Context, challengeID, userID string, progress int,
) error {
	return xcontext.DB(ctx).Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=? AND user_id=?", challengeID, userID).
		Update("progress", progress).Error
}

func (r *challengeParticipantRepository) SetCompleted(
	ctx context.Context, challengeID, userID string, completedAt time.Time,
) error {
	return xcontext.DB(ctx).Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=? AND user_id=? AND is_completed=?", challengeID, userID, false).
		Updates(map[string]any{
			"is_completed": true,
			"completed_at": completedAt,
		}).Error
}

func (r *challengeParticipantRepository) Count(
	ctx context.Context, challengeID string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=?", challengeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *challengeParticipantRepository) Delete(
	ctx context.Context, challengeID, userID string,
) error {
	return xcontext.DB(ctx).
		Delete(&entity.ChallengeParticipant{}, "challenge_id=? AND user_id=?", challengeID, userID).Error
}

func (r *challengeParticipantRepository) DeleteByChallengeID(
	ctx context.Context, challengeID string,
) error {
	return xcontext.DB(ctx).
		Delete(&entity.ChallengeParticipant{}, "challenge_id=?", challengeID).Error
}

func (r *challengeParticipantRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.ChallengeParticipant{}, "user_id=?", userID).Error
}
