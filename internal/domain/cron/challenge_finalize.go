package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

// ChallengeFinalizeCronJob closes challenges whose window has ended and
// tells every participant how they finished.
type ChallengeFinalizeCronJob struct {
	challengeRepo    repository.ChallengeRepository
	participantRepo  repository.ChallengeParticipantRepository
	notificationRepo repository.NotificationRepository
	engineCaller     client.NotificationEngineCaller
}

func NewChallengeFinalizeCronJob(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ChallengeParticipantRepository,
	notificationRepo repository.NotificationRepository,
	engineCaller client.NotificationEngineCaller,
) *ChallengeFinalizeCronJob {
	return &ChallengeFinalizeCronJob{
		challengeRepo:    challengeRepo,
		participantRepo:  participantRepo,
		notificationRepo: notificationRepo,
		engineCaller:     engineCaller,
	}
}

func (job *ChallengeFinalizeCronJob) Do(ctx context.Context) {
	ended, err := job.challengeRepo.GetEnded(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ended challenges: %v", err)
		return
	}

	for i := range ended {
		if err := job.finalize(ctx, &ended[i]); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot finalize challenge %s: %v", ended[i].ID, err)
		}
	}
}

func (job *ChallengeFinalizeCronJob) finalize(
	ctx context.Context, challenge *entity.Challenge,
) error {
	participants, err := job.participantRepo.GetByChallengeID(ctx, challenge.ID)
	if err != nil {
		return err
	}

	if err := job.challengeRepo.SetActive(ctx, challenge.ID, false); err != nil {
		return err
	}

	for _, p := range participants {
		message := fmt.Sprintf(
			"The challenge %s has ended. You reached %d%%.", challenge.Title, p.Progress)
		if p.IsCompleted {
			message = fmt.Sprintf("The challenge %s has ended. You completed it!", challenge.Title)
		}

		notification := &entity.Notification{
			Base:    entity.Base{ID: uuid.NewString()},
			UserID:  p.UserID,
			Type:    entity.NotificationChallenge,
			Title:   "Challenge ended",
			Message: message,
			Metadata: entity.Map{
				"challenge_id": challenge.ID,
			},
		}

		if err := job.notificationRepo.Create(ctx, notification); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot create notification: %v", err)
			continue
		}

		ev := event.New(
			&event.NotificationCreatedEvent{Notification: model.ConvertNotification(notification)},
			event.Metadata{ToUser: p.UserID},
		)
		if err := job.engineCaller.Emit(ctx, ev); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot emit notification event: %v", err)
		}
	}

	return nil
}

func (job *ChallengeFinalizeCronJob) RunNow() bool {
	return true
}

func (job *ChallengeFinalizeCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
