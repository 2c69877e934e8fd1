package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/domain/challengerule"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

func newTestChallengeDomain() *challengeDomain {
	return NewChallengeDomain(
		repository.NewChallengeRepository(),
		repository.NewChallengeParticipantRepository(),
		repository.NewUserRepository(),
		repository.NewNotificationRepository(),
		&testutil.MockNotificationEngineCaller{},
		challengerule.NewFactory(
			repository.NewDailyLogRepository(), repository.NewStreakRepository()),
	)
}

func Test_challengeDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestChallengeDomain()

	resp, err := domain.Create(ctx, &model.CreateChallengeRequest{
		Title:     "Seven day sprint",
		Type:      "daily_streak",
		Rule:      map[string]any{"target": 7},
		StartDate: dateutil.Date(dateutil.Today()),
		EndDate:   dateutil.Date(dateutil.Today().AddDate(0, 0, 14)),
	})
	require.NoError(t, err)
	require.Equal(t, "Seven day sprint", resp.Challenge.Title)
	require.True(t, resp.Challenge.IsActive)

	// The creator takes part from the start.
	require.Equal(t, int64(1), resp.Challenge.ParticipantCount)
	_, err = repository.NewChallengeParticipantRepository().
		Get(ctx, resp.Challenge.ID, testutil.User1.ID)
	require.NoError(t, err)

	_, err = domain.Create(ctx, &model.CreateChallengeRequest{
		Title:     "Backwards",
		Type:      "daily_streak",
		Rule:      map[string]any{"target": 7},
		StartDate: dateutil.Date(dateutil.Today()),
		EndDate:   dateutil.Date(dateutil.Yesterday()),
	})
	require.Error(t, err)
	require.Equal(t, "End date must be after start date", err.Error())

	_, err = domain.Create(ctx, &model.CreateChallengeRequest{
		Title:     "Mystery",
		Type:      "pushups",
		StartDate: dateutil.Date(dateutil.Today()),
		EndDate:   dateutil.Date(dateutil.Today().AddDate(0, 0, 7)),
	})
	require.Error(t, err)

	_, err = domain.Create(ctx, &model.CreateChallengeRequest{
		Title:     "No target",
		Type:      "daily_streak",
		Rule:      map[string]any{"target": 0},
		StartDate: dateutil.Date(dateutil.Today()),
		EndDate:   dateutil.Date(dateutil.Today().AddDate(0, 0, 7)),
	})
	require.Error(t, err)
}

func Test_challengeDomain_JoinAndLeave(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestChallengeDomain()

	resp, err := domain.Create(ctx, &model.CreateChallengeRequest{
		Title:     "Log every day",
		Type:      "daily_streak",
		Rule:      map[string]any{"target": 30},
		StartDate: dateutil.Date(dateutil.Today()),
		EndDate:   dateutil.Date(dateutil.Today().AddDate(0, 0, 30)),
	})
	require.NoError(t, err)

	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Join(ctx2, &model.JoinChallengeRequest{ID: resp.Challenge.ID})
	require.NoError(t, err)

	_, err = domain.Join(ctx2, &model.JoinChallengeRequest{ID: resp.Challenge.ID})
	require.Error(t, err)
	require.Equal(t, "Already joined this challenge", err.Error())

	participants, err := domain.GetParticipants(ctx,
		&model.GetChallengeParticipantsRequest{ID: resp.Challenge.ID})
	require.NoError(t, err)
	require.Len(t, participants.Participants, 2)

	// The creator is bound to their own challenge.
	_, err = domain.Leave(ctx, &model.LeaveChallengeRequest{ID: resp.Challenge.ID})
	require.Error(t, err)
	require.Equal(t, "Creator cannot leave their own challenge", err.Error())

	_, err = domain.Leave(ctx2, &model.LeaveChallengeRequest{ID: resp.Challenge.ID})
	require.NoError(t, err)

	_, err = domain.Leave(ctx2, &model.LeaveChallengeRequest{ID: resp.Challenge.ID})
	require.Error(t, err)
	require.Equal(t, "Not joined this challenge", err.Error())
}

func Test_challengeDomain_TouchProgress(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	challengeDomain := newTestChallengeDomain()

	resp, err := challengeDomain.Create(ctx, &model.CreateChallengeRequest{
		Title:     "Two in a row",
		Type:      "daily_streak",
		Rule:      map[string]any{"target": 2},
		StartDate: dateutil.Date(dateutil.Today().AddDate(0, 0, -7)),
		EndDate:   dateutil.Date(dateutil.Today().AddDate(0, 0, 7)),
	})
	require.NoError(t, err)

	// The daily log write drives the challenge progress.
	dailyLogDomain := newTestDailyLogDomain()
	_, err = dailyLogDomain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Yesterday()), Hours: 1})
	require.NoError(t, err)

	participant, err := repository.NewChallengeParticipantRepository().
		Get(ctx, resp.Challenge.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 50, participant.Progress)
	require.False(t, participant.IsCompleted)

	_, err = dailyLogDomain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Today()), Hours: 1})
	require.NoError(t, err)

	participant, err = repository.NewChallengeParticipantRepository().
		Get(ctx, resp.Challenge.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 100, participant.Progress)
	require.True(t, participant.IsCompleted)

	// Completion is announced once.
	var notification entity.Notification
	tx := xcontext.DB(ctx).Take(&notification,
		"user_id = ? AND type = ?", testutil.User1.ID, entity.NotificationChallenge)
	require.NoError(t, tx.Error)
	require.Equal(t, "Challenge completed", notification.Title)
}

func Test_challengeDomain_Join_lateJoinerGetsCredit(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	challengeDomain := newTestChallengeDomain()

	resp, err := challengeDomain.Create(ctx, &model.CreateChallengeRequest{
		Title:     "Started without you",
		Type:      "daily_streak",
		Rule:      map[string]any{"target": 1},
		StartDate: dateutil.Date(dateutil.Today().AddDate(0, 0, -7)),
		EndDate:   dateutil.Date(dateutil.Today().AddDate(0, 0, 7)),
	})
	require.NoError(t, err)

	// User2 logs first, then joins: the streak already counts.
	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = newTestDailyLogDomain().Upsert(ctx2, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Today()), Hours: 1})
	require.NoError(t, err)

	_, err = challengeDomain.Join(ctx2, &model.JoinChallengeRequest{ID: resp.Challenge.ID})
	require.NoError(t, err)

	participant, err := repository.NewChallengeParticipantRepository().
		Get(ctx, resp.Challenge.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, 100, participant.Progress)
	require.True(t, participant.IsCompleted)
}
