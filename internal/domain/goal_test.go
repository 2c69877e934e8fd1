package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func Test_goalDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewGoalDomain(repository.NewGoalRepository())

	resp, err := domain.Create(ctx, &model.CreateGoalRequest{
		Title:       "Ship the app",
		Description: "Before the end of the year",
		TargetDate:  dateutil.Date(dateutil.Today().AddDate(0, 3, 0)),
	})
	require.NoError(t, err)
	require.Equal(t, "Ship the app", resp.Goal.Title)
	require.False(t, resp.Goal.IsCompleted)

	_, err = domain.Create(ctx, &model.CreateGoalRequest{})
	require.Error(t, err)
	require.Equal(t, "Not allow an empty title", err.Error())

	_, err = domain.Create(ctx, &model.CreateGoalRequest{Title: "Bad", TargetDate: "someday"})
	require.Error(t, err)
}

func Test_goalDomain_Complete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewGoalDomain(repository.NewGoalRepository())

	resp, err := domain.Create(ctx, &model.CreateGoalRequest{Title: "Run a marathon"})
	require.NoError(t, err)

	otherCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Complete(otherCtx, &model.CompleteGoalRequest{ID: resp.Goal.ID})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	_, err = domain.Complete(ctx, &model.CompleteGoalRequest{ID: resp.Goal.ID})
	require.NoError(t, err)

	goal, err := repository.NewGoalRepository().GetByID(ctx, resp.Goal.ID)
	require.NoError(t, err)
	require.True(t, goal.IsCompleted)
	require.True(t, goal.CompletedAt.Valid)

	// Completing twice is a no-op.
	_, err = domain.Complete(ctx, &model.CompleteGoalRequest{ID: resp.Goal.ID})
	require.NoError(t, err)
}

func Test_goalDomain_UpdateAndDelete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewGoalDomain(repository.NewGoalRepository())

	resp, err := domain.Create(ctx, &model.CreateGoalRequest{Title: "Learn piano"})
	require.NoError(t, err)

	updated, err := domain.Update(ctx, &model.UpdateGoalRequest{
		ID:          resp.Goal.ID,
		Description: "Thirty minutes a day",
	})
	require.NoError(t, err)
	require.Equal(t, "Learn piano", updated.Goal.Title)
	require.Equal(t, "Thirty minutes a day", updated.Goal.Description)

	_, err = domain.Delete(ctx, &model.DeleteGoalRequest{ID: resp.Goal.ID})
	require.NoError(t, err)

	goals, err := domain.GetList(ctx, &model.GetGoalsRequest{})
	require.NoError(t, err)
	require.Empty(t, goals.Goals)

	_, err = domain.Delete(ctx, &model.DeleteGoalRequest{ID: resp.Goal.ID})
	require.Error(t, err)
	require.Equal(t, "Not found goal", err.Error())
}
