package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func Test_habitDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewHabitDomain(repository.NewHabitRepository(), repository.NewStreakRepository())

	resp, err := domain.Create(ctx, &model.CreateHabitRequest{
		Name:          "Morning run",
		TargetPerWeek: 3,
	})
	require.NoError(t, err)
	require.Equal(t, "Morning run", resp.Habit.Name)
	require.Equal(t, entity.DefaultProjectColor, resp.Habit.Color)

	_, err = domain.Create(ctx, &model.CreateHabitRequest{Name: ""})
	require.Error(t, err)
	require.Equal(t, "Not allow an empty name", err.Error())

	_, err = domain.Create(ctx, &model.CreateHabitRequest{Name: "Too much", TargetPerWeek: 8})
	require.Error(t, err)

	_, err = domain.Create(ctx, &model.CreateHabitRequest{Name: "Bad color", Color: "green"})
	require.Error(t, err)
}

func Test_habitDomain_Update(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewHabitDomain(repository.NewHabitRepository(), repository.NewStreakRepository())

	resp, err := domain.Create(ctx, &model.CreateHabitRequest{Name: "Read", TargetPerWeek: 5})
	require.NoError(t, err)

	updated, err := domain.Update(ctx, &model.UpdateHabitRequest{
		ID:    resp.Habit.ID,
		Name:  "Read more",
		Color: "#40c463",
	})
	require.NoError(t, err)
	require.Equal(t, "Read more", updated.Habit.Name)
	require.Equal(t, "#40c463", updated.Habit.Color)
	require.Equal(t, 5, updated.Habit.TargetPerWeek)

	// Only the owner can touch the habit.
	otherCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Update(otherCtx, &model.UpdateHabitRequest{ID: resp.Habit.ID, Name: "mine now"})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	_, err = domain.Update(ctx, &model.UpdateHabitRequest{ID: "nothing"})
	require.Error(t, err)
	require.Equal(t, "Not found habit", err.Error())
}

func Test_habitDomain_ToggleCompletion(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewHabitDomain(repository.NewHabitRepository(), repository.NewStreakRepository())

	resp, err := domain.Create(ctx, &model.CreateHabitRequest{Name: "Meditate"})
	require.NoError(t, err)

	today := dateutil.Date(dateutil.Today())
	toggle, err := domain.ToggleCompletion(ctx, &model.ToggleHabitCompletionRequest{
		HabitID: resp.Habit.ID,
		Date:    today,
	})
	require.NoError(t, err)
	require.True(t, toggle.IsCompleted)

	streak, err := repository.NewStreakRepository().
		Get(ctx, testutil.User1.ID, entity.StreakHabit)
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentCount)

	// Toggling again removes the completion.
	toggle, err = domain.ToggleCompletion(ctx, &model.ToggleHabitCompletionRequest{
		HabitID: resp.Habit.ID,
		Date:    today,
	})
	require.NoError(t, err)
	require.False(t, toggle.IsCompleted)

	completions, err := domain.GetCompletions(ctx, &model.GetHabitCompletionsRequest{})
	require.NoError(t, err)
	require.Empty(t, completions.Completions)

	_, err = domain.ToggleCompletion(ctx, &model.ToggleHabitCompletionRequest{
		HabitID: resp.Habit.ID,
		Date:    dateutil.Date(dateutil.Today().AddDate(0, 0, 1)),
	})
	require.Error(t, err)
	require.Equal(t, "Cannot check a future date", err.Error())
}

func Test_habitDomain_Archive(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewHabitDomain(repository.NewHabitRepository(), repository.NewStreakRepository())

	resp, err := domain.Create(ctx, &model.CreateHabitRequest{Name: "Journal"})
	require.NoError(t, err)

	_, err = domain.Archive(ctx, &model.ArchiveHabitRequest{ID: resp.Habit.ID})
	require.NoError(t, err)

	// Archived habits refuse new completions and drop out of the default
	// listing.
	_, err = domain.ToggleCompletion(ctx, &model.ToggleHabitCompletionRequest{
		HabitID: resp.Habit.ID,
		Date:    dateutil.Date(dateutil.Today()),
	})
	require.Error(t, err)
	require.Equal(t, "Cannot check an archived habit", err.Error())

	habits, err := domain.GetList(ctx, &model.GetHabitsRequest{})
	require.NoError(t, err)
	require.Empty(t, habits.Habits)

	habits, err = domain.GetList(ctx, &model.GetHabitsRequest{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, habits.Habits, 1)
}
