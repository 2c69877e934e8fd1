package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func Test_taskDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewTaskDomain(repository.NewTaskRepository(), repository.NewProjectRepository())

	resp, err := domain.Create(ctx, &model.CreateTaskRequest{
		ProjectID: testutil.Project1.ID,
		Date:      dateutil.Date(dateutil.Today()),
		Title:     "Write report",
		Hours:     1.5,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Project1.ID, resp.Task.ProjectID)
	require.Equal(t, "Write report", resp.Task.Title)
	require.False(t, resp.Task.IsCompleted)

	// A task without a project is fine.
	resp, err = domain.Create(ctx, &model.CreateTaskRequest{
		Date:  dateutil.Date(dateutil.Today()),
		Title: "Inbox zero",
	})
	require.NoError(t, err)
	require.Empty(t, resp.Task.ProjectID)

	_, err = domain.Create(ctx, &model.CreateTaskRequest{
		Date: dateutil.Date(dateutil.Today()),
	})
	require.Error(t, err)
	require.Equal(t, "Not allow an empty title", err.Error())

	_, err = domain.Create(ctx, &model.CreateTaskRequest{
		ProjectID: "nothing",
		Date:      dateutil.Date(dateutil.Today()),
		Title:     "Orphan",
	})
	require.Error(t, err)
	require.Equal(t, "Not found project", err.Error())

	// Project1 belongs to user1, so user2 cannot attach tasks to it.
	otherCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Create(otherCtx, &model.CreateTaskRequest{
		ProjectID: testutil.Project1.ID,
		Date:      dateutil.Date(dateutil.Today()),
		Title:     "Stolen",
	})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())
}

func Test_taskDomain_Update(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewTaskDomain(repository.NewTaskRepository(), repository.NewProjectRepository())

	resp, err := domain.Create(ctx, &model.CreateTaskRequest{
		ProjectID: testutil.Project1.ID,
		Date:      dateutil.Date(dateutil.Today()),
		Title:     "Draft",
		Hours:     1,
	})
	require.NoError(t, err)

	updated, err := domain.Update(ctx, &model.UpdateTaskRequest{
		ID:          resp.Task.ID,
		Title:       "Final",
		Hours:       2,
		IsCompleted: true,
	})
	require.NoError(t, err)
	require.Equal(t, "Final", updated.Task.Title)
	require.Equal(t, float64(2), updated.Task.Hours)
	require.True(t, updated.Task.IsCompleted)
	// An empty project id in the update detaches the task.
	require.Empty(t, updated.Task.ProjectID)

	otherCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Update(otherCtx, &model.UpdateTaskRequest{ID: resp.Task.ID, Title: "mine"})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())
}

func Test_taskDomain_GetList(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewTaskDomain(repository.NewTaskRepository(), repository.NewProjectRepository())

	_, err := domain.Create(ctx, &model.CreateTaskRequest{
		Date: dateutil.Date(dateutil.Yesterday()), Title: "old"})
	require.NoError(t, err)

	_, err = domain.Create(ctx, &model.CreateTaskRequest{
		Date: dateutil.Date(dateutil.Today()), Title: "new"})
	require.NoError(t, err)

	tasks, err := domain.GetList(ctx, &model.GetTasksRequest{
		Date: dateutil.Date(dateutil.Today())})
	require.NoError(t, err)
	require.Len(t, tasks.Tasks, 1)
	require.Equal(t, "new", tasks.Tasks[0].Title)

	tasks, err = domain.GetList(ctx, &model.GetTasksRequest{
		Start: dateutil.Date(dateutil.Yesterday())})
	require.NoError(t, err)
	require.Len(t, tasks.Tasks, 2)

	// Other users never see these tasks.
	otherCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	tasks, err = domain.GetList(otherCtx, &model.GetTasksRequest{})
	require.NoError(t, err)
	require.Empty(t, tasks.Tasks)
}

func Test_taskDomain_Delete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := NewTaskDomain(repository.NewTaskRepository(), repository.NewProjectRepository())

	resp, err := domain.Create(ctx, &model.CreateTaskRequest{
		Date: dateutil.Date(dateutil.Today()), Title: "Temp"})
	require.NoError(t, err)

	otherCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Delete(otherCtx, &model.DeleteTaskRequest{ID: resp.Task.ID})
	require.Error(t, err)

	_, err = domain.Delete(ctx, &model.DeleteTaskRequest{ID: resp.Task.ID})
	require.NoError(t, err)

	_, err = domain.Delete(ctx, &model.DeleteTaskRequest{ID: resp.Task.ID})
	require.Error(t, err)
	require.Equal(t, "Not found task", err.Error())
}
