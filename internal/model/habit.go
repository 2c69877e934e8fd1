package model

type CreateHabitRequest struct {
	Name          string `json:"name"`
	Color         string `json:"color"`
	TargetPerWeek int    `json:"target_per_week"`
}

type CreateHabitResponse struct {
	Habit Habit `json:"habit"`
}

type UpdateHabitRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	TargetPerWeek int    `json:"target_per_week"`
}

type UpdateHabitResponse struct {
	Habit Habit `json:"habit"`
}

type ArchiveHabitRequest struct {
	ID string `json:"id"`
}

type ArchiveHabitResponse struct{}

type GetHabitsRequest struct {
	IncludeArchived bool `json:"include_archived"`
}

type GetHabitsResponse struct {
	Habits []Habit `json:"habits"`
}

type ToggleHabitCompletionRequest struct {
	HabitID string `json:"habit_id"`
	Date    string `json:"date"`
}

type ToggleHabitCompletionResponse struct {
	IsCompleted bool `json:"is_completed"`
}

type GetHabitCompletionsRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type GetHabitCompletionsResponse struct {
	Completions []HabitCompletion `json:"completions"`
}
