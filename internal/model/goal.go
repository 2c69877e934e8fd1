package model

type CreateGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
}

type CreateGoalResponse struct {
	Goal Goal `json:"goal"`
}

type UpdateGoalRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
}

type UpdateGoalResponse struct {
	Goal Goal `json:"goal"`
}

type CompleteGoalRequest struct {
	ID string `json:"id"`
}

type CompleteGoalResponse struct{}

type DeleteGoalRequest struct {
	ID string `json:"id"`
}

type DeleteGoalResponse struct{}

type GetGoalsRequest struct{}

type GetGoalsResponse struct {
	Goals []Goal `json:"goals"`
}
