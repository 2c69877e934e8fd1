package model

type CreateTaskRequest struct {
	ProjectID string  `json:"project_id"`
	Date      string  `json:"date"`
	Title     string  `json:"title"`
	Hours     float64 `json:"hours"`
}

type CreateTaskResponse struct {
	Task Task `json:"task"`
}

type UpdateTaskRequest struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	Title       string  `json:"title"`
	Hours       float64 `json:"hours"`
	IsCompleted bool    `json:"is_completed"`
}

type UpdateTaskResponse struct {
	Task Task `json:"task"`
}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type DeleteTaskResponse struct{}

type GetTasksRequest struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type GetTasksResponse struct {
	Tasks []Task `json:"tasks"`
}
