package model

type CreateProjectRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CreateProjectResponse struct {
	Project Project `json:"project"`
}

type UpdateProjectRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type UpdateProjectResponse struct {
	Project Project `json:"project"`
}

type DeleteProjectRequest struct {
	ID string `json:"id"`
}

type DeleteProjectResponse struct{}

type GetProjectsRequest struct{}

type GetProjectsResponse struct {
	Projects []Project `json:"projects"`
}
