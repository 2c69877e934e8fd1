package model

type CreateChallengeRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Rule        map[string]any `json:"rule"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
}

type CreateChallengeResponse struct {
	Challenge Challenge `json:"challenge"`
}

type JoinChallengeRequest struct {
	ID string `json:"id"`
}

type JoinChallengeResponse struct{}

type LeaveChallengeRequest struct {
	ID string `json:"id"`
}

type LeaveChallengeResponse struct{}

type GetChallengesRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetChallengesResponse struct {
	Challenges []Challenge `json:"challenges"`
}

type GetChallengeParticipantsRequest struct {
	ID string `json:"id"`
}

type GetChallengeParticipantsResponse struct {
	Participants []ChallengeParticipant `json:"participants"`
}
