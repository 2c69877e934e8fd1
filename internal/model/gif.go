package model

type SearchGifsRequest struct {
	Q     string `json:"q"`
	Limit int    `json:"limit"`
}

type SearchGifsResponse struct {
	Gifs []Gif `json:"gifs"`
}
