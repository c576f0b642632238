package search

import "time"

type Result struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Snippet     string    `json:"snippet"`
	Source      string    `json:"source"`
	RetrievedAt time.Time `json:"retrieved_at"`
	Score       float64   `json:"score,omitempty"`
}

type Response struct {
	Query    string        `json:"query"`
	Results  []Result      `json:"results"`
	Engine   string        `json:"engine"`
	Duration time.Duration `json:"duration"`
}
