// Package search implements the information lookup chain: an ordered set
// of web search providers tried in sequence, terminated by an offline
// generator so a lookup never fails outright.
package search

import "context"

// Result is a single search hit.
type Result struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date,omitempty"`
}

// Response is the outcome of one lookup.
type Response struct {
	Query           string   `json:"query"`
	Results         []Result `json:"results"`
	NumberOfResults int      `json:"number_of_results"`
}

// NewResponse builds a Response, keeping the count in sync with the
// result slice.
func NewResponse(query string, results []Result) *Response {
	return &Response{
		Query:           query,
		Results:         results,
		NumberOfResults: len(results),
	}
}

// Provider is one backend in the lookup chain.
type Provider interface {
	// Name identifies the backend in logs and step records.
	Name() string
	// Search runs one query and returns up to maxResults hits.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
