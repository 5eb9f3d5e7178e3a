package chi

import (
	"time"

	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
	"github.com/kailas-cloud/dreamdex/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/dreamdex/internal/usecase/search"
)

type errorResponse struct {
	Error string `json:"error"`
}

type symbolResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Tags       []string   `json:"tags"`
	Summary    string     `json:"summary"`
	Popularity int64      `json:"popularity"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type scoredResponse struct {
	symbolResponse
	Score float64 `json:"score"`
}

type searchResponse struct {
	Results         []scoredResponse `json:"results"`
	Recommendations []symbolResponse `json:"recommendations"`
	Total           int              `json:"total"`
	Query           string           `json:"query"`
	Message         string           `json:"message,omitempty"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type trendingItem struct {
	Query    string `json:"query"`
	Searches int64  `json:"searches"`
	Clicks   int64  `json:"clicks"`
}

type trendingResponse struct {
	Date  string         `json:"date"`
	Items []trendingItem `json:"items"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func symbolToResponse(c *candidate.Candidate) symbolResponse {
	tags := c.Tags()
	if tags == nil {
		tags = []string{}
	}
	resp := symbolResponse{
		ID:         c.ID(),
		Name:       c.Name(),
		Tags:       tags,
		Summary:    c.Summary(),
		Popularity: c.Popularity(),
	}
	if t := c.UpdatedAt(); !t.IsZero() {
		u := t.UTC()
		resp.UpdatedAt = &u
	}
	return resp
}

func resultToResponse(r *result.Result) scoredResponse {
	c := r.Candidate()
	return scoredResponse{symbolResponse: symbolToResponse(&c), Score: r.Score()}
}

func outcomeToResponse(out *searchuc.Outcome) searchResponse {
	results := make([]scoredResponse, len(out.Results))
	for i := range out.Results {
		results[i] = resultToResponse(&out.Results[i])
	}
	recs := make([]symbolResponse, len(out.Recommendations))
	for i := range out.Recommendations {
		recs[i] = symbolToResponse(&out.Recommendations[i])
	}
	return searchResponse{
		Results:         results,
		Recommendations: recs,
		Total:           out.Total,
		Query:           out.Query,
		Message:         out.Message,
	}
}

func trendingToResponse(day domlog.Day, entries []domlog.Entry) trendingResponse {
	items := make([]trendingItem, len(entries))
	for i, e := range entries {
		items[i] = trendingItem{Query: e.Query, Searches: e.Searches, Clicks: e.Clicks}
	}
	return trendingResponse{Date: day.String(), Items: items}
}
