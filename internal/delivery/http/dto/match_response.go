package dto

import (
	"time"

	"campus-match/internal/domain/matching"
	"campus-match/internal/repository"
	"campus-match/internal/usecase"

	"github.com/google/uuid"
)

type ContributionResponse struct {
	Field  string   `json:"field"`
	Rule   string   `json:"rule"`
	Points float64  `json:"points"`
	Shared []string `json:"shared,omitempty"`
}

type IssueResponse struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type MatchResultResponse struct {
	CandidateID   string                 `json:"candidate_id"`
	Score         float64                `json:"score"`
	MatchedFields []string               `json:"matched_fields"`
	Breakdown     []ContributionResponse `json:"breakdown"`
	Issues        []IssueResponse        `json:"issues,omitempty"`
}

type RankResponse struct {
	Scheme  string                `json:"scheme"`
	Results []MatchResultResponse `json:"results"`
}

func NewMatchResult(r matching.Result) MatchResultResponse {
	out := MatchResultResponse{
		CandidateID:   r.CandidateID,
		Score:         r.Score,
		MatchedFields: r.MatchedFields,
		Breakdown:     make([]ContributionResponse, 0, len(r.Breakdown)),
	}
	if out.MatchedFields == nil {
		out.MatchedFields = []string{}
	}
	for _, c := range r.Breakdown {
		out.Breakdown = append(out.Breakdown, ContributionResponse{
			Field:  c.Field,
			Rule:   string(c.Rule),
			Points: c.Points,
			Shared: c.Shared,
		})
	}
	for _, is := range r.Issues {
		out.Issues = append(out.Issues, IssueResponse{Field: is.Field, Reason: is.Reason})
	}
	return out
}

func NewRankResponse(scheme string, results []matching.Result) RankResponse {
	out := RankResponse{Scheme: scheme, Results: make([]MatchResultResponse, 0, len(results))}
	for _, r := range results {
		out.Results = append(out.Results, NewMatchResult(r))
	}
	return out
}

type RecommendationResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	MatchResultResponse
}

func NewRecommendations(items []usecase.RecommendedMatch) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, RecommendationResponse{
			UserID:              it.UserID,
			DisplayName:         it.DisplayName,
			MatchResultResponse: NewMatchResult(it.Result),
		})
	}
	return out
}

type PrioritiesResponse struct {
	Scheme string   `json:"scheme"`
	Fields []string `json:"fields"`
	Max    int      `json:"max"`
}

func NewPriorities(scheme string, p matching.Priorities) PrioritiesResponse {
	fields := []string(p)
	if fields == nil {
		fields = []string{}
	}
	return PrioritiesResponse{Scheme: scheme, Fields: fields, Max: matching.MaxPriorities}
}

type ProfileResponse struct {
	UserID      uuid.UUID                 `json:"user_id"`
	Scheme      string                    `json:"scheme"`
	DisplayName string                    `json:"display_name"`
	Attributes  map[string]matching.Value `json:"attributes"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

func NewProfile(p repository.MatchProfile) ProfileResponse {
	attrs := p.Attributes
	if attrs == nil {
		attrs = map[string]matching.Value{}
	}
	return ProfileResponse{
		UserID:      p.UserID,
		Scheme:      p.Scheme,
		DisplayName: p.DisplayName,
		Attributes:  attrs,
		UpdatedAt:   p.UpdatedAt,
	}
}
