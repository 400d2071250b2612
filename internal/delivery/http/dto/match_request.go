package dto

import "campus-match/internal/domain/matching"

type ProfileRequest struct {
	ID         string                    `json:"id"`
	Attributes map[string]matching.Value `json:"attributes"`
}

func (p ProfileRequest) ToMatching() matching.Profile {
	return matching.Profile{ID: p.ID, Values: p.Attributes}
}

type FilterRequest struct {
	Field string         `json:"field"`
	Value matching.Value `json:"value"`
}

type RankRequest struct {
	Scheme     string           `json:"scheme"`
	Self       ProfileRequest   `json:"self"`
	Candidates []ProfileRequest `json:"candidates"`
	Priorities []string         `json:"priorities"`
	Filters    []FilterRequest  `json:"filters"`
	Limit      int              `json:"limit"`
}

type ProfileUpsertRequest struct {
	DisplayName string                    `json:"display_name"`
	Attributes  map[string]matching.Value `json:"attributes"`
}
