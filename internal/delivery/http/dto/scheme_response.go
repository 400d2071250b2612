package dto

import "campus-match/internal/usecase"

type FieldResponse struct {
	Name       string  `json:"name"`
	Rule       string  `json:"rule"`
	Weight     float64 `json:"weight"`
	Multiplier float64 `json:"multiplier,omitempty"`
	FlagField  string  `json:"flag_field,omitempty"`
	Penalty    float64 `json:"penalty,omitempty"`
}

type ThresholdResponse struct {
	MinScore  float64 `json:"min_score"`
	Inclusive bool    `json:"inclusive"`
}

type SchemeResponse struct {
	Name      string            `json:"name"`
	Version   int               `json:"version"`
	Limit     int               `json:"limit"`
	Threshold ThresholdResponse `json:"threshold"`
	Fields    []FieldResponse   `json:"fields"`
}

func NewSchemes(in []usecase.SchemeInfo) []SchemeResponse {
	out := make([]SchemeResponse, 0, len(in))
	for _, s := range in {
		sr := SchemeResponse{
			Name:      s.Name,
			Version:   s.Version,
			Limit:     s.Limit,
			Threshold: ThresholdResponse{MinScore: s.Threshold.MinScore, Inclusive: s.Threshold.Inclusive},
			Fields:    make([]FieldResponse, 0, len(s.Fields)),
		}
		for _, f := range s.Fields {
			sr.Fields = append(sr.Fields, FieldResponse{
				Name:       f.Name,
				Rule:       string(f.Rule),
				Weight:     f.Weight,
				Multiplier: f.Multiplier,
				FlagField:  f.FlagField,
				Penalty:    f.Penalty,
			})
		}
		out = append(out, sr)
	}
	return out
}
