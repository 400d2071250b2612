package matching

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Filter is a hard constraint a candidate must satisfy before scoring.
type Filter struct {
	Field string
	Value Value
}

type RankOptions struct {
	// Limit caps the output. Zero falls back to the scheme limit.
	Limit   int
	Filters []Filter
}

// Rank scores candidates against self and returns the admitted results,
// best first. Equal scores keep their input order. Inputs are not modified.
func Rank(self Profile, candidates []Profile, scheme *Scheme, p Priorities, opts RankOptions) ([]Result, error) {
	if scheme == nil {
		return nil, eris.Wrap(ErrInvalidScheme, "nil scheme")
	}
	if err := scheme.ValidatePriorities(p); err != nil {
		return nil, err
	}

	filters := make([]FieldDefinition, 0, len(opts.Filters))
	for _, f := range opts.Filters {
		def, ok := scheme.Field(f.Field)
		if !ok {
			return nil, eris.Wrapf(ErrUnknownField, "scheme %q: filter %q", scheme.Name, f.Field)
		}
		filters = append(filters, def)
	}

	out := make([]Result, 0, len(candidates))
	for _, cand := range candidates {
		if isSelf(self, cand) {
			continue
		}
		if !passesFilters(cand, filters, opts.Filters) {
			continue
		}

		res := Score(self, cand, scheme, p)
		if !scheme.Threshold.Admits(res.Score) {
			continue
		}
		out = append(out, res)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = scheme.Limit
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func passesFilters(cand Profile, defs []FieldDefinition, filters []Filter) bool {
	for i, def := range defs {
		if !def.accepts(cand.Get(def.Name), filters[i].Value) {
			return false
		}
	}
	return true
}
