package matching

// SentinelScore marks a self-match. It never reaches ranked output.
const SentinelScore = -1.0

type Result struct {
	CandidateID   string
	Score         float64
	MatchedFields []string
	Breakdown     []Contribution
	Issues        []Issue
}

func isSelf(self, candidate Profile) bool {
	return self.ID != "" && self.ID == candidate.ID
}

// Score sums every field contribution of candidate against self under scheme,
// boosting the fields in p. Only the first MaxPriorities distinct fields of p
// are boosted.
func Score(self, candidate Profile, scheme *Scheme, p Priorities) Result {
	if len(p) > MaxPriorities {
		p = NewPriorities(p...)
	}
	res := Result{
		CandidateID:   candidate.ID,
		MatchedFields: make([]string, 0),
		Breakdown:     make([]Contribution, 0),
	}
	if isSelf(self, candidate) {
		res.Score = SentinelScore
		return res
	}
	if scheme == nil {
		return res
	}

	var total float64
	for _, def := range scheme.Fields {
		c, issue := scoreField(def, self, candidate, EffectiveWeight(def, p))
		if issue != nil {
			res.Issues = append(res.Issues, *issue)
		}
		if c.Points == 0 {
			continue
		}
		total += c.Points
		res.MatchedFields = append(res.MatchedFields, def.Name)
		res.Breakdown = append(res.Breakdown, c)
	}

	res.Score = total
	return res
}
