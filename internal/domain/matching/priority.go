package matching

import "strings"

const (
	MaxPriorities = 3
	PriorityBoost = 3.0
)

// Priorities is the ordered set of fields a user flagged as important.
type Priorities []string

func NewPriorities(fields ...string) Priorities {
	p := Priorities{}
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || p.Has(f) {
			continue
		}
		p = TogglePriority(p, f)
	}
	return p
}

func (p Priorities) Has(field string) bool {
	for _, f := range p {
		if f == field {
			return true
		}
	}
	return false
}

// TogglePriority removes field when present and adds it while fewer than
// MaxPriorities are set. Past the cap it returns an unchanged copy.
func TogglePriority(current Priorities, field string) Priorities {
	out := make(Priorities, 0, MaxPriorities)
	removed := false
	for _, f := range current {
		if f == field {
			removed = true
			continue
		}
		out = append(out, f)
	}
	if removed {
		return out
	}
	if len(out) >= MaxPriorities || strings.TrimSpace(field) == "" {
		return out
	}
	return append(out, field)
}

func EffectiveWeight(def FieldDefinition, p Priorities) float64 {
	if p.Has(def.Name) {
		return def.Weight * PriorityBoost
	}
	return def.Weight
}
