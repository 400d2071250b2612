package matching

import (
	"fmt"
	"math"
)

// Contribution is one field's share of a total score.
type Contribution struct {
	Field  string
	Rule   Rule
	Points float64
	Shared []string
}

// Issue flags a value that could not be compared under its field's rule.
type Issue struct {
	Field  string
	Reason string
}

// scoreField compares one field of self and other. weight is already boosted.
func scoreField(def FieldDefinition, self, other Profile, weight float64) (Contribution, *Issue) {
	c := Contribution{Field: def.Name, Rule: def.Rule}

	if def.Rule == RulePreference {
		return scorePreference(def, self, other, weight)
	}

	a := self.Get(def.Name)
	b := other.Get(def.Name)
	if !a.IsPresent() || !b.IsPresent() {
		return c, nil
	}

	switch def.Rule {
	case RuleCategorical:
		ka, okA := categoricalKey(a)
		kb, okB := categoricalKey(b)
		if !okA || !okB {
			return c, malformed(def, a, b)
		}
		if ka == kb {
			c.Points = weight
		}

	case RuleRange:
		ra, okA := asRange(a)
		rb, okB := asRange(b)
		if !okA || !okB {
			return c, malformed(def, a, b)
		}
		if ra.Max >= rb.Min && rb.Max >= ra.Min {
			c.Points = weight * def.multiplier()
		}

	case RuleCloseness:
		if a.Kind != KindNumber || b.Kind != KindNumber {
			return c, malformed(def, a, b)
		}
		switch diff := math.Abs(a.Number - b.Number); {
		case diff == 0:
			c.Points = weight
		case diff == 1:
			c.Points = weight / 2
		}

	case RuleSet:
		sa, okA := asSet(a)
		sb, okB := asSet(b)
		if !okA || !okB {
			return c, malformed(def, a, b)
		}
		c.Points = Jaccard(sa, sb) * weight
		c.Shared = Intersection(sa, sb)
	}

	return c, nil
}

// scorePreference only runs when self asks for a same-value match. A miss costs
// the fixed penalty no matter how the field is weighted.
func scorePreference(def FieldDefinition, self, other Profile, weight float64) (Contribution, *Issue) {
	c := Contribution{Field: def.Name, Rule: def.Rule}

	flag := self.Get(def.FlagField)
	if !flag.IsPresent() {
		return c, nil
	}
	if flag.Kind != KindFlag {
		return c, &Issue{Field: def.FlagField, Reason: fmt.Sprintf("expected flag, got %s", flag.Kind)}
	}
	if !flag.Flag {
		return c, nil
	}

	a := self.Get(def.Name)
	b := other.Get(def.Name)
	ka, okA := categoricalKey(a)
	kb, okB := categoricalKey(b)

	var issue *Issue
	if (a.IsPresent() && !okA) || (b.IsPresent() && !okB) {
		issue = malformed(def, a, b)
	}

	if okA && okB && ka != "" && ka == kb {
		c.Points = weight
		return c, issue
	}
	c.Points = -def.penalty()
	return c, issue
}

// accepts reports whether a candidate value satisfies a hard filter value.
func (d FieldDefinition) accepts(candidate, want Value) bool {
	if !candidate.IsPresent() || !want.IsPresent() {
		return false
	}

	switch d.Rule {
	case RuleRange:
		rc, okC := asRange(candidate)
		rw, okW := asRange(want)
		return okC && okW && rc.Max >= rw.Min && rw.Max >= rc.Min
	case RuleSet:
		sc, okC := asSet(candidate)
		sw, okW := asSet(want)
		return okC && okW && len(Intersection(sc, sw)) > 0
	case RuleCloseness:
		return candidate.Kind == KindNumber && want.Kind == KindNumber && candidate.Number == want.Number
	default:
		kc, okC := categoricalKey(candidate)
		kw, okW := categoricalKey(want)
		return okC && okW && kc == kw
	}
}

func categoricalKey(v Value) (string, bool) {
	switch v.Kind {
	case KindText:
		return Fold(v.Text), true
	case KindNumber:
		return fmt.Sprintf("%g", v.Number), true
	case KindFlag:
		return fmt.Sprintf("%t", v.Flag), true
	}
	return "", false
}

type interval struct{ Min, Max float64 }

func asRange(v Value) (interval, bool) {
	switch v.Kind {
	case KindRange:
		return interval{Min: v.Min, Max: v.Max}, true
	case KindNumber:
		return interval{Min: v.Number, Max: v.Number}, true
	}
	return interval{}, false
}

func asSet(v Value) ([]string, bool) {
	switch v.Kind {
	case KindSet:
		return v.Items, true
	case KindText:
		return []string{v.Text}, true
	}
	return nil, false
}

func malformed(def FieldDefinition, a, b Value) *Issue {
	return &Issue{
		Field:  def.Name,
		Reason: fmt.Sprintf("%s rule cannot compare %s with %s", def.Rule, a.Kind, b.Kind),
	}
}
