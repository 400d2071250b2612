package matching

import (
	"errors"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
)

var (
	ErrInvalidScheme     = errors.New("invalid scoring scheme")
	ErrSchemeNotFound    = errors.New("scoring scheme not found")
	ErrUnknownField      = errors.New("unknown scheme field")
	ErrTooManyPriorities = errors.New("too many priorities")
)

type Rule string

const (
	RuleCategorical Rule = "categorical"
	RuleRange       Rule = "range"
	RulePreference  Rule = "preference"
	RuleCloseness   Rule = "closeness"
	RuleSet         Rule = "set"
)

func (r Rule) valid() bool {
	switch r {
	case RuleCategorical, RuleRange, RulePreference, RuleCloseness, RuleSet:
		return true
	}
	return false
}

// DefaultPenalty is subtracted when a same-X preference is not met.
const DefaultPenalty = 5.0

type FieldDefinition struct {
	Name   string
	Rule   Rule
	Weight float64

	// Multiplier scales range overlap hits. Zero means 1.
	Multiplier float64

	// FlagField names the self flag that switches a preference rule on,
	// e.g. "prefersSameGender" for the "gender" field.
	FlagField string

	// Penalty for an unmet preference. Zero means DefaultPenalty.
	// Priority boosts never apply to it.
	Penalty float64
}

func (d FieldDefinition) multiplier() float64 {
	if d.Multiplier == 0 {
		return 1
	}
	return d.Multiplier
}

func (d FieldDefinition) penalty() float64 {
	if d.Penalty == 0 {
		return DefaultPenalty
	}
	return d.Penalty
}

// Threshold decides which scores survive ranking.
type Threshold struct {
	MinScore  float64
	Inclusive bool
}

func (t Threshold) Admits(score float64) bool {
	if t.Inclusive {
		return score >= t.MinScore
	}
	return score > t.MinScore
}

type Scheme struct {
	Name      string
	Version   int
	Fields    []FieldDefinition
	Limit     int
	Threshold Threshold

	byName map[string]int
}

// NewScheme validates the definitions once so that bad field references fail
// at configuration time.
func NewScheme(name string, version int, fields []FieldDefinition, limit int, threshold Threshold) (*Scheme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, eris.Wrap(ErrInvalidScheme, "empty scheme name")
	}
	if len(fields) == 0 {
		return nil, eris.Wrapf(ErrInvalidScheme, "scheme %q has no fields", name)
	}
	if limit < 0 {
		return nil, eris.Wrapf(ErrInvalidScheme, "scheme %q: limit must be >= 0", name)
	}
	if !finite(threshold.MinScore) {
		return nil, eris.Wrapf(ErrInvalidScheme, "scheme %q: threshold must be a finite number", name)
	}

	s := &Scheme{
		Name:      name,
		Version:   version,
		Fields:    make([]FieldDefinition, 0, len(fields)),
		Limit:     limit,
		Threshold: threshold,
		byName:    make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		f.Name = strings.TrimSpace(f.Name)
		f.FlagField = strings.TrimSpace(f.FlagField)
		if f.Name == "" {
			return nil, eris.Wrapf(ErrInvalidScheme, "scheme %q: field with empty name", name)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, eris.Wrapf(ErrInvalidScheme, "scheme %q: duplicate field %q", name, f.Name)
		}
		if !f.Rule.valid() {
			return nil, eris.Wrapf(ErrInvalidScheme, "scheme %q: field %q: unknown rule %q", name, f.Name, f.Rule)
		}
		if !nonNegative(f.Weight, f.Multiplier, f.Penalty) {
			return nil, eris.Wrapf(ErrInvalidScheme, "scheme %q: field %q: weights must be finite and >= 0", name, f.Name)
		}
		if f.Rule == RulePreference && f.FlagField == "" {
			return nil, eris.Wrapf(ErrInvalidScheme, "scheme %q: field %q: preference rule needs a flag field", name, f.Name)
		}
		s.byName[f.Name] = len(s.Fields)
		s.Fields = append(s.Fields, f)
	}

	return s, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func nonNegative(xs ...float64) bool {
	for _, x := range xs {
		if !finite(x) || x < 0 {
			return false
		}
	}
	return true
}

// MustScheme is NewScheme for package-level built-ins.
func MustScheme(name string, version int, fields []FieldDefinition, limit int, threshold Threshold) *Scheme {
	s, err := NewScheme(name, version, fields, limit, threshold)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Scheme) Field(name string) (FieldDefinition, bool) {
	if s == nil {
		return FieldDefinition{}, false
	}
	i, ok := s.byName[name]
	if !ok {
		return FieldDefinition{}, false
	}
	return s.Fields[i], true
}

// ValidatePriorities rejects priority names the scheme does not define and
// sets larger than MaxPriorities.
func (s *Scheme) ValidatePriorities(p Priorities) error {
	if len(p) > MaxPriorities {
		return eris.Wrapf(ErrTooManyPriorities, "scheme %q: %d priorities, at most %d allowed", s.Name, len(p), MaxPriorities)
	}
	for _, f := range p {
		if _, ok := s.Field(f); !ok {
			return eris.Wrapf(ErrUnknownField, "scheme %q: priority %q", s.Name, f)
		}
	}
	return nil
}

const (
	SchemeRoommate = "roommate"
	SchemePeer     = "peer"
)

// RoommateScheme scores housing preferences. Only positive totals are kept and
// at most 10 matches are returned.
func RoommateScheme() *Scheme {
	return MustScheme(SchemeRoommate, 1, []FieldDefinition{
		{Name: "city", Rule: RuleCategorical, Weight: 2},
		{Name: "budget", Rule: RuleRange, Weight: 3},
		{Name: "gender", Rule: RulePreference, Weight: 5, FlagField: "prefersSameGender"},
		{Name: "religion", Rule: RulePreference, Weight: 5, FlagField: "prefersSameReligion"},
		{Name: "sleep", Rule: RuleCategorical, Weight: 2},
		{Name: "cleanliness", Rule: RuleCloseness, Weight: 2},
		{Name: "guests", Rule: RuleCategorical, Weight: 1},
		{Name: "hobbies", Rule: RuleSet, Weight: 4},
	}, 10, Threshold{MinScore: 0, Inclusive: false})
}

// PeerScheme scores networking profiles. Zero scores stay in the list and
// there is no cap.
func PeerScheme() *Scheme {
	return MustScheme(SchemePeer, 1, []FieldDefinition{
		{Name: "university", Rule: RuleCategorical, Weight: 3},
		{Name: "location", Rule: RuleCategorical, Weight: 2},
		{Name: "skills", Rule: RuleSet, Weight: 5},
		{Name: "interests", Rule: RuleSet, Weight: 4},
	}, 0, Threshold{MinScore: 0, Inclusive: true})
}

// Registry holds the schemes a process serves. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemes map[string]*Scheme
}

func NewRegistry(schemes ...*Scheme) *Registry {
	r := &Registry{schemes: make(map[string]*Scheme, len(schemes))}
	for _, s := range schemes {
		r.Register(s)
	}
	return r
}

func DefaultRegistry() *Registry {
	return NewRegistry(RoommateScheme(), PeerScheme())
}

// Register adds or replaces a scheme by name.
func (r *Registry) Register(s *Scheme) {
	if r == nil || s == nil {
		return
	}
	r.mu.Lock()
	r.schemes[s.Name] = s
	r.mu.Unlock()
}

func (r *Registry) Lookup(name string) (*Scheme, error) {
	if r == nil {
		return nil, eris.Wrapf(ErrSchemeNotFound, "scheme %q", name)
	}
	r.mu.RLock()
	s, ok := r.schemes[strings.TrimSpace(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, eris.Wrapf(ErrSchemeNotFound, "scheme %q", name)
	}
	return s, nil
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	out := make([]string, 0, len(r.schemes))
	for n := range r.schemes {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
