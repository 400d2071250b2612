package matching

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold is the single case-folding policy used for every categorical and set
// comparison in the engine.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// A Caser keeps state, so a fresh one per call keeps Fold safe for concurrent use.
	return cases.Fold().String(s)
}

// Jaccard returns |a ∩ b| / |a ∪ b| over folded, deduplicated elements.
// Empty or nil inputs yield 0.
func Jaccard(a, b []string) float64 {
	setA := foldSet(a)
	setB := foldSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Intersection returns the elements of a that also appear in b, in a's order,
// without duplicates. The original spelling from a is kept.
func Intersection(a, b []string) []string {
	setB := foldSet(b)
	out := make([]string, 0)
	if len(setB) == 0 {
		return out
	}

	seen := make(map[string]struct{}, len(a))
	for _, it := range a {
		k := Fold(it)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := setB[k]; ok {
			out = append(out, strings.TrimSpace(it))
		}
	}
	return out
}

func foldSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := Fold(it)
		if k == "" {
			continue
		}
		out[k] = struct{}{}
	}
	return out
}
