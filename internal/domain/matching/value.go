package matching

import (
	"bytes"
	"encoding/json"
)

type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindText
	KindNumber
	KindFlag
	KindRange
	KindSet
	KindInvalid
)

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindFlag:
		return "flag"
	case KindRange:
		return "range"
	case KindSet:
		return "set"
	default:
		return "invalid"
	}
}

// Value is one profile attribute. The zero Value is "absent".
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Flag   bool
	Min    float64
	Max    float64
	Items  []string
}

func Text(s string) Value       { return Value{Kind: KindText, Text: s} }
func Number(n float64) Value    { return Value{Kind: KindNumber, Number: n} }
func Flag(b bool) Value         { return Value{Kind: KindFlag, Flag: b} }
func Set(items ...string) Value { return Value{Kind: KindSet, Items: append([]string(nil), items...)} }

// Range builds a numeric interval. Bounds given in reverse order are swapped.
func Range(lo, hi float64) Value {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Value{Kind: KindRange, Min: lo, Max: hi}
}

func (v Value) IsPresent() bool {
	switch v.Kind {
	case KindNone:
		return false
	case KindText:
		return Fold(v.Text) != ""
	case KindSet:
		return len(v.Items) > 0
	default:
		return true
	}
}

// UnmarshalJSON accepts a string, number, bool, [lo, hi], {"min":..,"max":..}
// or an array of strings. Any other shape becomes KindInvalid instead of failing
// the whole document.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*v = Value{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			v.Kind = KindInvalid
			return nil
		}
		*v = Text(s)
	case 't', 'f':
		var f bool
		if err := json.Unmarshal(b, &f); err != nil {
			v.Kind = KindInvalid
			return nil
		}
		*v = Flag(f)
	case '[':
		*v = decodeArray(b)
	case '{':
		*v = decodeObject(b)
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			v.Kind = KindInvalid
			return nil
		}
		*v = Number(n)
	}
	return nil
}

func decodeArray(b []byte) Value {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return Value{Kind: KindInvalid}
	}
	if len(raw) == 0 {
		return Value{Kind: KindSet}
	}

	var nums []float64
	if err := json.Unmarshal(b, &nums); err == nil {
		if len(nums) == 2 {
			return Range(nums[0], nums[1])
		}
		return Value{Kind: KindInvalid}
	}

	var items []string
	if err := json.Unmarshal(b, &items); err == nil {
		return Set(items...)
	}
	return Value{Kind: KindInvalid}
}

func decodeObject(b []byte) Value {
	var r struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	}
	if err := json.Unmarshal(b, &r); err != nil || r.Min == nil || r.Max == nil {
		return Value{Kind: KindInvalid}
	}
	return Range(*r.Min, *r.Max)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindFlag:
		return json.Marshal(v.Flag)
	case KindRange:
		return json.Marshal([2]float64{v.Min, v.Max})
	case KindSet:
		items := v.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	default:
		return []byte("null"), nil
	}
}

// Profile is a self or candidate record keyed by field name.
type Profile struct {
	ID     string
	Values map[string]Value
}

func (p Profile) Get(field string) Value {
	if p.Values == nil {
		return Value{}
	}
	return p.Values[field]
}
