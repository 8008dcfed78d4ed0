package selectfield

import (
	"slices"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

// Option pairs a raw allowed value with its display label.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// BuildOptions maps allowed values to options in order. Duplicates are kept.
func BuildOptions(values []string, transform func(string) string) []Option {
	options := make([]Option, 0, len(values))
	for _, value := range values {
		label := value
		if transform != nil {
			label = transform(value)
		}
		options = append(options, Option{Value: value, Label: label})
	}
	return options
}

// Selection is the current value of a field, derived on every render.
type Selection struct {
	Multiple bool     `json:"multiple"`
	Scalar   string   `json:"scalar,omitempty"`
	Present  bool     `json:"present"`
	Values   []string `json:"values,omitempty"`
}

// NewSelection derives the selection for a value type. A scalar field holding
// a sequence selects nothing; an array field holding a single string treats
// it as a one-element sequence.
func NewSelection(valueType schema.ValueType, value any) Selection {
	if valueType == schema.ValueTypeArray {
		sel := Selection{Multiple: true, Values: []string{}}
		switch v := value.(type) {
		case []string:
			sel.Values = append(sel.Values, v...)
		case string:
			sel.Values = append(sel.Values, v)
		}
		return sel
	}

	if v, ok := value.(string); ok {
		return Selection{Scalar: v, Present: true}
	}
	return Selection{}
}

// Contains reports whether value is selected.
func (s Selection) Contains(value string) bool {
	if s.Multiple {
		return slices.Contains(s.Values, value)
	}
	return s.Present && s.Scalar == value
}

// Value returns nil, the scalar string, or a copy of the selected sequence.
func (s Selection) Value() any {
	if s.Multiple {
		return slices.Clone(s.Values)
	}
	if !s.Present {
		return nil
	}
	return s.Scalar
}

// Toggle returns the sequence with value removed when present, appended
// otherwise. The receiver is not modified.
func (s Selection) Toggle(value string) []string {
	if slices.Contains(s.Values, value) {
		out := make([]string, 0, len(s.Values))
		for _, item := range s.Values {
			if item != value {
				out = append(out, item)
			}
		}
		return out
	}
	out := make([]string, 0, len(s.Values)+1)
	out = append(out, s.Values...)
	return append(out, value)
}
