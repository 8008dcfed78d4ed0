package schema

import "strings"

// ValueType is the declared shape of a field value.
type ValueType string

const (
	// ValueTypeScalar fields hold a single raw value.
	ValueTypeScalar ValueType = "scalar"
	// ValueTypeArray fields hold an ordered sequence of raw values.
	ValueTypeArray ValueType = "array"
)

// ItemSuffix is appended to an array field name to address its item
// definition (e.g. "tags.$").
const ItemSuffix = ".$"

// ParseValueType maps the type names accepted by schema documents onto a
// ValueType. Unknown names resolve to ValueTypeScalar.
func ParseValueType(raw string) ValueType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "array", "list", "multi":
		return ValueTypeArray
	default:
		return ValueTypeScalar
	}
}

// Definition describes a single field as supplied by the schema context.
type Definition struct {
	Name          string    `json:"name"`
	Type          ValueType `json:"type"`
	AllowedValues []string  `json:"allowedValues,omitempty"`
	Required      bool      `json:"required"`
	Label         string    `json:"label,omitempty"`
	Placeholder   string    `json:"placeholder,omitempty"`
}

// IsArray reports whether the definition declares an array value.
func (d Definition) IsArray() bool {
	return d.Type == ValueTypeArray
}

// Clone returns a copy that does not share the allowed values slice.
func (d Definition) Clone() Definition {
	d.AllowedValues = append([]string(nil), d.AllowedValues...)
	return d
}

// Bridge exposes field definitions by name. Implementations must be safe to
// read from multiple goroutines.
type Bridge interface {
	Field(name string) (Definition, bool)
}

// ItemName returns the item definition key for an array field.
func ItemName(name string) string {
	return name + ItemSuffix
}
