package selectfield

import (
	"github.com/goliatone/go-selectfield/pkg/form"
	"github.com/goliatone/go-selectfield/pkg/schema"
)

// Resolved holds the effective field attributes after applying props over
// the schema and model context.
type Resolved struct {
	Name          string
	ID            string
	Type          schema.ValueType
	AllowedValues []string
	Required      bool
	Disabled      bool
	// Value is the explicit prop value if set, else the model value, else nil.
	Value any
}

// Resolve applies the precedence prop > context > default per attribute.
// Unknown fields resolve to a scalar with no allowed values. The name is
// used as given for lookups and dispatch.
func Resolve(fc form.Context, props Props) Resolved {
	name := props.Name
	def, _ := fc.Field(name)

	out := Resolved{
		Name:     name,
		ID:       props.ID,
		Type:     def.Type,
		Required: def.Required,
		Disabled: props.Disabled,
	}
	if out.Type == "" {
		out.Type = schema.ValueTypeScalar
	}
	if out.ID == "" {
		out.ID = fc.ControlID(name)
	}
	if props.Required != nil {
		out.Required = *props.Required
	}

	if props.AllowedValues != nil {
		out.AllowedValues = append([]string(nil), props.AllowedValues...)
	} else {
		out.AllowedValues = append([]string(nil), def.AllowedValues...)
	}

	if props.Value != nil {
		out.Value = form.Normalize(props.Value)
	} else if value, ok := fc.Value(name); ok {
		out.Value = value
	}
	return out
}
