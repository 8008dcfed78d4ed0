package selectfield

// Props configures a single field render. Zero values mean "not set" so the
// schema and model context decide.
type Props struct {
	// Name identifies the field in the schema, the model and OnChange.
	Name string
	// Checkboxes renders one input per option instead of a dropdown.
	Checkboxes bool
	Disabled   bool
	// Required overrides the schema flag when non-nil, explicit false included.
	Required *bool
	ID       string
	Label    string
	// Placeholder is shown by the dropdown when nothing is selected and doubles
	// as the sentinel value that clears the field.
	Placeholder string
	// Transform maps raw allowed values to display labels.
	Transform func(string) string
	// Value overrides the model value: a string for scalar fields, a []string
	// for array fields. Nil defers to the model.
	Value any
	// AllowedValues overrides the schema's allowed values when non-nil.
	AllowedValues []string
	// Attrs are forwarded verbatim to the wrapper element.
	Attrs map[string]string
}

// Bool returns a pointer to v, for Props.Required.
func Bool(v bool) *bool {
	return &v
}
