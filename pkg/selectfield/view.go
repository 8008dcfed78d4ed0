package selectfield

import (
	"maps"

	"github.com/goliatone/go-selectfield/pkg/form"
	"github.com/goliatone/go-selectfield/pkg/schema"
)

// Mode selects which control a View describes.
type Mode string

const (
	ModeDropdown   Mode = "dropdown"
	ModeCheckboxes Mode = "checkboxes"
)

// RequiredMarker is appended to the label text of required fields.
const RequiredMarker = " *"

// Input types used in checkbox mode.
const (
	InputTypeCheckbox = "checkbox"
	InputTypeRadio    = "radio"
)

// Label describes the field label. For is empty in checkbox mode where no
// single control owns the label.
type Label struct {
	For  string `json:"for,omitempty"`
	Text string `json:"text"`
}

// View describes the rendered field. Exactly one of Dropdown or Inputs is
// populated depending on Mode.
type View struct {
	Name     string            `json:"name"`
	ID       string            `json:"id"`
	Mode     Mode              `json:"mode"`
	Type     schema.ValueType  `json:"type"`
	Required bool              `json:"required"`
	Disabled bool              `json:"disabled"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Label    *Label            `json:"label,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
	Dropdown *Dropdown         `json:"dropdown,omitempty"`
	Inputs   []Input           `json:"inputs,omitempty"`
}

// Options returns the option list regardless of mode.
func (v View) Options() []Option {
	if v.Dropdown != nil {
		return v.Dropdown.Options
	}
	out := make([]Option, 0, len(v.Inputs))
	for _, in := range v.Inputs {
		out = append(out, Option{Value: in.Value, Label: in.Label, Selected: in.Checked})
	}
	return out
}

// Dropdown is the single-select control.
type Dropdown struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Disabled    bool      `json:"disabled"`
	Placeholder string    `json:"placeholder,omitempty"`
	Selection   Selection `json:"selection"`
	Options     []Option  `json:"options"`

	dispatch Dispatcher
}

// Value is the selected value: nil when nothing is selected, the raw value
// for scalar fields, the selected sequence for array fields.
func (d *Dropdown) Value() any {
	return d.Selection.Value()
}

// ValueFor reports what Select would dispatch for choice. Picking the
// placeholder clears the field; array fields otherwise receive a one-element
// sequence.
func (d *Dropdown) ValueFor(choice string) any {
	if d.Placeholder != "" && choice == d.Placeholder {
		if d.Selection.Multiple {
			return []string{}
		}
		return nil
	}
	if d.Selection.Multiple {
		return []string{choice}
	}
	return choice
}

// Select handles the user picking value.
func (d *Dropdown) Select(value string) {
	d.dispatch.Dispatch(d.ValueFor(value))
}

// Input is one exclusive-choice control in checkbox mode.
type Input struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Checked  bool   `json:"checked"`
	Disabled bool   `json:"disabled"`

	selection Selection
	dispatch  Dispatcher
}

// NextValue reports what Change would dispatch. Scalar fields always receive
// the input value, even when it is already selected; array fields toggle it.
func (in Input) NextValue() any {
	if in.selection.Multiple {
		return in.selection.Toggle(in.Value)
	}
	return in.Value
}

// Change handles the input's change event.
func (in Input) Change() {
	in.dispatch.Dispatch(in.NextValue())
}

// Render resolves props against fc and describes the field. It never calls
// fc.OnChange.
func Render(fc form.Context, props Props) View {
	resolved := Resolve(fc, props)
	selection := NewSelection(resolved.Type, resolved.Value)
	options := BuildOptions(resolved.AllowedValues, props.Transform)
	dispatch := NewDispatcher(resolved.Name, fc.OnChange, resolved.Disabled)

	view := View{
		Name:     resolved.Name,
		ID:       resolved.ID,
		Type:     resolved.Type,
		Required: resolved.Required,
		Disabled: resolved.Disabled,
		Attrs:    maps.Clone(props.Attrs),
		Errors:   fc.ErrorsFor(resolved.Name),
	}

	if props.Checkboxes {
		view.Mode = ModeCheckboxes
		view.Inputs = buildInputs(resolved, options, selection, dispatch)
	} else {
		view.Mode = ModeDropdown
		for idx := range options {
			options[idx].Selected = selection.Contains(options[idx].Value)
		}
		view.Dropdown = &Dropdown{
			ID:          resolved.ID,
			Name:        resolved.Name,
			Disabled:    resolved.Disabled,
			Placeholder: props.Placeholder,
			Selection:   selection,
			Options:     options,
			dispatch:    dispatch,
		}
	}

	if props.Label != "" {
		text := props.Label
		if resolved.Required {
			text += RequiredMarker
		}
		view.Label = &Label{Text: text}
		if view.Mode == ModeDropdown {
			view.Label.For = resolved.ID
		}
	}
	return view
}

func buildInputs(resolved Resolved, options []Option, selection Selection, dispatch Dispatcher) []Input {
	inputType := InputTypeRadio
	if selection.Multiple {
		inputType = InputTypeCheckbox
	}
	inputs := make([]Input, 0, len(options))
	for _, opt := range options {
		inputs = append(inputs, Input{
			ID:        resolved.ID + "-" + opt.Value,
			Name:      resolved.Name,
			Type:      inputType,
			Value:     opt.Value,
			Label:     opt.Label,
			Checked:   selection.Contains(opt.Value),
			Disabled:  resolved.Disabled,
			selection: selection,
			dispatch:  dispatch,
		})
	}
	return inputs
}
