// Package tui drives select fields from a terminal. Each Render call performs
// one interaction against the view and dispatches the resulting change.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-selectfield/pkg/render"
	"github.com/goliatone/go-selectfield/pkg/schema"
	"github.com/goliatone/go-selectfield/pkg/selectfield"
)

const (
	doneOption    = "Done"
	checkedMark   = "[x] "
	uncheckedMark = "[ ] "
)

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	pageSize          int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	if !r.outputFormat.valid() {
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return r.outputFormat.contentType()
}

// Render prompts once for view and dispatches the user's choice through the
// view's controls. The returned payload holds the value that was dispatched.
// ErrDone is returned when the user finishes an array checkbox field.
func (r *Renderer) Render(ctx context.Context, view selectfield.View, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	for _, message := range view.Errors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return nil, err
		}
	}

	if view.Disabled {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s is disabled", r.theme.InfoPrefix, displayLabel(view))); err != nil {
			return nil, err
		}
		return r.serialize(map[string]any{view.Name: currentValue(view)})
	}

	var (
		value any
		err   error
	)
	switch view.Mode {
	case selectfield.ModeCheckboxes:
		value, err = r.promptInputs(ctx, view)
	default:
		value, err = r.promptDropdown(ctx, view)
	}
	if err != nil {
		return nil, err
	}
	return r.serialize(map[string]any{view.Name: value})
}

func (r *Renderer) promptDropdown(ctx context.Context, view selectfield.View) (any, error) {
	dropdown := view.Dropdown
	if dropdown == nil {
		return nil, fmt.Errorf("tui: field %q has no dropdown control", view.Name)
	}

	var (
		labels = make([]string, 0, len(dropdown.Options)+1)
		values = make([]string, 0, len(dropdown.Options)+1)
	)
	defaultIdx := -1
	if dropdown.Placeholder != "" {
		labels = append(labels, dropdown.Placeholder)
		values = append(values, dropdown.Placeholder)
		defaultIdx = 0
	}
	selected := false
	for _, opt := range dropdown.Options {
		if opt.Selected && !selected {
			defaultIdx = len(labels)
			selected = true
		}
		labels = append(labels, opt.Label)
		values = append(values, opt.Value)
	}

	idx, err := r.choose(ctx, view, labels, defaultIdx)
	if err != nil {
		return nil, err
	}
	choice := values[idx]
	value := dropdown.ValueFor(choice)
	dropdown.Select(choice)
	return value, nil
}

func (r *Renderer) promptInputs(ctx context.Context, view selectfield.View) (any, error) {
	if len(view.Inputs) == 0 {
		return nil, fmt.Errorf("tui: field %q has no options", view.Name)
	}

	multiple := view.Inputs[0].Type == selectfield.InputTypeCheckbox
	labels := make([]string, 0, len(view.Inputs)+1)
	defaultIdx := -1
	for idx, in := range view.Inputs {
		label := in.Label
		if multiple {
			if in.Checked {
				label = checkedMark + label
			} else {
				label = uncheckedMark + label
			}
		} else if in.Checked && defaultIdx < 0 {
			defaultIdx = idx
		}
		labels = append(labels, label)
	}
	if multiple {
		labels = append(labels, doneOption)
	}

	idx, err := r.choose(ctx, view, labels, defaultIdx)
	if err != nil {
		return nil, err
	}
	if multiple && idx == len(view.Inputs) {
		return nil, ErrDone
	}

	in := view.Inputs[idx]
	value := in.NextValue()
	in.Change()
	return value, nil
}

// choose prompts until the driver reports an index inside options.
func (r *Renderer) choose(ctx context.Context, view selectfield.View, options []string, defaultIdx int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("tui: field %q has no options", view.Name)
	}
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      r.theme.PromptPrefix + displayLabel(view),
			Options:      options,
			DefaultIndex: defaultIdx,
			PageSize:     r.pageSize,
		})
		if err != nil {
			return 0, err
		}
		if idx >= 0 && idx < len(options) {
			return idx, nil
		}
		if err := r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s selection", r.theme.ErrorPrefix, view.Name)); err != nil {
			return 0, err
		}
	}
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayLabel(view selectfield.View) string {
	if view.Label != nil && view.Label.Text != "" {
		return view.Label.Text
	}
	return view.Name
}

func currentValue(view selectfield.View) any {
	if view.Dropdown != nil {
		return view.Dropdown.Value()
	}
	var checked []string
	for _, in := range view.Inputs {
		if in.Checked {
			checked = append(checked, in.Value)
		}
	}
	if view.Type == schema.ValueTypeArray {
		if checked == nil {
			return []string{}
		}
		return checked
	}
	if len(checked) == 0 {
		return nil
	}
	return checked[0]
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case nil:
			flattened.Set(key, "")
		case []string:
			for _, item := range v {
				flattened.Add(key+"[]", item)
			}
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case nil:
			fmt.Fprintf(&b, "%s=\n", key)
		case []string:
			if len(v) == 0 {
				fmt.Fprintf(&b, "%s=[]\n", key)
			}
			for idx, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%s\n", key, idx, item)
			}
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}
