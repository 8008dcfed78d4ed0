// Package validation checks field values against their schema definitions and
// reports the results in the map shape form.Context.Errors expects.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-selectfield/pkg/form"
	"github.com/goliatone/go-selectfield/pkg/schema"
)

const (
	// MessageRequired is reported for a required field without a value.
	MessageRequired = "is required"
	// MessageUnknownField is reported for names the schema does not define.
	MessageUnknownField = "is not defined by the schema"
)

// Issue describes one failed check.
type Issue struct {
	Field   string
	Message string
}

// Result aggregates issues for a validation run.
type Result struct {
	Valid  bool
	Issues []Issue
}

// Errors groups messages by field name, preserving report order.
func (r Result) Errors() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, issue := range r.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// Merge folds the result's messages into errs without repeating a message
// already present for the field. errs may be nil.
func (r Result) Merge(errs map[string][]string) map[string][]string {
	if len(r.Issues) == 0 {
		return errs
	}
	if errs == nil {
		errs = make(map[string][]string)
	}
	for _, issue := range r.Issues {
		if slices.Contains(errs[issue.Field], issue.Message) {
			continue
		}
		errs[issue.Field] = append(errs[issue.Field], issue.Message)
	}
	return errs
}

// Validator checks values against a schema bridge.
type Validator struct {
	bridge   schema.Bridge
	validate *validator.Validate
}

// New returns a Validator reading definitions from bridge.
func New(bridge schema.Bridge) *Validator {
	return &Validator{
		bridge:   bridge,
		validate: validator.New(),
	}
}

// Field validates one value. Values are normalised first so decoded YAML/JSON
// shapes are accepted.
func (v *Validator) Field(name string, value any) []Issue {
	if v == nil || v.bridge == nil {
		return []Issue{{Field: name, Message: MessageUnknownField}}
	}
	def, ok := v.bridge.Field(name)
	if !ok {
		return []Issue{{Field: name, Message: MessageUnknownField}}
	}

	value = form.Normalize(value)
	var values []string
	switch typed := value.(type) {
	case string:
		if typed != "" {
			values = []string{typed}
		}
	case []string:
		values = typed
	}

	var issues []Issue
	if def.Required {
		if err := v.checkRequired(value); err != nil {
			issues = append(issues, Issue{Field: name, Message: MessageRequired})
		}
	}
	if len(def.AllowedValues) == 0 {
		return issues
	}
	for _, item := range values {
		if !slices.Contains(def.AllowedValues, item) {
			issues = append(issues, Issue{
				Field:   name,
				Message: fmt.Sprintf("%q is not one of %s", item, strings.Join(def.AllowedValues, ", ")),
			})
		}
	}
	return issues
}

// Model validates the named fields of model. With no names, every field the
// bridge can enumerate is checked.
func (v *Validator) Model(model map[string]any, names ...string) Result {
	if len(names) == 0 {
		names = v.names()
	}
	var issues []Issue
	for _, name := range names {
		issues = append(issues, v.Field(name, model[name])...)
	}
	return Result{Valid: len(issues) == 0, Issues: issues}
}

func (v *Validator) checkRequired(value any) error {
	if value == nil {
		return errors.New("missing")
	}
	tag := "required"
	if _, ok := value.([]string); ok {
		tag = "required,min=1"
	}
	return v.validate.Var(value, tag)
}

func (v *Validator) names() []string {
	if v == nil {
		return nil
	}
	lister, ok := v.bridge.(interface{ Names() []string })
	if !ok {
		return nil
	}
	names := lister.Names()
	sort.Strings(names)
	return names
}
