package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-selectfield/pkg/schema"
	"github.com/goliatone/go-selectfield/pkg/validation"
)

func testSchema() *schema.Schema {
	return schema.New(
		schema.Definition{Name: "color", Type: schema.ValueTypeScalar, AllowedValues: []string{"red", "blue"}, Required: true},
		schema.Definition{Name: "tags", Type: schema.ValueTypeArray, Required: true},
		schema.Definition{Name: "tags.$", Type: schema.ValueTypeScalar, AllowedValues: []string{"a", "b"}},
		schema.Definition{Name: "note", Type: schema.ValueTypeScalar},
	)
}

func TestFieldRequired(t *testing.T) {
	v := validation.New(testSchema())

	cases := map[string]struct {
		name  string
		value any
	}{
		"nil scalar":   {name: "color", value: nil},
		"empty scalar": {name: "color", value: ""},
		"nil array":    {name: "tags", value: nil},
		"empty array":  {name: "tags", value: []string{}},
		"empty any":    {name: "tags", value: []any{}},
	}
	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			want := []validation.Issue{{Field: tc.name, Message: validation.MessageRequired}}
			if diff := cmp.Diff(want, v.Field(tc.name, tc.value)); diff != "" {
				t.Fatalf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFieldAllowedValues(t *testing.T) {
	v := validation.New(testSchema())

	if issues := v.Field("color", "red"); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if issues := v.Field("tags", []any{"a", "b"}); len(issues) != 0 {
		t.Fatalf("expected item values to be accepted, got %v", issues)
	}

	want := []validation.Issue{{Field: "tags", Message: `"z" is not one of a, b`}}
	if diff := cmp.Diff(want, v.Field("tags", []string{"a", "z"})); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	if issues := v.Field("note", "anything"); len(issues) != 0 {
		t.Fatalf("fields without allowed values accept anything, got %v", issues)
	}
	if issues := v.Field("note", nil); len(issues) != 0 {
		t.Fatalf("optional field should accept nil, got %v", issues)
	}
}

func TestFieldUnknown(t *testing.T) {
	want := []validation.Issue{{Field: "size", Message: validation.MessageUnknownField}}
	if diff := cmp.Diff(want, validation.New(testSchema()).Field("size", "m")); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if issues := validation.New(nil).Field("size", "m"); len(issues) != 1 {
		t.Fatalf("expected unknown issue without a bridge, got %v", issues)
	}
}

func TestModelChecksEveryField(t *testing.T) {
	result := validation.New(testSchema()).Model(map[string]any{
		"color": "green",
		"tags":  []string{"a"},
	})
	if result.Valid {
		t.Fatalf("expected invalid result")
	}

	want := map[string][]string{
		"color": {`"green" is not one of red, blue`},
	}
	if diff := cmp.Diff(want, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestModelNamedFields(t *testing.T) {
	result := validation.New(testSchema()).Model(map[string]any{}, "tags")
	want := map[string][]string{"tags": {validation.MessageRequired}}
	if diff := cmp.Diff(want, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestResultMerge(t *testing.T) {
	result := validation.Result{Issues: []validation.Issue{
		{Field: "color", Message: validation.MessageRequired},
		{Field: "tags", Message: "bad"},
	}}

	merged := result.Merge(map[string][]string{"color": {validation.MessageRequired, "server said no"}})
	want := map[string][]string{
		"color": {validation.MessageRequired, "server said no"},
		"tags":  {"bad"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}

	if got := (validation.Result{Valid: true}).Merge(nil); got != nil {
		t.Fatalf("expected nil map for empty result, got %v", got)
	}
	if got := (validation.Result{Valid: true}).Errors(); got != nil {
		t.Fatalf("expected nil errors, got %v", got)
	}
}
