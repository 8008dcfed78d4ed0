package openapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

func loadFixture(t *testing.T) schema.Document {
	t.Helper()
	path := filepath.Join("testdata", "preferences.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), raw)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestParseOperation(t *testing.T) {
	doc := loadFixture(t)
	if !doc.IsOpenAPI() {
		t.Fatalf("expected fixture to be detected as OpenAPI")
	}

	bundle, err := Parse(context.Background(), doc, Target{OperationID: "updatePreferences"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	color, err := bundle.Schema.Lookup("color")
	if err != nil {
		t.Fatalf("lookup color: %v", err)
	}
	want := schema.Definition{
		Name:          "color",
		Type:          schema.ValueTypeScalar,
		AllowedValues: []string{"red", "green", "blue"},
		Required:      true,
		Label:         "Colour",
	}
	if diff := cmp.Diff(want, color); diff != "" {
		t.Fatalf("color mismatch (-want +got):\n%s", diff)
	}

	tags, ok := bundle.Schema.Field("tags")
	if !ok {
		t.Fatalf("expected tags field")
	}
	if !tags.IsArray() {
		t.Fatalf("expected tags to be an array field")
	}
	if diff := cmp.Diff([]string{"a", "b"}, tags.AllowedValues); diff != "" {
		t.Fatalf("tags allowed values mismatch (-want +got):\n%s", diff)
	}

	size, _ := bundle.Schema.Field("size")
	if diff := cmp.Diff([]string{"1", "2", "3"}, size.AllowedValues); diff != "" {
		t.Fatalf("size allowed values mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"color", "size", "tags"}, bundle.Schema.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if bundle.Model["color"] != "green" {
		t.Fatalf("expected current value for color, got %#v", bundle.Model["color"])
	}
	if diff := cmp.Diff([]any{"a"}, bundle.Model["tags"]); diff != "" {
		t.Fatalf("tags model mismatch (-want +got):\n%s", diff)
	}
}

func TestParseComponent(t *testing.T) {
	bundle, err := Parse(context.Background(), loadFixture(t), Target{Component: "Preferences"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if bundle.Schema.Len() != 4 {
		t.Fatalf("expected 4 definitions (3 fields plus tags.$), got %d", bundle.Schema.Len())
	}
}

func TestParseErrors(t *testing.T) {
	doc := loadFixture(t)
	cases := map[string]Target{
		"missing target":    {},
		"unknown operation": {OperationID: "nope"},
		"unknown component": {Component: "Nope"},
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(context.Background(), doc, target); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Parse(ctx, loadFixture(t), Target{Component: "Preferences"}); err == nil {
		t.Fatalf("expected context error")
	}
}
