package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseValue(t *testing.T) {
	cases := map[string]any{
		"":         nil,
		"  ":       nil,
		"red":      "red",
		"a, b,,c":  []string{"a", "b", "c"},
		" single ": "single",
	}
	for raw, want := range cases {
		if diff := cmp.Diff(want, parseValue(raw)); diff != "" {
			t.Fatalf("parseValue(%q) mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestParseTransform(t *testing.T) {
	fn, err := parseTransform("title")
	if err != nil {
		t.Fatalf("parse transform: %v", err)
	}
	if got := fn("light blue"); got != "Light Blue" {
		t.Fatalf("unexpected title case %q", got)
	}
	upper, _ := parseTransform("UPPER")
	if got := upper("red"); got != "RED" {
		t.Fatalf("unexpected upper case %q", got)
	}
	if fn, err := parseTransform(""); err != nil || fn != nil {
		t.Fatalf("expected no transform for empty name")
	}
	if _, err := parseTransform("reverse"); err == nil {
		t.Fatalf("expected unknown transform error")
	}
}

func TestRunWritesHTML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "field.html")
	opts := options{
		source:    filepath.Join("..", "..", "pkg", "schema", "testdata", "fields.yaml"),
		field:     "color",
		renderer:  "vanilla",
		transform: "upper",
		value:     "blue",
		output:    out,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(context.Background(), opts, logger); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(data)
	for _, fragment := range []string{`Colour *</label>`, `<option value="blue" selected>BLUE</option>`} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in\n%s", fragment, html)
		}
	}
}

func TestRunRejectsUnknownRenderer(t *testing.T) {
	opts := options{source: "fields.yaml", field: "color", renderer: "pdf"}
	if err := run(context.Background(), opts, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
}

func TestRunValidateReportsErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "field.html")
	opts := options{
		source:   filepath.Join("..", "..", "pkg", "schema", "testdata", "fields.yaml"),
		field:    "color",
		renderer: "vanilla",
		value:    "purple",
		validate: true,
		output:   out,
	}
	if err := run(context.Background(), opts, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `is not one of red, green, blue</li>`) {
		t.Fatalf("expected validation message in\n%s", data)
	}
}

func TestRunSanitizeStripsLabelMarkup(t *testing.T) {
	source := filepath.Join("..", "..", "pkg", "schema", "testdata", "fields.yaml")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cases := map[string]struct {
		sanitize bool
		want     string
	}{
		"escaped by default": {want: `&lt;b&gt;Hue&lt;/b&gt; *</label>`},
		"stripped":           {sanitize: true, want: `>Hue *</label>`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "field.html")
			opts := options{
				source:   source,
				field:    "color",
				renderer: "vanilla",
				label:    "<b>Hue</b>",
				sanitize: tc.sanitize,
				output:   out,
			}
			if err := run(context.Background(), opts, logger); err != nil {
				t.Fatalf("run: %v", err)
			}
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if !strings.Contains(string(data), tc.want) {
				t.Fatalf("expected %q in\n%s", tc.want, data)
			}
		})
	}
}
