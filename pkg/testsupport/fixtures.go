package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-selectfield/pkg/form"
	"github.com/goliatone/go-selectfield/pkg/schema"
)

// ScalarSchema defines field "x" as a scalar with allowed values a and b.
func ScalarSchema() *schema.Schema {
	return schema.New(schema.Definition{
		Name:          "x",
		Type:          schema.ValueTypeScalar,
		AllowedValues: []string{"a", "b"},
	})
}

// ArraySchema defines field "x" as an array whose items allow a and b.
func ArraySchema() *schema.Schema {
	return schema.New(
		schema.Definition{Name: "x", Type: schema.ValueTypeArray},
		schema.Definition{Name: "x.$", Type: schema.ValueTypeScalar, AllowedValues: []string{"a", "b"}},
	)
}

// Recorder captures change callbacks.
type Recorder struct {
	mu    sync.Mutex
	calls []form.Change
}

// Func returns a ChangeFunc that appends to the recorder.
func (r *Recorder) Func() form.ChangeFunc {
	return func(name string, value any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, form.Change{Name: name, Value: value})
	}
}

// Calls returns the recorded changes.
func (r *Recorder) Calls() []form.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]form.Change(nil), r.calls...)
}

// Last returns the most recent change and fails the test when nothing was
// recorded.
func (r *Recorder) Last(t *testing.T) form.Change {
	t.Helper()
	calls := r.Calls()
	if len(calls) == 0 {
		t.Fatalf("expected onChange to have been called")
	}
	return calls[len(calls)-1]
}

// NewContext builds a form context over bridge with an optional model and
// recorder.
func NewContext(bridge schema.Bridge, model map[string]any, rec *Recorder) form.Context {
	fc := form.Context{Schema: bridge}
	if model != nil {
		fc.Model = form.MapModel(model)
	}
	if rec != nil {
		fc.OnChange = rec.Func()
	}
	return fc
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
