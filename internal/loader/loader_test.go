package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

const fixture = "fields:\n  color:\n    allowedValues: [red]\n"

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fields.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New(schema.NewLoaderOptions()).Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != path {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoadFS(t *testing.T) {
	files := fstest.MapFS{"schemas/fields.yaml": {Data: []byte(fixture)}}
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), schema.SourceFromFS("schemas/fields.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	if _, err := New(schema.NewLoaderOptions()).Load(context.Background(), schema.SourceFromFS("schemas/fields.yaml")); err == nil {
		t.Fatalf("expected error without a filesystem")
	}
}

func TestLoadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fields.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	disabled := New(schema.NewLoaderOptions())
	if _, err := disabled.Load(context.Background(), schema.SourceFromURL(server.URL+"/fields.yaml")); err == nil {
		t.Fatalf("expected http to be disabled by default")
	}

	l := New(schema.NewLoaderOptions(schema.WithHTTPClient(server.Client())))
	doc, err := l.Load(context.Background(), schema.SourceFromURL(server.URL+"/fields.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != fixture {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	_, err = l.Load(context.Background(), schema.SourceFromURL(server.URL+"/missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoadNilSource(t *testing.T) {
	if _, err := New(schema.NewLoaderOptions()).Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

func TestLoadEnforcesMaxBytes(t *testing.T) {
	files := fstest.MapFS{"fields.yaml": {Data: []byte(fixture)}}

	capped := New(schema.NewLoaderOptions(schema.WithFileSystem(files), schema.WithMaxBytes(8)))
	_, err := capped.Load(context.Background(), schema.SourceFromFS("fields.yaml"))
	if err == nil || !strings.Contains(err.Error(), "exceeds 8 bytes") {
		t.Fatalf("expected size error, got %v", err)
	}

	exact := New(schema.NewLoaderOptions(schema.WithFileSystem(files), schema.WithMaxBytes(int64(len(fixture)))))
	if _, err := exact.Load(context.Background(), schema.SourceFromFS("fields.yaml")); err != nil {
		t.Fatalf("document at the cap should load: %v", err)
	}

	unlimited := New(schema.NewLoaderOptions(schema.WithFileSystem(files), schema.WithMaxBytes(-1)))
	if _, err := unlimited.Load(context.Background(), schema.SourceFromFS("fields.yaml")); err != nil {
		t.Fatalf("uncapped load: %v", err)
	}
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	files := fstest.MapFS{"fields.yaml": {Data: []byte(fixture)}}
	_, err := New(schema.NewLoaderOptions(schema.WithFileSystem(files))).Load(ctx, schema.SourceFromFS("fields.yaml"))
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
