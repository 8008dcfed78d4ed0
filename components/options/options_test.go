package options

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

type response struct {
	Data []responseOption `json:"data"`
}

func testSchema() *schema.Schema {
	return schema.New(
		schema.Definition{Name: "city", Type: schema.ValueTypeScalar, AllowedValues: []string{"paris", "berlin", "parma", "lyon"}},
		schema.Definition{Name: "tags", Type: schema.ValueTypeArray},
		schema.Definition{Name: "tags.$", Type: schema.ValueTypeScalar, AllowedValues: []string{"go", "rust"}},
	)
}

func serve(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var payload response
	if rec.Code == http.StatusOK && method == http.MethodGet {
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("expected JSON content-type, got %q", ct)
		}
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec, payload
}

func TestHandlerReturnsAllOptionsForEmptyQuery(t *testing.T) {
	_, payload := serve(t, Handler(testSchema(), WithTransform(strings.ToUpper)), http.MethodGet, "/api/options?field=city")

	want := []responseOption{
		{Value: "paris", Label: "PARIS"},
		{Value: "berlin", Label: "BERLIN"},
		{Value: "parma", Label: "PARMA"},
		{Value: "lyon", Label: "LYON"},
	}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlerEmptySearchNone(t *testing.T) {
	_, payload := serve(t, Handler(testSchema(), WithEmptySearchMode(EmptySearchNone)), http.MethodGet, "/api/options?field=city")
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected empty data array, got %#v", payload.Data)
	}
}

func TestHandlerSearchPrefersPrefixAndClampsLimit(t *testing.T) {
	h := Handler(testSchema(), WithMaxLimit(2))
	_, payload := serve(t, h, http.MethodGet, "/api/options?field=city&q=AR&limit=10")

	// "paris" and "parma" contain "ar" but neither starts with it.
	want := []responseOption{{Value: "paris", Label: "paris"}, {Value: "parma", Label: "parma"}}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	_, payload = serve(t, h, http.MethodGet, "/api/options?field=city&q=r")
	if payload.Data[0].Value != "paris" || payload.Data[1].Value != "berlin" {
		t.Fatalf("expected allowed-value order for infix matches, got %#v", payload.Data)
	}

	_, payload = serve(t, Handler(testSchema()), http.MethodGet, "/api/options?field=city&q=ly")
	if len(payload.Data) != 1 || payload.Data[0].Value != "lyon" {
		t.Fatalf("unexpected results %#v", payload.Data)
	}
}

func TestHandlerArrayFieldUsesItemValues(t *testing.T) {
	_, payload := serve(t, Handler(testSchema()), http.MethodGet, "/api/options?field=tags")
	want := []responseOption{{Value: "go", Label: "go"}, {Value: "rust", Label: "rust"}}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlerStatusCodes(t *testing.T) {
	h := Handler(testSchema())
	cases := map[string]struct {
		method string
		target string
		code   int
	}{
		"missing field": {http.MethodGet, "/api/options", http.StatusBadRequest},
		"unknown field": {http.MethodGet, "/api/options?field=size", http.StatusNotFound},
		"head":          {http.MethodHead, "/api/options?field=city", http.StatusOK},
		"post":          {http.MethodPost, "/api/options?field=city", http.StatusMethodNotAllowed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _ := serve(t, h, tc.method, tc.target)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}

	rec, _ := serve(t, Handler(nil), http.MethodGet, "/api/options?field=city")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a bridge, got %d", rec.Code)
	}
}

func TestHandlerGuard(t *testing.T) {
	deny := Handler(testSchema(), WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("login required")}
	}))
	rec, _ := serve(t, deny, http.MethodGet, "/api/options?field=city")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	plain := Handler(testSchema(), WithGuard(func(*http.Request) error { return errors.New("nope") }))
	rec, _ = serve(t, plain, http.MethodGet, "/api/options?field=city")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestMountPathJoinsBasePath(t *testing.T) {
	if got := MountPath("/admin"); got != "/admin/api/options" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("admin/", WithRoutePath("choices")); got != "/admin/choices" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestComponentRegistersRoutes(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := New(testSchema(), WithRoutePath("/opts")).RegisterRoutes(mux, "/admin")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pattern != "/admin/opts" {
		t.Fatalf("unexpected pattern %q", pattern)
	}

	_, payload := serve(t, mux, http.MethodGet, pattern+"?field=city&limit=1")
	if len(payload.Data) != 1 || payload.Data[0].Value != "paris" {
		t.Fatalf("unexpected results %#v", payload.Data)
	}

	if _, err := RegisterRoutes(nil, "/", http.NotFoundHandler()); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
