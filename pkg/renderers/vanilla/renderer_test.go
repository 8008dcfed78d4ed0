package vanilla_test

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-selectfield/pkg/form"
	"github.com/goliatone/go-selectfield/pkg/render"
	"github.com/goliatone/go-selectfield/pkg/renderers/vanilla"
	"github.com/goliatone/go-selectfield/pkg/schema"
	"github.com/goliatone/go-selectfield/pkg/selectfield"
	"github.com/goliatone/go-selectfield/pkg/testsupport"
)

func newRenderer(t *testing.T, options ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderHTML(t *testing.T, renderer *vanilla.Renderer, fc form.Context, props selectfield.Props) string {
	t.Helper()
	out, err := renderer.Render(testsupport.Context(), selectfield.Render(fc, props), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, html)
		}
	}
}

func TestRendererMetadata(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderDropdown(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), map[string]any{"x": "b"}, nil)
	html := renderHTML(t, newRenderer(t), fc, selectfield.Props{
		Name:        "x",
		Label:       "y",
		Required:    selectfield.Bool(true),
		Placeholder: "Pick one",
		Attrs:       map[string]string{"data-x": "x"},
	})

	assertContains(t, html,
		`data-mode="dropdown"`,
		`data-x="x"`,
		`<label for="fg-x" class="selectfield-label">y *</label>`,
		`<select id="fg-x" name="x" class="selectfield-control" aria-required="true">`,
		`<option value="Pick one">Pick one</option>`,
		`<option value="a">a</option>`,
		`<option value="b" selected>b</option>`,
	)
}

func TestRenderDropdownPlaceholderSelectedWhenEmpty(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t), fc, selectfield.Props{Name: "x", Placeholder: "Pick one"})

	assertContains(t, html, `<option value="Pick one" selected>Pick one</option>`)
	assertNotContains(t, html, `<label`)
}

func TestRenderDropdownTransform(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t), fc, selectfield.Props{
		Name:      "x",
		Transform: strings.ToUpper,
	})
	assertContains(t, html, `<option value="a">A</option>`, `<option value="b">B</option>`)
}

func TestRenderCheckboxesScalar(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), map[string]any{"x": "a"}, nil)
	html := renderHTML(t, newRenderer(t), fc, selectfield.Props{Name: "x", Checkboxes: true, Label: "y"})

	assertContains(t, html,
		`data-mode="checkboxes"`,
		`role="radiogroup"`,
		`<label class="selectfield-label">y</label>`,
		`<input type="radio" id="fg-x-a" name="x" value="a" checked>`,
		`<input type="radio" id="fg-x-b" name="x" value="b">`,
		`<label for="fg-x-a">a</label>`,
	)
	assertNotContains(t, html, `<select`)
}

func TestRenderCheckboxesArrayDisabled(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ArraySchema(), map[string]any{"x": []any{"a", "b"}}, nil)
	html := renderHTML(t, newRenderer(t), fc, selectfield.Props{
		Name:       "x",
		Checkboxes: true,
		Disabled:   true,
	})

	assertContains(t, html,
		`class="selectfield selectfield-disabled"`,
		`role="group"`,
		`<input type="checkbox" id="fg-x-a" name="x" value="a" checked disabled>`,
		`<input type="checkbox" id="fg-x-b" name="x" value="b" checked disabled>`,
	)
}

func TestRenderErrors(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	fc.Errors = map[string][]string{"x": {"is required"}}
	html := renderHTML(t, newRenderer(t), fc, selectfield.Props{Name: "x"})

	assertContains(t, html,
		`aria-invalid="true"`,
		`<ul class="selectfield-errors" role="alert">`,
		`<li>is required</li>`,
	)
}

func TestRenderKeepsMarkupLikeTextVerbatim(t *testing.T) {
	bridge := schema.New(schema.Definition{
		Name:          "size",
		Type:          schema.ValueTypeScalar,
		AllowedValues: []string{"<none>", "a&b", "x<y>z"},
	})
	fc := testsupport.NewContext(bridge, nil, nil)
	html := renderHTML(t, newRenderer(t), fc, selectfield.Props{
		Name:        "size",
		Label:       "Size <cm>",
		Placeholder: "<pick>",
	})

	assertContains(t, html,
		`class="selectfield-label">Size &lt;cm&gt;</label>`,
		`<option value="&lt;pick&gt;" selected>&lt;pick&gt;</option>`,
		`<option value="&lt;none&gt;">&lt;none&gt;</option>`,
		`<option value="a&amp;b">a&amp;b</option>`,
		`<option value="x&lt;y&gt;z">x&lt;y&gt;z</option>`,
	)
	assertNotContains(t, html, "<none>", "<cm>")

	checkboxes := renderHTML(t, newRenderer(t), fc, selectfield.Props{Name: "size", Checkboxes: true})
	assertContains(t, checkboxes, `<label for="fg-size-x&lt;y&gt;z">x&lt;y&gt;z</label>`)
}

func TestRenderSanitizerStripsMarkup(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t, vanilla.WithSanitizer(bluemonday.StrictPolicy())), fc, selectfield.Props{
		Name:  "x",
		Label: `<script>alert(1)</script>Pick & choose`,
	})

	assertNotContains(t, html, "<script>", "alert", "&amp;amp;")
	assertContains(t, html, `Pick &amp; choose</label>`)
}

func TestRenderWithoutSanitizerEscapes(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t, vanilla.WithSanitizer(nil)), fc, selectfield.Props{
		Name:  "x",
		Label: `<b>bold</b>`,
	})
	assertContains(t, html, `&lt;b&gt;bold&lt;/b&gt;`)
}

func TestRenderCustomSanitizer(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t, vanilla.WithSanitizer(bluemonday.UGCPolicy())), fc, selectfield.Props{
		Name:  "x",
		Label: `<b onclick="steal()">bold</b>`,
	})
	assertNotContains(t, html, "steal")
	assertContains(t, html, `&lt;b&gt;bold&lt;/b&gt;`)
}

func TestRenderSkipsInvalidAttrNames(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t), fc, selectfield.Props{
		Name:  "x",
		Attrs: map[string]string{`bad" onclick="x`: "1", "data-ok": `"quoted"`},
	})
	assertNotContains(t, html, "onclick")
	assertContains(t, html, `data-ok="&quot;quoted&quot;"`)
}

func TestRenderMergesForwardedWrapperAttrs(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t), fc, selectfield.Props{
		Name:  "x",
		Attrs: map[string]string{"class": "c", "data-mode": "mine", "data-x": "1"},
	})

	assertContains(t, html, `<div class="selectfield c" data-component="selectfield" data-mode="mine" data-x="1">`)
	if strings.Count(html, `class="selectfield`) != 1 || strings.Count(html, "data-mode=") != 1 {
		t.Fatalf("expected each wrapper attribute once in\n%s", html)
	}

	themed := renderHTML(t, newRenderer(t, vanilla.WithTheme(&theme.RendererConfig{
		Theme:   "acme",
		CSSVars: map[string]string{"--brand": "#123456"},
	})), fc, selectfield.Props{
		Name:  "x",
		Attrs: map[string]string{"style": "margin: 0", "data-theme": "other"},
	})
	assertContains(t, themed, `data-theme="other" style="--brand: #123456; margin: 0">`)
	if strings.Count(themed, "style=") != 1 {
		t.Fatalf("expected a single style attribute in\n%s", themed)
	}
}

func TestRenderTheme(t *testing.T) {
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{
			"--brand":  "#123456",
			"--accent": "#abcdef",
		},
	}
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t, vanilla.WithTheme(cfg)), fc, selectfield.Props{Name: "x"})

	assertContains(t, html,
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		`style="--accent: #abcdef; --brand: #123456"`,
	)
}

func TestRenderOptionsThemeOverridesConfigured(t *testing.T) {
	configured := &theme.RendererConfig{Theme: "acme"}
	perRequest := &theme.RendererConfig{Theme: "globex", Variant: "light"}

	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	out, err := newRenderer(t, vanilla.WithTheme(configured)).Render(
		testsupport.Context(),
		selectfield.Render(fc, selectfield.Props{Name: "x"}),
		render.RenderOptions{Theme: perRequest},
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), `data-theme="globex"`, `data-theme-variant="light"`)
	assertNotContains(t, string(out), "acme")
}

func TestRenderThemePartialOverride(t *testing.T) {
	files := fstest.MapFS{}
	for _, name := range []string{"templates/wrapper.tpl", "templates/select.tpl", "templates/checkboxes.tpl"} {
		data := mustReadTemplate(t, name)
		files[name] = &fstest.MapFile{Data: data}
	}
	files["acme/select.tpl"] = &fstest.MapFile{Data: []byte(`<acme-select name="{{ name }}"></acme-select>`)}

	cfg := &theme.RendererConfig{
		Theme:    "acme",
		Partials: map[string]string{vanilla.PartialSelect: "acme/select.tpl"},
	}
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t, vanilla.WithTemplatesFS(files), vanilla.WithTheme(cfg)), fc, selectfield.Props{Name: "x"})

	assertContains(t, html, `<acme-select name="x"></acme-select>`, `data-component="selectfield"`)
	assertNotContains(t, html, "<select")
}

func TestRenderChromeClassOverride(t *testing.T) {
	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	html := renderHTML(t, newRenderer(t, vanilla.WithChromeClass(vanilla.ClassControl, "form-select")), fc, selectfield.Props{Name: "x"})
	assertContains(t, html, `class="form-select"`)
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fc := testsupport.NewContext(testsupport.ScalarSchema(), nil, nil)
	_, err := newRenderer(t).Render(ctx, selectfield.Render(fc, selectfield.Props{Name: "x"}), render.RenderOptions{})
	if err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRenderRejectsDropdownWithoutControl(t *testing.T) {
	_, err := newRenderer(t).Render(testsupport.Context(), selectfield.View{Name: "x", Mode: selectfield.ModeDropdown}, render.RenderOptions{})
	if err == nil {
		t.Fatalf("expected error for missing dropdown control")
	}
}

func mustReadTemplate(t *testing.T, name string) []byte {
	t.Helper()
	data, err := fs.ReadFile(vanilla.TemplatesFS(), name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

func TestRenderGolden(t *testing.T) {
	cases := map[string]struct {
		fc    form.Context
		props selectfield.Props
	}{
		"dropdown": {
			fc:    testsupport.NewContext(testsupport.ScalarSchema(), map[string]any{"x": "a"}, nil),
			props: selectfield.Props{Name: "x", Placeholder: "none"},
		},
		"checkboxes": {
			fc:    testsupport.NewContext(testsupport.ArraySchema(), map[string]any{"x": []string{"b"}}, nil),
			props: selectfield.Props{Name: "x", Label: "Tags", Checkboxes: true},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			html := renderHTML(t, newRenderer(t), tc.fc, tc.props)
			path := filepath.Join("testdata", name+".golden.html")
			if testsupport.WriteMaybeGolden(t, path, []byte(html)) {
				return
			}
			if diff := testsupport.CompareGolden(testsupport.MustReadGoldenString(t, path), html); diff != "" {
				t.Fatalf("golden mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
