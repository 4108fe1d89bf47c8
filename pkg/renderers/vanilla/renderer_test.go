package vanilla_test

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-paramform/pkg/bootstrap"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/renderers/vanilla"
)

func newRenderer(t *testing.T, options ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func sampleView(enabled bool) form.View {
	return form.View{
		Title: "Run Script",
		Widgets: []form.Widget{
			{Key: "b", Label: "Second", Value: "2", InputType: form.InputText},
			{Key: "a", Label: "First", Value: "1", InputType: form.InputNumber},
		},
		Action: form.Action{Label: "Run Script", Enabled: enabled},
	}
}

func TestRender_WidgetsInOrder(t *testing.T) {
	renderer := newRenderer(t)

	out, err := renderer.Render(context.Background(), sampleView(true), render.RenderOptions{FormAction: "/runscript/activate"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if got := strings.Count(html, `class="paramform__field"`); got != 2 {
		t.Fatalf("expected 2 widgets, got %d:\n%s", got, html)
	}
	second := strings.Index(html, `data-param="b"`)
	first := strings.Index(html, `data-param="a"`)
	if second < 0 || first < 0 || second > first {
		t.Fatalf("widgets not rendered in view order:\n%s", html)
	}
	for _, want := range []string{
		`<h3>Run Script</h3>`,
		`<label for="pf-b">Second</label>`,
		`<input id="pf-b" type="text" name="b" value="2">`,
		`<input id="pf-a" type="number" name="a" value="1" step="any">`,
		`action="/runscript/activate"`,
		`method="POST"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
	if strings.Contains(html, "disabled") {
		t.Fatalf("enabled action must not be disabled:\n%s", html)
	}
}

func TestRender_DisabledAction(t *testing.T) {
	renderer := newRenderer(t)

	out, err := renderer.Render(context.Background(), sampleView(false), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `disabled aria-disabled="true"`) {
		t.Fatalf("expected disabled action:\n%s", out)
	}
}

func TestRender_EscapesAndExtras(t *testing.T) {
	renderer := newRenderer(t)
	view := form.View{
		Title: "Run Script",
		Widgets: []form.Widget{
			{Key: "q", Label: "<script>x</script>", Value: `"quoted"`, InputType: form.InputText},
			{Key: "dry_run", Label: "Dry run", Value: "true", InputType: form.InputCheckbox, Checked: true},
		},
		Action: form.Action{Label: "Go", Enabled: true},
	}

	out, err := renderer.Render(context.Background(), view, render.RenderOptions{
		Hidden: []render.HiddenField{render.ActivationToken("tok")},
		Flash:  []string{"Saved"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if strings.Contains(html, "<script>") {
		t.Fatalf("label must be escaped:\n%s", html)
	}
	for _, want := range []string{
		`<input type="hidden" name="activation_token" value="tok">`,
		`<p class="paramform__flash" role="status">Saved</p>`,
		`type="checkbox" name="dry_run" value="true" checked>`,
		`<input type="hidden" name="dry_run" value="false">`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestRender_ThemeStyle(t *testing.T) {
	renderer := newRenderer(t)
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--brand": "#654321"},
	}

	out, err := renderer.Render(context.Background(), sampleView(true), render.RenderOptions{Theme: cfg})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `class="paramform paramform--dark"`) {
		t.Fatalf("expected variant class:\n%s", html)
	}
	if !strings.Contains(html, `style="--brand: #654321;"`) {
		t.Fatalf("expected css vars:\n%s", html)
	}
}

func TestRenderError_ReplacesForm(t *testing.T) {
	renderer := newRenderer(t, vanilla.WithDebug(true))
	view := render.DescribeError(&bootstrap.ElementNotFoundError{ID: "js-add-slice-container"})

	out, err := renderer.RenderError(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `data-error-kind="element_not_found"`) {
		t.Fatalf("missing error kind:\n%s", html)
	}
	if !strings.Contains(html, "#js-add-slice-container") {
		t.Fatalf("missing message:\n%s", html)
	}
	if !strings.Contains(html, `class="paramform__detail"`) {
		t.Fatalf("debug mode should include detail:\n%s", html)
	}
	if strings.Contains(html, "<button") || strings.Contains(html, "<form") {
		t.Fatalf("error state must not contain the action control:\n%s", html)
	}
}

func TestRenderPage_EmbedsReadableBootstrap(t *testing.T) {
	renderer := newRenderer(t)
	set := params.MustNew(
		params.Parameter{Key: "name", Value: params.String(`daily "sync" <now>`)},
		params.Parameter{Key: "count", Value: params.Bool(true)},
	)
	payload, err := set.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, err := renderer.RenderPage(context.Background(), vanilla.Page{
		Title:     "Run Script",
		MountID:   bootstrap.DefaultElementID,
		Bootstrap: string(payload),
		Body:      []byte(`<p class="marker">body</p>`),
	}, render.RenderOptions{Locale: "pt_BR"})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `<html lang="pt-BR">`) {
		t.Fatalf("expected lang attribute:\n%s", html)
	}
	if !strings.Contains(html, `<p class="marker">body</p>`) {
		t.Fatalf("body must be embedded unescaped:\n%s", html)
	}

	read, err := bootstrap.Read(context.Background(), bytes.NewReader(out))
	if err != nil {
		t.Fatalf("read bootstrap back: %v", err)
	}
	if diff := cmp.Diff(set.Keys(), read.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	got, _ := read.Get("name")
	if got.String() != `daily "sync" <now>` {
		t.Fatalf("unexpected value %q", got.String())
	}
}

func TestRenderSummary(t *testing.T) {
	renderer := newRenderer(t)
	out, err := renderer.RenderSummary(context.Background(), "Resolved", []form.Widget{{Key: "a", Label: "First", Value: "1"}}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(string(out), `<dt>First</dt><dd data-param="a">1</dd>`) {
		t.Fatalf("unexpected summary:\n%s", out)
	}

	empty, err := renderer.RenderSummary(context.Background(), "Resolved", nil, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render empty summary: %v", err)
	}
	if !strings.Contains(string(empty), "No parameters.") {
		t.Fatalf("expected empty message:\n%s", empty)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	renderer := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, sampleView(true), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestAssetsFS_Stylesheet(t *testing.T) {
	data, err := fs.ReadFile(vanilla.AssetsFS(), vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(data), ".paramform__action") {
		t.Fatalf("unexpected stylesheet content")
	}
}
