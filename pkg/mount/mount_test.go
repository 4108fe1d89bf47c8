package mount_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-paramform/pkg/bootstrap"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/i18n"
	"github.com/goliatone/go-paramform/pkg/mount"
	"github.com/goliatone/go-paramform/pkg/navigation"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/testsupport"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func widgetKeys(view form.View) []string {
	keys := make([]string, 0, len(view.Widgets))
	for _, widget := range view.Widgets {
		keys = append(keys, widget.Key)
	}
	return keys
}

func TestMount_OneWidgetPerKeyInPayloadOrder(t *testing.T) {
	payloads := map[string][]string{
		`{}`:                                   {},
		`{"a": "1"}`:                           {"a"},
		`{"z": "1", "y": 2, "x": true}`:        {"z", "y", "x"},
		`{"b": "", "a": null, "c": "x"}`:       {"b", "a", "c"},
		`{"k1": 1, "k2": 2, "k3": 3, "k0": 0}`: {"k1", "k2", "k3", "k0"},
	}
	mounter := mount.New(mount.WithLogger(quietLogger()))

	for payload, want := range payloads {
		page := testsupport.Page(bootstrap.DefaultElementID, payload)
		result, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{})
		if err != nil {
			t.Fatalf("mount %s: %v", payload, err)
		}
		if result.Failed {
			t.Fatalf("mount %s failed: %v", payload, result.Err)
		}
		if diff := cmp.Diff(want, widgetKeys(result.View)); diff != "" {
			t.Fatalf("widgets for %s mismatch (-want +got):\n%s", payload, diff)
		}
		if got := strings.Count(string(result.Output), `class="paramform__field"`); got != len(want) {
			t.Fatalf("expected %d rendered widgets for %s, got %d", len(want), payload, got)
		}
	}
}

func TestMount_MissingElementShowsErrorState(t *testing.T) {
	mounter := mount.New(mount.WithLogger(quietLogger()))
	page := testsupport.Page("", "")

	result, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if !result.Failed || !errors.Is(result.Err, bootstrap.ErrElementNotFound) {
		t.Fatalf("expected element not found, got %+v", result.Err)
	}
	if result.Component != nil || len(result.View.Widgets) != 0 {
		t.Fatalf("no widgets may render on failure")
	}
	out := string(result.Output)
	if !strings.Contains(out, `data-error-kind="element_not_found"`) || strings.Contains(out, "<button") {
		t.Fatalf("unexpected error output:\n%s", out)
	}
}

func TestMount_InvalidJSONIsParseError(t *testing.T) {
	mounter := mount.New(mount.WithLogger(quietLogger()))
	page := testsupport.Page(bootstrap.DefaultElementID, "{not json")

	result, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if !result.Failed || !errors.Is(result.Err, bootstrap.ErrParse) {
		t.Fatalf("expected parse error, got %+v", result.Err)
	}
	if result.ErrorView.Kind != render.ErrorKindParse {
		t.Fatalf("unexpected error kind %s", result.ErrorView.Kind)
	}
}

func TestMount_CompositeValueIsRenderError(t *testing.T) {
	mounter := mount.New(mount.WithLogger(quietLogger()))
	page := testsupport.Page(bootstrap.DefaultElementID, `{"a": "1", "list": [1, 2]}`)

	result, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if !result.Failed || !errors.Is(result.Err, form.ErrRender) {
		t.Fatalf("expected render error, got %+v", result.Err)
	}
	if result.Params.Len() != 2 {
		t.Fatalf("parameters should be reported even on render failure")
	}
}

func TestMount_LabelsFromTranslation(t *testing.T) {
	catalog := i18n.NewCatalog("en")
	catalog.Add("en", map[string]string{"a": "Alpha", "b": "Beta", "Run Script": "Execute"})
	mounter := mount.New(mount.WithLogger(quietLogger()), mount.WithTranslator(catalog))
	page := testsupport.Page(bootstrap.DefaultElementID, `{"a": "1", "b": "2"}`)

	result, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{Locale: "en"})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	want := form.View{
		Title: "Execute",
		Widgets: []form.Widget{
			{Key: "a", Label: "Alpha", Value: "1", InputType: form.InputText},
			{Key: "b", Label: "Beta", Value: "2", InputType: form.InputText},
		},
		Action: form.Action{Label: "Execute", Enabled: true},
	}
	if diff := cmp.Diff(want, result.View); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
}

func TestMount_ActivationNavigatesOnce(t *testing.T) {
	recorder := &navigation.Recorder{}
	mounter := mount.New(mount.WithLogger(quietLogger()))
	page := testsupport.Page(bootstrap.DefaultElementID, `{"a": "1", "b": "2"}`)

	result, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{
		FormOptions: []form.Option{form.WithNavigator(recorder)},
	})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	for i := 0; i < 3; i++ {
		_, _ = result.Component.Activate(context.Background())
	}
	if diff := cmp.Diff([]string{"/runscript/view?a=1&b=2"}, recorder.Targets()); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestMount_EnvelopeCarriesLocaleAndFlash(t *testing.T) {
	catalog := i18n.NewCatalog("en")
	catalog.Add("pt", map[string]string{"a": "Primeiro"})
	mounter := mount.New(
		mount.WithLogger(quietLogger()),
		mount.WithEnvelope(),
		mount.WithTranslator(catalog),
	)

	raw, err := bootstrap.Encode(bootstrap.Envelope{
		Params:        params.MustNew(params.Parameter{Key: "a", Value: params.String("1")}),
		Locale:        "pt_BR",
		FlashMessages: []bootstrap.FlashMessage{{Category: "info", Message: "Bem-vindo"}},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	page := testsupport.Page(bootstrap.DefaultElementID, raw)

	result, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if result.View.Widgets[0].Label != "Primeiro" {
		t.Fatalf("expected envelope locale to drive labels, got %q", result.View.Widgets[0].Label)
	}
	if !strings.Contains(string(result.Output), "Bem-vindo") {
		t.Fatalf("expected flash message in output:\n%s", result.Output)
	}
}

func TestMount_ThemeSelection(t *testing.T) {
	themes := render.NewThemes("acme", "")
	if err := themes.Add(&theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
	}); err != nil {
		t.Fatalf("add theme: %v", err)
	}
	mounter := mount.New(mount.WithLogger(quietLogger()), mount.WithThemeSelector(themes))
	page := testsupport.Page(bootstrap.DefaultElementID, `{"a": "1"}`)

	result, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if !strings.Contains(string(result.Output), `--brand: #123456;`) {
		t.Fatalf("expected theme css vars:\n%s", result.Output)
	}

	if _, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{ThemeName: "missing"}); !errors.Is(err, render.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func TestMount_UnknownRendererIsError(t *testing.T) {
	mounter := mount.New(mount.WithLogger(quietLogger()))
	page := testsupport.Page(bootstrap.DefaultElementID, `{"a": "1"}`)

	_, err := mounter.Mount(context.Background(), strings.NewReader(page), mount.Request{Renderer: "nope"})
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestMountSet(t *testing.T) {
	mounter := mount.New(mount.WithLogger(quietLogger()))
	set := params.MustNew(params.Parameter{Key: "only", Value: params.String("x")})

	result, err := mounter.MountSet(context.Background(), set, mount.Request{})
	if err != nil {
		t.Fatalf("mount set: %v", err)
	}
	if diff := cmp.Diff([]string{"only"}, widgetKeys(result.View)); diff != "" {
		t.Fatalf("widgets mismatch (-want +got):\n%s", diff)
	}
}
