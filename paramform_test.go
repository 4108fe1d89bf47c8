package paramform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/navigation"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/testsupport"
)

func TestMount_ActivatesThroughNavigator(t *testing.T) {
	recorder := &navigation.Recorder{}
	page := testsupport.Page("js-add-slice-container", `{"a": "1", "b": "2"}`)

	result, err := Mount(context.Background(), strings.NewReader(page), "", WithFormOptions(form.WithNavigator(recorder)))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if result.Failed || len(result.View.Widgets) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := result.Component.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if diff := testsupport.CompareGolden([]string{"/runscript/view?a=1&b=2"}, recorder.Targets()); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestMount_MissingElement(t *testing.T) {
	result, err := Mount(context.Background(), strings.NewReader(testsupport.Page("", "")), "vanilla")
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if !result.Failed || result.Component != nil {
		t.Fatalf("expected failed result, got %+v", result)
	}
}

func TestMountSet(t *testing.T) {
	set := params.MustNew(params.Parameter{Key: "name", Value: params.String("nightly")})
	result, err := MountSet(context.Background(), set, "vanilla")
	if err != nil {
		t.Fatalf("mount set: %v", err)
	}
	if !strings.Contains(string(result.Output), `value="nightly"`) {
		t.Fatalf("unexpected output:\n%s", result.Output)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
	data, err := fs.ReadFile(AssetsFS(), "paramform.css")
	if err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
	if !strings.Contains(string(data), ".paramform") {
		t.Fatalf("unexpected stylesheet contents")
	}
}
