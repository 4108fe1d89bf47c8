package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/goliatone/go-paramform/internal/config"
	"github.com/goliatone/go-paramform/internal/logging"
	"github.com/goliatone/go-paramform/internal/server"
	"github.com/goliatone/go-paramform/pkg/bootstrap"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/i18n"
	"github.com/goliatone/go-paramform/pkg/mount"
	"github.com/goliatone/go-paramform/pkg/navigation"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/renderers/tui"
	"github.com/goliatone/go-paramform/pkg/renderers/vanilla"
)

var (
	errMountFailed  = errors.New("mount failed")
	errNotActivated = errors.New("action not activated")
)

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// newPromptDriver is swapped in tests.
var newPromptDriver = func(out io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(out)
}

// isTerminal reports whether both ends are interactive. Swapped in tests.
var isTerminal = func(in io.Reader, out io.Writer) bool {
	return isFile(in) && isFile(out)
}

func isFile(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type commonFlags struct {
	config string
	page   string
	locale string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "YAML config file (default $"+config.EnvConfig+")")
	fs.StringVar(&c.page, "page", "", "HTML page carrying the bootstrap payload; - reads stdin")
	fs.StringVar(&c.locale, "locale", "", "locale for labels (default from config)")
}

type environment struct {
	cfg     config.Config
	logger  *slog.Logger
	catalog *i18n.Catalog
}

func setup(path string, stderr io.Writer, quiet bool) (environment, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return environment{}, err
	}
	logger := logging.New(stderr, logging.Options{
		Format: logging.Format(cfg.Log.Format),
		Level:  cfg.Log.Level,
		Quiet:  quiet,
	})

	env := environment{cfg: cfg, logger: logger}
	if dir := strings.TrimSpace(cfg.I18n.Dir); dir != "" {
		catalog, err := i18n.LoadFS(os.DirFS(dir), cfg.I18n.Locale)
		if err != nil {
			return environment{}, fmt.Errorf("load language packs: %w", err)
		}
		env.catalog = catalog
	}
	return env, nil
}

func (e environment) locale(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	return e.cfg.I18n.Locale
}

func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file (default $"+config.EnvConfig+")")
	addr := fs.String("addr", "", "listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := setup(*configPath, stderr, false)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*addr) != "" {
		env.cfg.Server.Addr = *addr
	}

	srv, err := server.New(env.cfg, server.WithLogger(env.logger), server.WithCatalog(env.catalog))
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

func runRender(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	rendererName := fs.String("renderer", "", "renderer: vanilla or tui (default: tui on a terminal)")
	output := fs.String("output", "", "output file (stdout if empty)")
	themeName := fs.String("theme", "", "theme name")
	variant := fs.String("variant", "", "theme variant")
	envelope := fs.Bool("envelope", false, "read the payload as an envelope with locale and flash messages")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := setup(common.config, stderr, true)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(*rendererName)
	if name == "" {
		name = "vanilla"
		if *output == "" && isTerminal(stdin, stdout) {
			name = "tui"
		}
	}

	registry := render.NewRegistry()
	web, err := vanilla.New()
	if err != nil {
		return err
	}
	registry.MustRegister(web)
	registry.MustRegister(tui.New(
		tui.WithPromptDriver(newPromptDriver(stderr)),
		tui.WithOutputFormat(tui.OutputFormatPrettyText),
		tui.WithTheme(promptTheme()),
	))

	options, err := env.cfg.MountOptions(env.logger, env.catalog)
	if err != nil {
		return err
	}
	options = append(options, mount.WithRegistry(registry))
	if *envelope {
		options = append(options, mount.WithEnvelope())
	}
	mounter := mount.New(options...)

	req := mount.Request{
		Renderer:     name,
		ThemeName:    *themeName,
		ThemeVariant: *variant,
	}
	if common.locale != "" || !*envelope {
		req.Locale = env.locale(common.locale)
	}

	var result mount.Result
	if common.page != "" {
		page, closePage, err := openPage(common.page, stdin)
		if err != nil {
			return err
		}
		defer closePage()
		result, err = mounter.Mount(ctx, page, req)
		if err != nil {
			return err
		}
	} else {
		set, err := env.cfg.Form.ParamSet()
		if err != nil {
			return err
		}
		result, err = mounter.MountSet(ctx, set, req)
		if err != nil {
			return err
		}
	}

	if result.Failed {
		reportFailure(stderr, result.ErrorView)
	}
	if err := writeOutput(*output, result.Output, stdout, stderr); err != nil {
		return err
	}
	if result.Failed {
		return errMountFailed
	}
	return nil
}

func runPrompt(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("prompt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	format := fs.String("format", string(tui.OutputFormatJSON), "summary format when the action is declined: json or pretty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := setup(common.config, stderr, true)
	if err != nil {
		return err
	}
	locale := env.locale(common.locale)

	set, err := loadSet(ctx, env, common.page, stdin)
	if err != nil {
		if render.IsMountError(err) {
			reportFailure(stderr, render.DescribeError(err))
			return errMountFailed
		}
		return err
	}

	options, err := env.cfg.MountOptions(env.logger, env.catalog)
	if err != nil {
		return err
	}
	mounter := mount.New(options...)

	component, err := mounter.Component(set, locale)
	if err != nil {
		return err
	}
	view, err := component.Render()
	if err != nil {
		reportFailure(stderr, render.DescribeError(err))
		return errMountFailed
	}

	prompter := tui.New(
		tui.WithPromptDriver(newPromptDriver(stderr)),
		tui.WithOutputFormat(tui.OutputFormat(*format)),
		tui.WithTheme(promptTheme()),
	)
	submission, err := prompter.Collect(ctx, view, render.RenderOptions{Locale: locale})
	if err != nil {
		return err
	}

	if !submission.Activate {
		summary, err := prompter.Encode(submission)
		if err != nil {
			return err
		}
		_, _ = stdout.Write(summary)
		fmt.Fprintln(stderr, infoStyle.Render("not activated"))
		return errNotActivated
	}

	edited, err := mounter.Component(submission.Params, locale, form.WithNavigator(navigation.Writer{Out: stdout}))
	if err != nil {
		return err
	}
	if _, err := edited.Activate(ctx); err != nil {
		if errors.Is(err, form.ErrActionDisabled) {
			fmt.Fprintln(stderr, errorStyle.Render("the edited parameters do not enable the action"))
			return errNotActivated
		}
		return err
	}
	return nil
}

func loadSet(ctx context.Context, env environment, page string, stdin io.Reader) (params.Set, error) {
	if page == "" {
		return env.cfg.Form.ParamSet()
	}
	reader, closePage, err := openPage(page, stdin)
	if err != nil {
		return params.Set{}, err
	}
	defer closePage()
	return bootstrap.Read(ctx, reader)
}

func openPage(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open page: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func writeOutput(path string, data []byte, stdout, stderr io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintln(stderr, infoStyle.Render("form written to "+path))
	return nil
}

func reportFailure(w io.Writer, view render.ErrorView) {
	fmt.Fprintln(w, errorStyle.Render(view.Title+": "+view.Message))
}

func promptTheme() tui.Theme {
	return tui.Theme{
		InfoPrefix:  infoStyle.Render("i") + " ",
		ErrorPrefix: errorStyle.Render("x") + " ",
	}
}
