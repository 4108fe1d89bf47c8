// Package config loads the paramform YAML configuration and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-paramform/internal/logging"
	"github.com/goliatone/go-paramform/pkg/navigation"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/predicate"
	"github.com/goliatone/go-paramform/pkg/predicate/expr"
	"github.com/goliatone/go-paramform/pkg/predicate/script"
)

// Environment overrides.
const (
	EnvConfig = "PARAMFORM_CONFIG"
	EnvAddr   = "PARAMFORM_ADDR"
	EnvLocale = "PARAMFORM_LOCALE"
)

const (
	DefaultAddr            = ":8080"
	DefaultLocale          = "en"
	DefaultSessionLifetime = 30 * time.Minute
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the root document.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Form   FormConfig   `yaml:"form"`
	I18n   I18nConfig   `yaml:"i18n"`
	Log    LogConfig    `yaml:"log"`
	Themes ThemesConfig `yaml:"themes"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	SessionLifetime time.Duration `yaml:"session_lifetime"`
	SecureCookie    bool          `yaml:"secure_cookie"`
}

// FormConfig describes the parameter set served by the page and how the
// action is enabled and targeted.
type FormConfig struct {
	Title        string `yaml:"title"`
	ActionLabel  string `yaml:"action_label"`
	Target       string `yaml:"target"`
	PathTemplate string `yaml:"path_template"`
	SkipEmpty    bool   `yaml:"skip_empty"`
	// Required keys must be non-empty. Empty means every parameter.
	Required []string `yaml:"required"`
	// Rule is an expression predicate, e.g. `retries > 0 && script`.
	Rule string `yaml:"rule"`
	// Script is a JavaScript predicate evaluated with a params object.
	Script string `yaml:"script"`
	// Params is kept as a node so mapping order survives decoding.
	Params yaml.Node `yaml:"params"`
}

type I18nConfig struct {
	Locale string `yaml:"locale"`
	Dir    string `yaml:"dir"`
	Watch  bool   `yaml:"watch"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ThemesConfig struct {
	Default   string          `yaml:"default"`
	Variant   string          `yaml:"variant"`
	Manifests []ThemeManifest `yaml:"manifests"`
}

// ThemeManifest is the YAML shape of a go-theme manifest.
type ThemeManifest struct {
	Name      string                  `yaml:"name"`
	Version   string                  `yaml:"version"`
	Tokens    map[string]string       `yaml:"tokens"`
	Templates map[string]string       `yaml:"templates"`
	Assets    ThemeAssets             `yaml:"assets"`
	Variants  map[string]ThemeVariant `yaml:"variants"`
}

type ThemeAssets struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type ThemeVariant struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    ThemeAssets       `yaml:"assets"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			SessionLifetime: DefaultSessionLifetime,
		},
		Form: FormConfig{
			Target: navigation.DefaultBase,
		},
		I18n: I18nConfig{Locale: DefaultLocale},
		Log:  LogConfig{Level: "info", Format: string(logging.FormatText)},
	}
}

// Load reads path, or the file named by PARAMFORM_CONFIG when path is empty.
// Without either, Default is used. Environment overrides are applied last.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = os.Getenv(EnvConfig)
	}
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv applies PARAMFORM_ADDR, PARAMFORM_LOCALE and PARAMFORM_DEBUG.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		return
	}
	if addr := strings.TrimSpace(getenv(EnvAddr)); addr != "" {
		c.Server.Addr = addr
	}
	if locale := strings.TrimSpace(getenv(EnvLocale)); locale != "" {
		c.I18n.Locale = locale
	}
	if getenv(logging.DebugEnv) != "" {
		c.Log.Level = "debug"
	}
}

// Validate checks the parameter block, predicates and theme references.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Server.Addr) == "" {
		problems = append(problems, "server.addr is required")
	}
	if c.Server.SessionLifetime < 0 {
		problems = append(problems, "server.session_lifetime must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", string(logging.FormatText), string(logging.FormatJSON):
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not text or json", c.Log.Format))
	}
	if _, err := c.Form.ParamSet(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := c.Form.Predicate(nil); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Form.PathTemplate != "" && !strings.HasPrefix(strings.TrimSpace(c.Form.PathTemplate), "/") {
		problems = append(problems, "form.path_template must be an absolute path")
	}

	seen := make(map[string]struct{}, len(c.Themes.Manifests))
	for i, m := range c.Themes.Manifests {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			problems = append(problems, fmt.Sprintf("themes.manifests[%d].name is required", i))
			continue
		}
		if _, dup := seen[name]; dup {
			problems = append(problems, fmt.Sprintf("theme %q declared twice", name))
		}
		seen[name] = struct{}{}
	}
	if def := strings.TrimSpace(c.Themes.Default); def != "" {
		if _, ok := seen[def]; !ok {
			problems = append(problems, fmt.Sprintf("themes.default %q is not declared", def))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// ParamSet converts the params mapping into an ordered set. Values must be
// scalars.
func (f FormConfig) ParamSet() (params.Set, error) {
	node := &f.Params
	if node.Kind == 0 {
		return params.Set{}, nil
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return params.Set{}, fmt.Errorf("form.params must be a mapping (line %d)", node.Line)
	}

	entries := make([]params.Parameter, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		key := strings.TrimSpace(keyNode.Value)
		if key == "" {
			return params.Set{}, fmt.Errorf("form.params: line %d: key is required", keyNode.Line)
		}
		value, err := scalarValue(valueNode)
		if err != nil {
			return params.Set{}, fmt.Errorf("form.params.%s: %w", key, err)
		}
		entries = append(entries, params.Parameter{Key: key, Value: value})
	}
	set, err := params.New(entries...)
	if err != nil {
		return params.Set{}, fmt.Errorf("form.params: %w", err)
	}
	return set, nil
}

func scalarValue(node *yaml.Node) (params.Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return params.Value{}, fmt.Errorf("line %d: value must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		return params.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return params.Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return params.Bool(b), nil
	case "!!int", "!!float":
		value, err := numberValue(node)
		if err != nil {
			return params.Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value, nil
	default:
		return params.String(node.Value), nil
	}
}

// numberValue keeps YAML numbers that are already JSON literals verbatim and
// normalizes the other YAML spellings (0x1F, 0o17, 1_000) through yaml
// decoding. Infinity and NaN have no JSON form.
func numberValue(node *yaml.Node) (params.Value, error) {
	if value, err := params.Number(node.Value); err == nil {
		return value, nil
	}
	if node.ShortTag() == "!!int" {
		var i int64
		if err := node.Decode(&i); err == nil {
			return params.FromAny(i)
		}
		var u uint64
		if err := node.Decode(&u); err == nil {
			return params.Number(strconv.FormatUint(u, 10))
		}
		return params.Value{}, fmt.Errorf("unsupported integer %q", node.Value)
	}
	var f float64
	if err := node.Decode(&f); err != nil {
		return params.Value{}, fmt.Errorf("unsupported number %q: %w", node.Value, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return params.Value{}, fmt.Errorf("unsupported number %q: infinity and NaN are not allowed", node.Value)
	}
	return params.FromAny(f)
}

// Predicate combines the required keys, rule and script into one predicate.
func (f FormConfig) Predicate(logger *slog.Logger) (predicate.Predicate, error) {
	parts := []predicate.Predicate{predicate.AllPresent(f.Required...)}
	if rule := strings.TrimSpace(f.Rule); rule != "" {
		p, err := expr.Predicate(rule, logger)
		if err != nil {
			return nil, fmt.Errorf("form.rule: %w", err)
		}
		parts = append(parts, p)
	}
	if src := strings.TrimSpace(f.Script); src != "" {
		p, err := script.Predicate(src, script.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("form.script: %w", err)
		}
		parts = append(parts, p)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return predicate.All(parts...), nil
}

// TargetBuilder returns a PathTemplate builder when path_template is set and
// a Query builder on target otherwise.
func (f FormConfig) TargetBuilder() navigation.TargetBuilder {
	if pattern := strings.TrimSpace(f.PathTemplate); pattern != "" {
		return navigation.PathTemplate{Pattern: pattern}
	}
	return navigation.Query{Base: f.Target, SkipEmpty: f.SkipEmpty}
}

// ToManifests converts the declared themes into go-theme manifests.
func (t ThemesConfig) ToManifests() []*theme.Manifest {
	out := make([]*theme.Manifest, 0, len(t.Manifests))
	for _, m := range t.Manifests {
		manifest := &theme.Manifest{
			Name:      strings.TrimSpace(m.Name),
			Version:   m.Version,
			Tokens:    m.Tokens,
			Templates: m.Templates,
			Assets:    theme.Assets{Prefix: m.Assets.Prefix, Files: m.Assets.Files},
		}
		if len(m.Variants) > 0 {
			manifest.Variants = make(map[string]theme.Variant, len(m.Variants))
			for name, v := range m.Variants {
				manifest.Variants[name] = theme.Variant{
					Tokens:    v.Tokens,
					Templates: v.Templates,
					Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
				}
			}
		}
		out = append(out, manifest)
	}
	return out
}
