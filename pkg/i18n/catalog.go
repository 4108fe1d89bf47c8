package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a catalog is created without one.
const DefaultLocale = "en"

// Catalog holds language packs keyed by locale. It is safe for concurrent use
// and can be reloaded in place.
type Catalog struct {
	mu            sync.RWMutex
	packs         map[string]map[string]string
	defaultLocale string
}

// NewCatalog returns an empty catalog.
func NewCatalog(defaultLocale string) *Catalog {
	defaultLocale = NormalizeLocale(defaultLocale)
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	return &Catalog{
		packs:         make(map[string]map[string]string),
		defaultLocale: defaultLocale,
	}
}

// LoadFS reads every <locale>.yaml, <locale>.yml or <locale>.json file at the
// root of fsys into a new catalog.
func LoadFS(fsys fs.FS, defaultLocale string) (*Catalog, error) {
	catalog := NewCatalog(defaultLocale)
	if err := catalog.ReloadFS(fsys); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ReloadFS replaces all packs with the contents of fsys. On error the current
// packs are kept.
func (c *Catalog) ReloadFS(fsys fs.FS) error {
	if fsys == nil {
		return nil
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("i18n: read language packs: %w", err)
	}

	packs := make(map[string]map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !isPackFile(entry.Name()) {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", entry.Name(), err)
		}
		messages, err := parsePack(entry.Name(), data)
		if err != nil {
			return err
		}
		locale := NormalizeLocale(strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
		if _, exists := packs[locale]; exists {
			return fmt.Errorf("i18n: duplicate language pack for %q", locale)
		}
		packs[locale] = messages
	}

	c.mu.Lock()
	c.packs = packs
	c.mu.Unlock()
	return nil
}

// Add merges messages into the pack for locale.
func (c *Catalog) Add(locale string, messages map[string]string) {
	locale = NormalizeLocale(locale)
	c.mu.Lock()
	defer c.mu.Unlock()
	pack := c.packs[locale]
	if pack == nil {
		pack = make(map[string]string, len(messages))
		c.packs[locale] = pack
	}
	for key, msg := range messages {
		pack[strings.TrimSpace(key)] = msg
	}
}

// Locales returns the loaded locales, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.packs))
	for locale := range c.packs {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate implements Translator. Lookup falls back from the full locale to
// its language and then to the default locale. Messages containing verbs are
// formatted with args.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range c.fallbacks(locale) {
		pack, ok := c.packs[candidate]
		if !ok {
			continue
		}
		msg, ok := pack[key]
		if !ok {
			continue
		}
		if len(args) > 0 && strings.Contains(msg, "%") {
			return fmt.Sprintf(msg, args...), nil
		}
		return msg, nil
	}
	return "", fmt.Errorf("%w: %q (%s)", ErrMissingTranslation, key, locale)
}

func (c *Catalog) fallbacks(locale string) []string {
	locale = NormalizeLocale(locale)
	var out []string
	add := func(candidate string) {
		if candidate == "" {
			return
		}
		for _, existing := range out {
			if existing == candidate {
				return
			}
		}
		out = append(out, candidate)
	}
	add(locale)
	if idx := strings.IndexByte(locale, '_'); idx > 0 {
		add(locale[:idx])
	}
	add(c.defaultLocale)
	return out
}

// NormalizeLocale folds "pt-BR" and "pt_br" into "pt_BR".
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(strings.ReplaceAll(locale, "-", "_"))
	if locale == "" {
		return ""
	}
	parts := strings.SplitN(locale, "_", 2)
	lang := strings.ToLower(parts[0])
	if len(parts) == 1 || parts[1] == "" {
		return lang
	}
	return lang + "_" + strings.ToUpper(parts[1])
}

func isPackFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func parsePack(name string, data []byte) (map[string]string, error) {
	var raw map[string]any
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
	}

	out := make(map[string]string)
	if err := flatten("", raw, out); err != nil {
		return nil, fmt.Errorf("i18n: %s: %w", name, err)
	}
	return out, nil
}

// flatten turns nested maps into dotted keys: {form: {title: x}} → form.title.
func flatten(prefix string, in map[string]any, out map[string]string) error {
	for key, value := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch typed := value.(type) {
		case map[string]any:
			if err := flatten(full, typed, out); err != nil {
				return err
			}
		case string:
			out[full] = typed
		case nil:
			out[full] = ""
		case []any:
			return fmt.Errorf("key %q: lists are not supported", full)
		default:
			out[full] = fmt.Sprint(typed)
		}
	}
	return nil
}
