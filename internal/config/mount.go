package config

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/i18n"
	"github.com/goliatone/go-paramform/pkg/mount"
	"github.com/goliatone/go-paramform/pkg/render"
)

// MountOptions translates the form, theme and logging sections into Mounter
// options. A nil catalog leaves labels humanized.
func (c Config) MountOptions(logger *slog.Logger, catalog *i18n.Catalog) ([]mount.Option, error) {
	predicate, err := c.Form.Predicate(logger)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	options := []mount.Option{
		mount.WithLogger(logger),
		mount.WithFormOptions(
			form.WithPredicate(predicate),
			form.WithTargetBuilder(c.Form.TargetBuilder()),
			form.WithTitle(c.Form.Title),
			form.WithActionLabel(c.Form.ActionLabel),
		),
	}
	if catalog != nil {
		options = append(options, mount.WithTranslator(catalog))
	}

	manifests := c.Themes.ToManifests()
	if len(manifests) == 0 {
		return options, nil
	}
	themes := render.NewThemes(c.Themes.Default, c.Themes.Variant)
	for _, manifest := range manifests {
		if err := themes.Add(manifest); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return append(options, mount.WithThemeSelector(themes)), nil
}
