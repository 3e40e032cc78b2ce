// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

const (
	// BaseLocale is the fallback for unsupported locales.
	BaseLocale = "en-US"
)

// Message keys
const (
	KeyGroupPlaceholder = "group.placeholder"
	KeyLabelPrompt      = "labels.prompt"
	KeyDefaultTheme     = "theme.default"
	KeyRaffleReady      = "raffle.ready"
	KeyRaffleExhausted  = "raffle.exhausted"
	KeyRaffleWinner     = "raffle.winner"
	KeyRaffleRemaining  = "raffle.remaining"
	KeyRaffleRepeat     = "raffle.mode.repeat"
	KeyRaffleUnique     = "raffle.mode.unique"
	KeyRaffleReset      = "raffle.reset"
	KeyRosterEmpty      = "roster.empty"
	KeyRosterSummary    = "roster.summary"
	KeyRosterImported   = "roster.imported"
	KeyRosterDeduped    = "roster.deduped"
	KeyRosterDuplicate  = "roster.duplicate"
	KeyGroupingSummary  = "grouping.summary"
	KeyGroupingExported = "grouping.exported"
)

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds every locale's messages and matches requested locales
// against them.
type Catalog struct {
	builder *catalog.Builder
	tags    []language.Tag
	names   []string
	matcher language.Matcher
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

var defaultCatalog = mustLoadEmbedded()

// Default returns the embedded catalog.
func Default() *Catalog {
	return defaultCatalog
}

func mustLoadEmbedded() *Catalog {
	c, err := LoadFromFS(embeddedFS)
	if err != nil {
		panic(fmt.Sprintf("locale: load embedded catalogs: %v", err))
	}
	return c
}

// LoadFromFS loads locales/*.yaml from fsys. Every locale must define
// exactly the keys of the base locale.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}
	sort.Strings(paths)

	files := make(map[string]catalogFile, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", p, err)
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		if strings.TrimSpace(file.Locale) != name {
			return nil, fmt.Errorf("catalog %s: locale %q must match file name %q", p, file.Locale, name)
		}
		if len(file.Messages) == 0 {
			return nil, fmt.Errorf("catalog %s: messages are required", p)
		}
		files[name] = file
	}

	base, ok := files[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}

	// Base locale first so the matcher falls back to it.
	names := []string{BaseLocale}
	for name := range files {
		if name != BaseLocale {
			names = append(names, name)
		}
	}
	sort.Strings(names[1:])

	b := catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale)))
	tags := make([]language.Tag, 0, len(names))
	for _, name := range names {
		file := files[name]
		if err := sameKeys(base.Messages, file.Messages); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", name, err)
		}
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse locale tag %q: %w", name, err)
		}
		for key, msg := range file.Messages {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("catalog %s: key %q: %w", name, key, err)
			}
		}
		tags = append(tags, tag)
	}

	return &Catalog{
		builder: b,
		tags:    tags,
		names:   names,
		matcher: language.NewMatcher(tags),
	}, nil
}

func sameKeys(base, other map[string]string) error {
	for key := range base {
		if _, ok := other[key]; !ok {
			return fmt.Errorf("missing key %q", key)
		}
	}
	for key := range other {
		if _, ok := base[key]; !ok {
			return fmt.Errorf("unknown key %q", key)
		}
	}
	return nil
}

// Locales lists available locales, base locale first.
func (c *Catalog) Locales() []string {
	return append([]string(nil), c.names...)
}

// Match returns the closest supported locale for the requested one.
func (c *Catalog) Match(requested string) string {
	tag, err := language.Parse(strings.TrimSpace(requested))
	if err != nil {
		return BaseLocale
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return BaseLocale
	}
	return c.names[idx]
}

// Printer formats catalog messages for the closest supported locale.
func (c *Catalog) Printer(requested string) *Printer {
	name := c.Match(requested)
	tag := language.MustParse(name)
	return &Printer{
		locale: name,
		p:      message.NewPrinter(tag, message.Catalog(c.builder)),
	}
}

type Printer struct {
	locale string
	p      *message.Printer
}

// Locale returns the matched locale name.
func (p *Printer) Locale() string {
	return p.locale
}

func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// GroupPlaceholder returns the label for the nth group (1-based).
func (p *Printer) GroupPlaceholder(n int) string {
	return p.p.Sprintf(KeyGroupPlaceholder, n)
}

// LabelPrompt builds the team-name request text.
func (p *Printer) LabelPrompt(count int, theme string) string {
	return p.p.Sprintf(KeyLabelPrompt, theme, count)
}

func (p *Printer) DefaultTheme() string {
	return p.p.Sprintf(KeyDefaultTheme)
}
