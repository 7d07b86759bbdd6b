package routes

import (
	"embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// DefaultLocale is used when the configured locale has no catalog
const DefaultLocale = "en"

var localeFiles = []string{
	"locales/active.en.toml",
	"locales/active.es.toml",
}

// Table answers the static per-route questions the header deriver and the
// header store need: fallback titles, back policy and route class.
type Table struct {
	routes    map[Name]Route
	localizer *i18n.Localizer
	locale    language.Tag
}

// NewTable builds a route table whose fallback titles are localized for
// locale. Unknown locales fall back to English.
func NewTable(locale string) (*Table, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, path := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			return nil, fmt.Errorf("load route catalog %s: %w", path, err)
		}
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	t := &Table{
		routes:    make(map[Name]Route, len(catalog)),
		localizer: i18n.NewLocalizer(bundle, tag.String(), DefaultLocale),
		locale:    tag,
	}
	for _, r := range catalog {
		t.routes[r.Name] = r
	}
	return t, nil
}

// MustTable is NewTable for tests and static setup; it panics on a broken
// embedded catalog.
func MustTable(locale string) *Table {
	t, err := NewTable(locale)
	if err != nil {
		panic(err)
	}
	return t
}

// Locale returns the locale tag the table was built for
func (t *Table) Locale() string {
	return t.locale.String()
}

// Lookup returns the catalog entry for name
func (t *Table) Lookup(name Name) (Route, bool) {
	r, ok := t.routes[name]
	return r, ok
}

// Title returns the fallback title for name, if the catalog has one.
func (t *Table) Title(name Name) (string, bool) {
	return t.message(string(name) + ".title")
}

// Subtitle returns the fallback subtitle for name, if the catalog has one.
func (t *Table) Subtitle(name Name) (string, bool) {
	return t.message(string(name) + ".subtitle")
}

// Label is the title used for sidebar entries and tab bars.
func (t *Table) Label(name Name) string {
	if s, ok := t.Title(name); ok {
		return s
	}
	return string(name)
}

func (t *Table) message(id string) (string, bool) {
	// A missing translation still yields the default-language text together
	// with a not-found error, so only an empty result counts as absent.
	msg, _ := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if msg == "" {
		return "", false
	}
	return msg, true
}

// IsAuth reports whether name is part of the sign-in flow
func (t *Table) IsAuth(name Name) bool {
	r, ok := t.routes[name]
	return ok && r.Class == ClassAuth
}

// IsTopLevel reports whether name is a tab root
func (t *Table) IsTopLevel(name Name) bool {
	r, ok := t.routes[name]
	return ok && r.Class == ClassTopLevel
}

// ForcesBack reports whether name is only reachable by drilling in
func (t *Table) ForcesBack(name Name) bool {
	r, ok := t.routes[name]
	return ok && r.Back == BackForced
}

// NeverBack reports whether name must never show a back button
func (t *Table) NeverBack(name Name) bool {
	r, ok := t.routes[name]
	return ok && r.Back == BackNever
}
