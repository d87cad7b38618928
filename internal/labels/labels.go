// Package labels resolves the user-facing texts of the settings panel from
// embedded go-i18n message files.
package labels

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/config"
	"github.com/cristianoliveira/flashprefs/internal/settings"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var localeFiles = []string{
	"active.en.toml",
	"active.pt-BR.toml",
	"active.de.toml",
}

// Message ids shared by the CLI and the TUI.
const (
	SettingsTitle  = "SettingsTitle"
	DangerousBadge = "DangerousBadge"
	CancelLabel    = "CancelLabel"
	ejectLabelID   = "EjectOnSuccessLabel"
)

// Labels localizes messages for one language and platform.
type Labels struct {
	localizer *i18n.Localizer
	tag       language.Tag
	platform  string
}

// NewBundle loads every embedded locale. English is the source language.
func NewBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, name := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join("locales", name)); err != nil {
			return nil, fmt.Errorf("failed to load locale file %s: %w", name, err)
		}
	}
	return bundle, nil
}

// New returns labels for lang ("en", "pt-BR", ...) on platform (a GOOS
// value). An unparseable or unsupported language falls back to English.
func New(lang, platform string) (*Labels, error) {
	bundle, err := NewBundle()
	if err != nil {
		return nil, err
	}
	tag := matchLanguage(bundle, lang)
	return &Labels{
		localizer: newLocalizer(bundle, tag),
		tag:       tag,
		platform:  platform,
	}, nil
}

// NewFromConfig uses the language and platform config keys.
func NewFromConfig() (*Labels, error) {
	return New(config.Get("language", "en"), config.Get("platform", ""))
}

func matchLanguage(bundle *i18n.Bundle, lang string) language.Tag {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return language.English
	}
	requested, err := language.Parse(lang)
	if err != nil {
		colors.Warning(fmt.Sprintf("unknown language '%s', using English", lang))
		return language.English
	}
	supported := bundle.LanguageTags()
	_, index, confidence := language.NewMatcher(supported).Match(requested)
	if confidence == language.No {
		colors.Warning(fmt.Sprintf("no translations for '%s', using English", lang))
		return language.English
	}
	return supported[index]
}

func newLocalizer(bundle *i18n.Bundle, tag language.Tag) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, tag.String())
}

// Language returns the resolved language.
func (l *Labels) Language() language.Tag {
	return l.tag
}

// Message localizes id. Unknown ids are returned unchanged.
func (l *Labels) Message(id string) string {
	text, err := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || text == "" {
		return id
	}
	return text
}

// Setting returns the row label for d.
func (l *Labels) Setting(d settings.Definition) string {
	if d.Name == settings.UnmountOnSuccess && l.platform == "windows" {
		return l.Message(ejectLabelID)
	}
	return l.Message(d.LabelID)
}

// Guard returns the confirmation message and confirm button label.
func (l *Labels) Guard(spec *settings.GuardSpec) (message, confirm string) {
	if spec == nil {
		return "", ""
	}
	return l.Message(spec.MessageID), l.Message(spec.ConfirmLabelID)
}
