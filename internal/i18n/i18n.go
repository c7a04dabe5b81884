package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-addressbook/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// Translator resolves message keys from config (TKey*) into localized text.
type Translator struct {
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	lang      string
	languages []string
}

// New loads the embedded locale files and selects lang, falling back to
// config.DefaultLanguage for empty or unknown languages.
func New(lang string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		code := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if code == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}
		detected = append(detected, code)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, code,
		)
	}

	t := &Translator{bundle: bundle, languages: detected}
	t.SetLanguage(lang)
	return t, nil
}

// Languages returns the language codes found in the embedded locales.
func (t *Translator) Languages() []string {
	return slices.Clone(t.languages)
}

// Language returns the active language code.
func (t *Translator) Language() string {
	return t.lang
}

// SetLanguage switches the active language.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" || !slices.Contains(t.languages, lang) {
		lang = config.DefaultLanguage
	}
	t.lang = lang
	t.localizer = goi18n.NewLocalizer(t.bundle, lang)
}

// T translates key with optional template data. Missing keys return the key itself.
func (t *Translator) T(key string, data map[string]any) string {
	return t.localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// Plural translates key choosing the plural form for count. count is also exposed
// to the template as .Count.
func (t *Translator) Plural(key string, count int, data map[string]any) string {
	merged := map[string]any{"Count": count}
	for k, v := range data {
		merged[k] = v
	}
	return t.localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: merged, PluralCount: count})
}

func (t *Translator) localize(cfg *goi18n.LocalizeConfig) string {
	msg, err := t.localizer.Localize(cfg)
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, cfg.MessageID,
			config.LogKeyError, err,
		)
		return cfg.MessageID
	}
	return msg
}

// SummaryFormatter returns the localized calendar event summary builder used by the
// calendar generator.
func (t *Translator) SummaryFormatter() func(name string, age int, yearKnown bool) string {
	return func(name string, age int, yearKnown bool) string {
		switch {
		case !yearKnown:
			return t.T(config.TKeyEvtSummary, map[string]any{"Name": name})
		case age == 0:
			return t.T(config.TKeyEvtSummaryBirth, map[string]any{"Name": name})
		default:
			return t.T(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age})
		}
	}
}

// GreetingFormatter returns the localized summary of "congratulate" calendar events.
func (t *Translator) GreetingFormatter() func(name string) string {
	return func(name string) string {
		return t.T(config.TKeyEvtGreeting, map[string]any{"Name": name})
	}
}
