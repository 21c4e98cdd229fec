package model

import (
	"os"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Locale is an active display/spoken language selection. It drives the
// translation target and the speech-recognition language tag.
type Locale string

// LocaleDefault is the locale of raw provider output; no translation is
// performed for it.
const LocaleDefault Locale = "en"

type localeInfo struct {
	DisplayName string `yaml:"name"`
	SpeechTag   string `yaml:"speechTag"`
}

var (
	localeMu sync.RWMutex
	locales  = map[Locale]localeInfo{
		"en": {DisplayName: "English", SpeechTag: "en-US"},
		"es": {DisplayName: "Spanish", SpeechTag: "es-ES"},
		"fr": {DisplayName: "French", SpeechTag: "fr-FR"},
		"de": {DisplayName: "German", SpeechTag: "de-DE"},
		"pt": {DisplayName: "Portuguese", SpeechTag: "pt-BR"},
		"hi": {DisplayName: "Hindi", SpeechTag: "hi-IN"},
		"ar": {DisplayName: "Arabic", SpeechTag: "ar-SA"},
		"zh": {DisplayName: "Chinese", SpeechTag: "zh-CN"},
	}
)

// ParseLocale validates a locale code against the registry.
func ParseLocale(code string) (Locale, error) {
	localeMu.RLock()
	defer localeMu.RUnlock()

	if _, ok := locales[Locale(code)]; !ok {
		return "", NewValidationError("unsupported locale", goerr.V("locale", code))
	}
	return Locale(code), nil
}

// Locales returns all registered locale codes, sorted.
func Locales() []Locale {
	localeMu.RLock()
	defer localeMu.RUnlock()

	codes := make([]Locale, 0, len(locales))
	for code := range locales {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// IsDefault reports whether results should stay untranslated.
func (l Locale) IsDefault() bool {
	return l == LocaleDefault || l == ""
}

// DisplayName returns the language name used in translation prompts,
// e.g. "French" for "fr".
func (l Locale) DisplayName() string {
	localeMu.RLock()
	defer localeMu.RUnlock()

	if info, ok := locales[l]; ok {
		return info.DisplayName
	}
	return string(l)
}

// SpeechTag returns the BCP-47 tag for speech-recognition sessions,
// e.g. "fr-FR" for "fr".
func (l Locale) SpeechTag() string {
	localeMu.RLock()
	defer localeMu.RUnlock()

	if info, ok := locales[l]; ok {
		return info.SpeechTag
	}
	return string(l)
}

// LoadLocales merges locale definitions from a YAML file into the registry.
// The file maps locale codes to name/speechTag pairs.
func LoadLocales(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read locale config", goerr.V("path", path))
	}

	var loaded map[Locale]localeInfo
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return goerr.Wrap(err, "failed to parse locale config", goerr.V("path", path))
	}

	localeMu.Lock()
	defer localeMu.Unlock()
	for code, info := range loaded {
		base := locales[code]
		if info.DisplayName != "" {
			base.DisplayName = info.DisplayName
		}
		if info.SpeechTag != "" {
			base.SpeechTag = info.SpeechTag
		}
		locales[code] = base
	}
	return nil
}
