package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed translations/*.json
var translationFS embed.FS

// Language identifies one of the supported interface languages.
type Language string

const (
	LangEN Language = "en"
	LangFR Language = "fr"
	LangRW Language = "rw"
)

// ParseLanguage maps a language code to a Language, defaulting to English
// for unknown codes.
func ParseLanguage(code string) Language {
	switch Language(strings.ToLower(code)) {
	case LangFR:
		return LangFR
	case LangRW:
		return LangRW
	default:
		return LangEN
	}
}

// LocalizedText holds one value per supported language. Entities store
// their per-language columns here so callers resolve through a single
// typed accessor instead of constructing column names at runtime.
type LocalizedText struct {
	EN string `json:"en"`
	FR string `json:"fr"`
	RW string `json:"rw"`
}

// Resolve returns the value for lang, falling back to English when the
// localized value is empty.
func (t LocalizedText) Resolve(lang Language) string {
	var v string
	switch lang {
	case LangFR:
		v = t.FR
	case LangRW:
		v = t.RW
	default:
		v = t.EN
	}
	if v == "" {
		return t.EN
	}
	return v
}

// LocalizedList is the per-language variant of LocalizedText for list
// columns (plan features, question options).
type LocalizedList struct {
	EN []string `json:"en"`
	FR []string `json:"fr"`
	RW []string `json:"rw"`
}

// Resolve returns the list for lang, falling back to English when the
// localized list is empty.
func (l LocalizedList) Resolve(lang Language) []string {
	var v []string
	switch lang {
	case LangFR:
		v = l.FR
	case LangRW:
		v = l.RW
	default:
		v = l.EN
	}
	if len(v) == 0 {
		return l.EN
	}
	return v
}

// Translator resolves dotted keys against the bundled dictionaries.
// It is immutable after construction; the language is always an explicit
// argument, never process state.
type Translator struct {
	dictionaries map[Language]map[string]any
}

// NewTranslator loads the bundled dictionaries for all supported languages.
func NewTranslator() (*Translator, error) {
	dicts := make(map[Language]map[string]any, 3)
	for _, lang := range []Language{LangEN, LangFR, LangRW} {
		raw, err := translationFS.ReadFile(fmt.Sprintf("translations/%s.json", lang))
		if err != nil {
			return nil, fmt.Errorf("read %s dictionary: %w", lang, err)
		}
		var dict map[string]any
		if err := json.Unmarshal(raw, &dict); err != nil {
			return nil, fmt.Errorf("parse %s dictionary: %w", lang, err)
		}
		dicts[lang] = dict
	}
	return &Translator{dictionaries: dicts}, nil
}

// T resolves a dotted key (e.g. "quiz.passed") in the given language.
// A missing key returns the key itself; that fallback is a deliberate
// debugging aid and must be preserved.
func (tr *Translator) T(lang Language, key string) string {
	node := any(tr.dictionaries[lang])
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return key
		}
		node, ok = m[part]
		if !ok {
			return key
		}
	}
	s, ok := node.(string)
	if !ok {
		return key
	}
	return s
}
