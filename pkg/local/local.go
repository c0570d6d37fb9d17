package local

import (
	"context"
	"fmt"
	"strings"
)

type Language string

const (
	Eng = Language("en")
	Rus = Language("ru")
)

type languageKey struct{}

type Localization struct {
	language Language
	text     string
}

type TextSet struct {
	Default          string
	translationsText map[Language]string
}

func NewTrans(language Language, text string) Localization {
	return Localization{
		language: language,
		text:     text,
	}
}

func NewSet(defaultText string, localizations ...Localization) TextSet {
	set := TextSet{
		Default:          defaultText,
		translationsText: make(map[Language]string),
	}
	for _, localization := range localizations {
		set.translationsText[localization.language] = localization.text
	}
	return set
}

// ParseLanguage maps an IETF tag such as "ru-RU" to a Language.
func ParseLanguage(tag string) Language {
	primary, _, _ := strings.Cut(strings.ToLower(tag), "-")
	if primary == "" {
		return Eng
	}
	return Language(primary)
}

func (l TextSet) Text(language Language) string {
	if text, ok := l.translationsText[language]; ok {
		return text
	}
	return l.Default
}

func (l TextSet) DefaultFormat(a ...any) string {
	return fmt.Sprintf(l.Default, a...)
}

func (l TextSet) Format(language Language, a ...any) string {
	return fmt.Sprintf(l.Text(language), a...)
}

func WithLanguage(ctx context.Context, language Language) context.Context {
	return context.WithValue(ctx, languageKey{}, language)
}

// FromContext returns the language stored by WithLanguage, or Eng.
func FromContext(ctx context.Context) Language {
	if language, ok := ctx.Value(languageKey{}).(Language); ok {
		return language
	}
	return Eng
}
