package normalize

import (
	"fmt"
	"strings"

	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/portuguese"
	"github.com/kljensen/snowball"
	"github.com/ppiankov/replyscore/internal/model"
)

// Canonical language names
const (
	LanguagePortuguese = "portuguese"
	LanguageEnglish    = "english"
	LanguageSpanish    = "spanish"
	LanguageFrench     = "french"
	LanguageRussian    = "russian"
	LanguageSwedish    = "swedish"
	LanguageNorwegian  = "norwegian"
	LanguageHungarian  = "hungarian"
)

var languageAliases = map[string]string{
	"pt": LanguagePortuguese, "pt-br": LanguagePortuguese, "portuguese": LanguagePortuguese,
	"en": LanguageEnglish, "english": LanguageEnglish,
	"es": LanguageSpanish, "spanish": LanguageSpanish,
	"fr": LanguageFrench, "french": LanguageFrench,
	"ru": LanguageRussian, "russian": LanguageRussian,
	"sv": LanguageSwedish, "swedish": LanguageSwedish,
	"no": LanguageNorwegian, "norwegian": LanguageNorwegian,
	"hu": LanguageHungarian, "hungarian": LanguageHungarian,
}

// CanonicalLanguage resolves a language name or code
func CanonicalLanguage(language string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(language))
	if key == "" {
		return LanguagePortuguese, nil
	}
	canonical, ok := languageAliases[key]
	if !ok {
		return "", fmt.Errorf("%w: unsupported language %q", model.ErrConfiguration, language)
	}
	return canonical, nil
}

// Stemmer reduces an inflected word to its radical
type Stemmer interface {
	Stem(word string) string
}

// NewStemmer returns the stemmer for a canonical language name
func NewStemmer(language string) (Stemmer, error) {
	canonical, err := CanonicalLanguage(language)
	if err != nil {
		return nil, err
	}
	if canonical == LanguagePortuguese {
		return portugueseStemmer{}, nil
	}
	return snowballStemmer{language: canonical}, nil
}

// portugueseStemmer applies the Snowball Portuguese algorithm
type portugueseStemmer struct{}

func (portugueseStemmer) Stem(word string) string {
	env := snowballstem.NewEnv(word)
	portuguese.Stem(env)
	if stem := env.Current(); stem != "" {
		return stem
	}
	return word
}

// snowballStemmer covers the languages shipped by kljensen/snowball
type snowballStemmer struct {
	language string
}

func (s snowballStemmer) Stem(word string) string {
	stem, err := snowball.Stem(word, s.language, true)
	if err != nil || stem == "" {
		return word // fallback to the original word
	}
	return stem
}
