// Package normalize turns raw reply text into a deterministic string of
// stemmed tokens.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/replyscore/internal/model"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	specialPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Zs}]`)
	numberPattern  = regexp.MustCompile(`\p{Nd}+`)
)

// Normalizer is safe for concurrent use; all fields are read-only after New
type Normalizer struct {
	language  string
	stopwords StopwordSet
	stemmer   Stemmer
	minLength int
	stem      bool
}

// New creates a normalizer from configuration
func New(cfg model.NormalizerConfig) (*Normalizer, error) {
	language, err := CanonicalLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}

	stemmer, err := NewStemmer(language)
	if err != nil {
		return nil, err
	}

	minLength := cfg.MinTokenLength
	if minLength <= 0 {
		minLength = 3
	}

	return &Normalizer{
		language:  language,
		stopwords: StopwordsFor(language, cfg.ExtraStopwords),
		stemmer:   stemmer,
		minLength: minLength,
		stem:      cfg.Stem,
	}, nil
}

// NewPortuguese returns the default Portuguese normalizer with stemming enabled
func NewPortuguese() *Normalizer {
	return &Normalizer{
		language:  LanguagePortuguese,
		stopwords: StopwordsFor(LanguagePortuguese, nil),
		stemmer:   portugueseStemmer{},
		minLength: 3,
		stem:      true,
	}
}

// Language returns the canonical language name
func (n *Normalizer) Language() string {
	return n.language
}

// Normalize returns the space-joined stemmed tokens of text
func (n *Normalizer) Normalize(text string) string {
	return n.Trace(text).Result
}

// NormalizeValue normalizes raw dataset values; anything that is not a
// string (nil, numbers, NaN placeholders) yields an empty result.
func (n *Normalizer) NormalizeValue(v any) string {
	switch s := v.(type) {
	case string:
		return n.Normalize(s)
	case *string:
		if s == nil {
			return ""
		}
		return n.Normalize(*s)
	default:
		return ""
	}
}

// Trace holds every intermediate value of one normalization
type Trace struct {
	Lowered        string   `json:"lowered"`
	WithoutURLs    string   `json:"without_urls"`
	WithoutSpecial string   `json:"without_special"`
	WithoutNumbers string   `json:"without_numbers"`
	Tokens         []string `json:"tokens"`
	Filtered       []string `json:"filtered"`
	Stemmed        []string `json:"stemmed"`
	Result         string   `json:"result"`
}

// Trace runs the pipeline and records each step.
// URL, punctuation and digit stripping run before tokenization; filtering runs
// before stemming.
func (n *Normalizer) Trace(text string) Trace {
	var t Trace
	if text == "" {
		return t
	}

	t.Lowered = strings.ToLower(norm.NFC.String(text))
	t.WithoutURLs = RemoveURLs(t.Lowered)
	t.WithoutSpecial = RemoveSpecialCharacters(t.WithoutURLs)
	t.WithoutNumbers = RemoveNumbers(t.WithoutSpecial)
	t.Tokens = Tokenize(t.WithoutNumbers)
	t.Filtered = n.FilterTokens(t.Tokens)
	t.Stemmed = n.StemTokens(t.Filtered)
	t.Result = strings.Join(t.Stemmed, " ")

	return t
}

// FilterTokens drops stopwords and tokens shorter than the minimum length
func (n *Normalizer) FilterTokens(tokens []string) []string {
	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if n.stopwords.Contains(token) {
			continue
		}
		if utf8.RuneCountInString(token) < n.minLength {
			continue
		}
		filtered = append(filtered, token)
	}
	return filtered
}

// StemTokens stems every token; it returns a copy when stemming is disabled
func (n *Normalizer) StemTokens(tokens []string) []string {
	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		if n.stem {
			stemmed[i] = n.stemmer.Stem(token)
		} else {
			stemmed[i] = token
		}
	}
	return stemmed
}

// RemoveURLs deletes http(s):// and www. substrings up to the next whitespace
func RemoveURLs(text string) string {
	return urlPattern.ReplaceAllString(text, "")
}

// RemoveSpecialCharacters keeps letters (accented included), digits,
// underscore and whitespace
func RemoveSpecialCharacters(text string) string {
	return specialPattern.ReplaceAllString(text, "")
}

// RemoveNumbers deletes every run of decimal digits
func RemoveNumbers(text string) string {
	return numberPattern.ReplaceAllString(text, "")
}

// Tokenize splits text on Unicode word boundaries. Whitespace segments are
// dropped and punctuation is returned as standalone tokens.
func Tokenize(text string) []string {
	var tokens []string
	var word string
	state := -1
	for len(text) > 0 {
		word, text, state = uniseg.FirstWordInString(text, state)
		if strings.TrimSpace(word) == "" {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
