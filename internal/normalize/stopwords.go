package normalize

import "github.com/kljensen/snowball/english"

// StopwordSet is an immutable set of words excluded from normalized text.
// Lookups are case-sensitive; the normalizer lowercases before filtering.
type StopwordSet struct {
	words    map[string]struct{}
	fallback func(string) bool
}

// NewStopwordSet builds a set from a word list
func NewStopwordSet(words ...string) StopwordSet {
	set := StopwordSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w != "" {
			set.words[w] = struct{}{}
		}
	}
	return set
}

// Contains reports whether word is a stopword
func (s StopwordSet) Contains(word string) bool {
	if _, ok := s.words[word]; ok {
		return true
	}
	return s.fallback != nil && s.fallback(word)
}

// Len returns the number of listed words (excluding library-provided lists)
func (s StopwordSet) Len() int {
	return len(s.words)
}

// StopwordsFor returns the stopword set for a canonical language name plus extra words
func StopwordsFor(language string, extra []string) StopwordSet {
	var set StopwordSet
	switch language {
	case LanguagePortuguese:
		set = NewStopwordSet(append(append([]string{}, portugueseStopwords...), extra...)...)
	case LanguageEnglish:
		set = NewStopwordSet(extra...)
		set.fallback = english.IsStopWord
	default:
		set = NewStopwordSet(extra...)
	}
	return set
}

// portugueseStopwords is the NLTK Portuguese stopword corpus
var portugueseStopwords = []string{
	"a", "à", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aquilo", "as", "às", "até",
	"com", "como", "da", "das", "de", "dela", "delas", "dele", "deles", "depois", "do", "dos",
	"e", "é", "ela", "elas", "ele", "eles", "em", "entre", "era", "eram", "éramos", "essa",
	"essas", "esse", "esses", "esta", "está", "estamos", "estão", "estar", "estas", "estava",
	"estavam", "estávamos", "este", "esteja", "estejam", "estejamos", "estes", "esteve",
	"estive", "estivemos", "estiver", "estivera", "estiveram", "estivéramos", "estiverem",
	"estivermos", "estivesse", "estivessem", "estivéssemos", "estou", "eu", "foi", "fomos",
	"for", "fora", "foram", "fôramos", "forem", "formos", "fosse", "fossem", "fôssemos", "fui",
	"há", "haja", "hajam", "hajamos", "hão", "havemos", "haver", "hei", "houve", "houvemos",
	"houver", "houvera", "houverá", "houveram", "houvéramos", "houverão", "houverei", "houverem",
	"houveremos", "houveria", "houveriam", "houveríamos", "houvermos", "houvesse", "houvessem",
	"houvéssemos", "isso", "isto", "já", "lhe", "lhes", "mais", "mas", "me", "mesmo", "meu",
	"meus", "minha", "minhas", "muito", "na", "não", "nas", "nem", "no", "nos", "nós", "nossa",
	"nossas", "nosso", "nossos", "num", "numa", "o", "os", "ou", "para", "pela", "pelas", "pelo",
	"pelos", "por", "qual", "quando", "que", "quem", "são", "se", "seja", "sejam", "sejamos",
	"sem", "ser", "será", "serão", "serei", "seremos", "seria", "seriam", "seríamos", "seu",
	"seus", "só", "somos", "sou", "sua", "suas", "também", "te", "tem", "tém", "temos", "tenha",
	"tenham", "tenhamos", "tenho", "ter", "terá", "terão", "terei", "teremos", "teria", "teriam",
	"teríamos", "teu", "teus", "teve", "tinha", "tinham", "tínhamos", "tive", "tivemos", "tiver",
	"tivera", "tiveram", "tivéramos", "tiverem", "tivermos", "tivesse", "tivessem", "tivéssemos",
	"tu", "tua", "tuas", "um", "uma", "você", "vocês", "vos",
}
