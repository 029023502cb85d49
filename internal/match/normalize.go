package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLength is the shortest token kept by Normalize
const minTokenLength = 3

// stopwords are common English function words dropped before stemming
var stopwords = toSet([]string{
	"a", "an", "the", "and", "or", "but", "is", "are", "was", "were",
	"be", "been", "being", "have", "has", "had", "do", "does", "did",
	"to", "at", "in", "on", "by", "for", "with", "about", "against",
	"of", "from", "as", "i", "me", "my", "myself", "we", "our", "ours",
	"ourselves", "you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "will", "would", "can", "could", "shall", "should", "may",
	"might", "must", "ought", "im", "youre", "hes", "shes",
	"theyre", "ive", "youve", "weve", "theyve", "id", "youd",
	"hed", "shed", "wed", "theyd", "ill", "youll", "hell", "shell",
	"well", "theyll", "isnt", "arent", "wasnt", "werent", "hasnt",
	"havent", "hadnt", "doesnt", "dont", "didnt", "wont", "wouldnt",
	"cant", "cannot", "couldnt", "if", "then", "else", "when", "up", "down",
	"out", "off", "over", "under", "again", "further", "once", "here",
	"there", "all", "any", "both", "each", "few", "more", "most", "other",
	"some", "such", "no", "nor", "not", "only", "own", "same", "so",
	"than", "too", "very", "just", "now", "also", "into", "via", "per",
})

// stemRule strips a suffix, optionally replacing it.
// A rule whose skip func reports true does not match and the next rule is tried.
type stemRule struct {
	suffix  string
	replace string
	skip    func(word string) bool
}

var stemRules = []stemRule{
	{suffix: "ing"},
	{suffix: "ed", skip: func(w string) bool { return strings.HasSuffix(w, "eed") }},
	{suffix: "ly"},
	{suffix: "ment"},
	{suffix: "ies", replace: "y"},
	{suffix: "es", skip: func(w string) bool { return strings.HasSuffix(w, "sses") }},
	{suffix: "s", skip: func(w string) bool {
		return strings.HasSuffix(w, "ss") || strings.HasSuffix(w, "us")
	}},
}

// Stem applies a single pass of lightweight suffix stripping.
// The first matching rule wins; if it would leave two characters or fewer
// the word is returned unchanged.
func Stem(word string) string {
	if len(word) < minTokenLength {
		return word
	}

	for _, rule := range stemRules {
		if !strings.HasSuffix(word, rule.suffix) {
			continue
		}
		if rule.skip != nil && rule.skip(word) {
			continue
		}

		stem := word[:len(word)-len(rule.suffix)] + rule.replace
		if len(stem) > 2 {
			return stem
		}
		return word
	}

	return word
}

// Tokenize lowercases text, folds accents, turns punctuation into
// whitespace and splits on runs of whitespace.
func Tokenize(text string) []string {
	return strings.Fields(cleanText(text))
}

// Normalize turns free text into stemmed tokens with stopwords and short
// tokens removed. Order and duplicates are preserved.
func Normalize(text string) []string {
	tokens := Tokenize(text)
	out := make([]string, 0, len(tokens))

	for _, tok := range tokens {
		if len(tok) < minTokenLength || stopwords[tok] {
			continue
		}
		stemmed := Stem(tok)
		if stopwords[stemmed] {
			continue
		}
		out = append(out, stemmed)
	}

	return out
}

// cleanText returns the lowercase, accent-folded text with every non-word
// rune replaced by a space
func cleanText(text string) string {
	folded := strings.ToLower(foldAccents(text))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if isWordRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// foldAccents maps "résumé" to "resume". A fresh transformer is built per
// call because transform chains carry internal buffers.
func foldAccents(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
