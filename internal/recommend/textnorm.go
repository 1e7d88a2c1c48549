// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package recommend

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength is the shortest token (in runes) kept after normalization.
const minTokenLength = 3

// TextNormalizer cleans raw event text for vectorization: it lowercases,
// strips HTML tags, keeps only letters (including accented Portuguese
// letters) and spaces, collapses whitespace, and drops Portuguese stopwords
// and tokens shorter than three runes.
//
// Normalization is pure and idempotent: normalizing an already normalized
// string returns it unchanged.
type TextNormalizer struct {
	stopwords map[string]struct{}
}

// NewTextNormalizer returns a normalizer with the built-in Portuguese
// stopword set.
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{stopwords: portugueseStopwords}
}

// Normalize runs the full cleaning pipeline and returns the kept tokens
// rejoined with single spaces. Empty or whitespace-only input returns "".
func (n *TextNormalizer) Normalize(text string) string {
	text = strings.ToLower(text)
	text = stripHTML(text)
	text = keepLettersAndSpaces(text)

	fields := strings.Fields(text)
	kept := make([]string, 0, len(fields))
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < minTokenLength {
			continue
		}
		if _, stop := n.stopwords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

// stripHTML removes tag markup, replacing each tag with a space so that
// adjacent words do not merge ("<p>foo</p><p>bar</p>" -> " foo  bar ").
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// keepLettersAndSpaces replaces every rune that is not a letter with a
// space. Accented letters are letters and survive intact.
func keepLettersAndSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// portugueseStopwords is the Portuguese stopword set used for corpus
// cleaning. Tokens shorter than three runes are filtered by length before
// this set is consulted, but short stopwords are kept here for completeness.
var portugueseStopwords = func() map[string]struct{} {
	words := []string{
		"a", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aquilo",
		"as", "até", "com", "como", "da", "das", "do", "dos", "e", "ela",
		"elas", "ele", "eles", "em", "entre", "era", "eram", "essa", "essas",
		"esse", "esses", "esta", "estamos", "estas", "estava", "estavam",
		"este", "esteja", "estejam", "estejamos", "estes", "esteve", "estive",
		"estivemos", "estiver", "estivera", "estiveram", "estiverem",
		"estivermos", "estivesse", "estivessem", "estivéramos",
		"estivéssemos", "estou", "está", "estão", "eu", "foi", "fomos",
		"for", "fora", "foram", "forem", "formos", "fosse", "fossem", "fui",
		"fôramos", "fôssemos", "haja", "hajam", "hajamos", "havemos",
		"havia", "hei", "houve", "houvemos", "houver", "houvera", "houveram",
		"houverei", "houverem", "houveremos", "houveria", "houveriam",
		"houveríamos", "houverão", "houverá", "houvesse", "houvessem",
		"houvéramos", "houvéssemos", "há", "hão", "isso", "isto", "já",
		"lhe", "lhes", "mais", "mas", "me", "mesmo", "meu", "meus", "minha",
		"minhas", "muito", "na", "nas", "nem", "no", "nos", "nossa",
		"nossas", "nosso", "nossos", "num", "numa", "não", "nós", "o", "os",
		"ou", "para", "pela", "pelas", "pelo", "pelos", "por", "qual",
		"quando", "que", "quem", "se", "seja", "sejam", "sejamos", "sem",
		"ser", "serei", "seremos", "seria", "seriam", "será", "serão",
		"seríamos", "seu", "seus", "somos", "sou", "sua", "suas", "são",
		"só", "também", "te", "tem", "temos", "tenha", "tenham", "tenhamos",
		"tenho", "ter", "terei", "teremos", "teria", "teriam", "terá",
		"terão", "teríamos", "teve", "tinha", "tinham", "tive", "tivemos",
		"tiver", "tivera", "tiveram", "tiverem", "tivermos", "tivesse",
		"tivessem", "tivéramos", "tivéssemos", "tu", "tua", "tuas", "tém",
		"tínhamos", "um", "uma", "você", "vocês", "vos", "à", "às",
		"é", "éramos",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
