// Package textproc turns raw message text into tokens.
//
// Two strategies exist and are deliberately kept apart: Strict feeds the model at
// training time, Display mirrors the lighter tokenization used when presenting a
// query. Swapping one for the other changes model inputs and requires retraining.
package textproc

import (
	"fmt"
	"regexp"
	"strings"
)

// Tokenizer names.
const (
	StrictName  = "strict"
	DisplayName = "display"
)

// Tokenizer converts text into an ordered sequence of tokens.
type Tokenizer interface {
	Name() string
	Tokenize(text string) []string
}

// Strict lower-cases, keeps only [a-z0-9], splits on whitespace, drops English
// stopwords and lemmatizes what remains.
type Strict struct {
	lemmatizer Lemmatizer
}

// NewStrict creates a strict tokenizer. A nil lemmatizer leaves tokens unchanged.
func NewStrict(l Lemmatizer) *Strict {
	if l == nil {
		l = identityLemmatizer{}
	}
	return &Strict{lemmatizer: l}
}

// Name implements Tokenizer.
func (s *Strict) Name() string { return StrictName }

// Tokenize implements Tokenizer.
func (s *Strict) Tokenize(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	words := strings.Fields(normalized)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if isStopword(w) {
			continue
		}
		tokens = append(tokens, s.lemmatizer.Lemma(w))
	}
	return tokens
}

// wordPattern splits raw text into words (with inner apostrophes), numbers and
// punctuation runs.
var wordPattern = regexp.MustCompile(`\p{L}+(?:'\p{L}+)*|\p{N}+(?:[.,]\p{N}+)*|[^\s\p{L}\p{N}]+`)

// Display splits raw text into words and punctuation, lemmatizes each token and
// lower-cases it. Stopwords and punctuation are kept.
type Display struct {
	lemmatizer Lemmatizer
}

// NewDisplay creates a display tokenizer. A nil lemmatizer leaves tokens unchanged.
func NewDisplay(l Lemmatizer) *Display {
	if l == nil {
		l = identityLemmatizer{}
	}
	return &Display{lemmatizer: l}
}

// Name implements Tokenizer.
func (d *Display) Name() string { return DisplayName }

// Tokenize implements Tokenizer.
func (d *Display) Tokenize(text string) []string {
	words := wordPattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		tok := strings.TrimSpace(strings.ToLower(d.lemmatizer.Lemma(w)))
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Lookup returns the named tokenizer backed by the English lemmatizer.
func Lookup(name string) (Tokenizer, error) {
	lem, err := EnglishLemmatizer()
	if err != nil {
		return nil, err
	}

	switch name {
	case StrictName:
		return NewStrict(lem), nil
	case DisplayName:
		return NewDisplay(lem), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", name)
	}
}
