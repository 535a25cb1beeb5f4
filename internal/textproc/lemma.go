package textproc

import (
	"fmt"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces a word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

var (
	englishOnce sync.Once
	englishLem  *golem.Lemmatizer
	englishErr  error
)

// EnglishLemmatizer returns the shared English dictionary lemmatizer.
// The dictionary is loaded once; the result is safe for concurrent use.
func EnglishLemmatizer() (Lemmatizer, error) {
	englishOnce.Do(func() {
		englishLem, englishErr = golem.New(en.New())
		if englishErr != nil {
			englishErr = fmt.Errorf("failed to load english lemma dictionary: %w", englishErr)
		}
	})
	if englishErr != nil {
		return nil, englishErr
	}
	return englishLem, nil
}

// identityLemmatizer leaves words unchanged.
type identityLemmatizer struct{}

func (identityLemmatizer) Lemma(word string) string { return word }
