package textproc

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// suffixLemmatizer strips a trailing "s" so tests can see lemmatization happen.
type suffixLemmatizer struct{}

func (suffixLemmatizer) Lemma(word string) string {
	if len(word) > 3 && strings.HasSuffix(word, "s") {
		return strings.TrimSuffix(word, "s")
	}
	return word
}

func TestStrict_Tokenize(t *testing.T) {
	tok := NewStrict(suffixLemmatizer{})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "punctuation and case are normalized",
			text: "Flood, water RISING!!",
			want: []string{"flood", "water", "rising"},
		},
		{
			name: "stopwords are dropped",
			text: "We are in need of the water",
			want: []string{"need", "water"},
		},
		{
			name: "tokens are lemmatized",
			text: "Tents and blankets needed",
			want: []string{"tent", "blanket", "needed"},
		},
		{
			name: "digits survive",
			text: "Route 66 closed",
			want: []string{"route", "66", "closed"},
		},
		{
			name: "non ascii letters split words",
			text: "café olé",
			want: []string{"caf", "ol"},
		},
		{
			name: "apostrophes split contractions",
			text: "don't wait",
			want: []string{"wait"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "only punctuation",
			text: "?!... ---",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplay_Tokenize(t *testing.T) {
	tok := NewDisplay(suffixLemmatizer{})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "keeps punctuation and stopwords",
			text: "Flood, water RISING!!",
			want: []string{"flood", ",", "water", "rising", "!!"},
		},
		{
			name: "lemmatizes before lower casing",
			text: "The Tents are here.",
			want: []string{"the", "tent", "are", "here", "."},
		},
		{
			name: "numbers with separators stay whole",
			text: "need 1,200 liters",
			want: []string{"need", "1,200", "liter"},
		},
		{
			name: "inner apostrophe stays in the word",
			text: "don't",
			want: []string{"don't"},
		},
		{
			name: "empty input",
			text: "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizers_NilLemmatizer(t *testing.T) {
	assert.Equal(t, []string{"tents"}, NewStrict(nil).Tokenize("Tents"))
	assert.Equal(t, []string{"tents"}, NewDisplay(nil).Tokenize("Tents"))
}

func TestTokenizers_DifferOnSameInput(t *testing.T) {
	text := "We need water, now!"
	strict := NewStrict(nil).Tokenize(text)
	display := NewDisplay(nil).Tokenize(text)

	assert.Equal(t, []string{"need", "water"}, strict)
	assert.Equal(t, []string{"we", "need", "water", ",", "now", "!"}, display)
}

func TestLookup(t *testing.T) {
	strict, err := Lookup(StrictName)
	require.NoError(t, err)
	assert.Equal(t, StrictName, strict.Name())

	display, err := Lookup(DisplayName)
	require.NoError(t, err)
	assert.Equal(t, DisplayName, display.Name())

	_, err = Lookup("porter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "porter")
}

func TestStrict_EnglishLemmatizer(t *testing.T) {
	tok, err := Lookup(StrictName)
	require.NoError(t, err)

	got := tok.Tokenize("Flood, water RISING!!")
	require.Len(t, got, 3)
	assert.Contains(t, got, "flood")
	assert.Contains(t, got, "water")

	got = tok.Tokenize("People need tents")
	assert.Contains(t, got, "tent")
}

func TestTokenizers_ConcurrentUse(t *testing.T) {
	tok, err := Lookup(StrictName)
	require.NoError(t, err)
	want := tok.Tokenize("Houses flooded near the river banks")

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tok.Tokenize("Houses flooded near the river banks")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestStopwords(t *testing.T) {
	assert.True(t, isStopword("the"))
	assert.True(t, isStopword("wouldn't"))
	assert.False(t, isStopword("water"))
	assert.Len(t, englishStopwords, 179)
}
