package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Veraticus/disaster-triage/internal/dataset"
	"github.com/Veraticus/disaster-triage/internal/model"
)

// Message is one labeled fixture record.
type Message struct {
	ID       int64
	Text     string
	Original string
	Genre    model.Genre
	Labels   []int
}

// DefaultCategories are the label columns used unless a builder names its own.
var DefaultCategories = []string{"related", "request", "offer", "water", "food"}

// MessageBuilder assembles labeled messages and renders them as raw CSV inputs
// or as a cleaned table.
//
//	msgs := testutil.NewMessageBuilder(t).
//		WithBasicMessages().
//		With("Roads are flooded", model.GenreNews, 1, 0, 0, 0, 0)
type MessageBuilder struct {
	t          *testing.T
	categories []string
	messages   []Message
}

// NewMessageBuilder creates a builder over categories, or DefaultCategories when none are given.
func NewMessageBuilder(t *testing.T, categories ...string) *MessageBuilder {
	t.Helper()
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &MessageBuilder{t: t, categories: append([]string(nil), categories...)}
}

// With appends a message with the next free id. labels must match the categories.
func (b *MessageBuilder) With(text string, genre model.Genre, labels ...int) *MessageBuilder {
	b.t.Helper()
	if len(labels) != len(b.categories) {
		b.t.Fatalf("message %q has %d labels, builder has %d categories", text, len(labels), len(b.categories))
	}
	b.messages = append(b.messages, Message{
		ID:     int64(len(b.messages) + 1),
		Text:   text,
		Genre:  genre,
		Labels: append([]int(nil), labels...),
	})
	return b
}

// WithBasicMessages adds a small balanced set over DefaultCategories where the
// water and food labels follow the words in the text.
func (b *MessageBuilder) WithBasicMessages() *MessageBuilder {
	b.t.Helper()
	basic := []struct {
		text   string
		genre  model.Genre
		labels []int
	}{
		{"Water is rising", model.GenreDirect, []int{1, 0, 0, 1, 0}},
		{"We need clean drinking water", model.GenreDirect, []int{1, 1, 0, 1, 0}},
		{"Families are hungry, please send food", model.GenreSocial, []int{1, 1, 0, 0, 1}},
		{"Food distribution starts tomorrow", model.GenreNews, []int{1, 0, 1, 0, 1}},
		{"No water and no food since Monday", model.GenreDirect, []int{1, 1, 0, 1, 1}},
		{"The weather is nice today", model.GenreSocial, []int{0, 0, 0, 0, 0}},
		{"Bridge on route 9 collapsed", model.GenreNews, []int{1, 0, 0, 0, 0}},
		{"Water trucks arrived at the camp", model.GenreNews, []int{1, 0, 1, 1, 0}},
	}
	for _, m := range basic {
		b.With(m.text, m.genre, m.labels...)
	}
	return b
}

// Repeat appends copies of every message so far until there are at least n,
// each copy with its own id and a numbered suffix so rows stay distinct.
func (b *MessageBuilder) Repeat(n int) *MessageBuilder {
	b.t.Helper()
	base := append([]Message(nil), b.messages...)
	if len(base) == 0 {
		b.t.Fatal("nothing to repeat")
	}
	for i := 0; len(b.messages) < n; i++ {
		m := base[i%len(base)]
		b.With(fmt.Sprintf("%s (%d)", m.Text, i/len(base)+1), m.Genre, m.Labels...)
	}
	return b
}

// Messages returns the messages built so far.
func (b *MessageBuilder) Messages() []Message {
	return append([]Message(nil), b.messages...)
}

// Categories returns the label column names.
func (b *MessageBuilder) Categories() []string {
	return append([]string(nil), b.categories...)
}

// Table renders the messages as a cleaned table.
func (b *MessageBuilder) Table() *dataset.Table {
	t := dataset.New(
		dataset.Column{Name: model.ColumnID, Kind: dataset.KindInteger},
		dataset.Column{Name: model.ColumnMessage, Kind: dataset.KindText},
		dataset.Column{Name: model.ColumnOriginal, Kind: dataset.KindText},
		dataset.Column{Name: model.ColumnGenre, Kind: dataset.KindText},
	)
	for _, c := range b.categories {
		t.Columns = append(t.Columns, dataset.Column{Name: c, Kind: dataset.KindInteger})
	}

	for _, m := range b.messages {
		row := dataset.Row{dataset.Int(m.ID), dataset.Text(m.Text), dataset.Null(), dataset.Text(string(m.Genre))}
		if m.Original != "" {
			row[2] = dataset.Text(m.Original)
		}
		for _, v := range m.Labels {
			row = append(row, dataset.Int(int64(v)))
		}
		if err := t.Append(row); err != nil {
			b.t.Fatalf("failed to build table: %v", err)
		}
	}
	return t
}

// WriteCSV writes messages.csv and categories.csv into dir and returns their paths.
func (b *MessageBuilder) WriteCSV(dir string) (messagesPath, categoriesPath string) {
	b.t.Helper()

	messages := [][]string{{model.ColumnID, model.ColumnMessage, model.ColumnOriginal, model.ColumnGenre}}
	categories := [][]string{{model.ColumnID, model.ColumnCategories}}
	for _, m := range b.messages {
		id := strconv.FormatInt(m.ID, 10)
		messages = append(messages, []string{id, m.Text, m.Original, string(m.Genre)})

		tokens := make([]string, len(b.categories))
		for i, c := range b.categories {
			tokens[i] = c + "-" + strconv.Itoa(m.Labels[i])
		}
		categories = append(categories, []string{id, strings.Join(tokens, model.CategoryDelimiter)})
	}

	messagesPath = WriteCSV(b.t, dir, "messages.csv", messages)
	categoriesPath = WriteCSV(b.t, dir, "categories.csv", categories)
	return messagesPath, categoriesPath
}

// WriteCSV writes records to dir/name and returns the path.
func WriteCSV(t *testing.T, dir, name string, records [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
