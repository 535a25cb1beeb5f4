// Package model defines the core domain models used throughout the application.
package model

// Column names shared by the raw inputs and the cleaned table.
const (
	ColumnID         = "id"
	ColumnMessage    = "message"
	ColumnOriginal   = "original"
	ColumnGenre      = "genre"
	ColumnCategories = "categories"
)

// MessageFields are the non-label columns of a cleaned record, in source order.
var MessageFields = []string{ColumnID, ColumnMessage, ColumnOriginal, ColumnGenre}

// IsMessageField reports whether name is one of MessageFields.
func IsMessageField(name string) bool {
	for _, f := range MessageFields {
		if f == name {
			return true
		}
	}
	return false
}

// Genre tags the channel a message arrived through.
type Genre string

// Known genres.
const (
	GenreDirect Genre = "direct"
	GenreNews   Genre = "news"
	GenreSocial Genre = "social"
)

// CategoryDelimiter separates tokens in the raw categories field.
const CategoryDelimiter = ";"
