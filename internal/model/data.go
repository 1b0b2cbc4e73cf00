package model

import (
	"strconv"
	"unicode/utf8"
)

// ResultColumns is the fixed column order of every exported table
var ResultColumns = []string{"userId", "id", "title", "title_length"}

// PostRow is one row of the transformed output
type PostRow struct {
	UserID      int    `json:"userId"`
	ID          int    `json:"id"`
	Title       string `json:"title"`
	TitleLength int    `json:"title_length"`
}

// NewPostRow projects a post and derives title_length as the number of characters in the title
func NewPostRow(p Post) PostRow {
	return PostRow{
		UserID:      p.UserID,
		ID:          p.ID,
		Title:       p.Title,
		TitleLength: utf8.RuneCountInString(p.Title),
	}
}

// Strings renders the row in ResultColumns order
func (r PostRow) Strings() []string {
	return []string{
		strconv.Itoa(r.UserID),
		strconv.Itoa(r.ID),
		r.Title,
		strconv.Itoa(r.TitleLength),
	}
}

// ResultTable is the filtered, derived-field view of a RecordSet ready for export
type ResultTable struct {
	SourceURL string    `json:"source_url"`
	Rows      []PostRow `json:"rows"`
}

// Len returns the number of rows, 0 for a nil table
func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
