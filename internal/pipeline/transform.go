package pipeline

import (
	"go-etl-pipeline/internal/model"
)

// DefaultUserID is the userId kept by the posts transformation
const DefaultUserID = 1

// Transform narrows a RecordSet to the posts of one user and derives title_length.
// Steps, in order:
//  1. project to userId, id, title
//  2. keep posts whose userId equals userID
//  3. append title_length (character count of title)
//
// Output order follows input order. A nil set (fetch failed) yields a nil table;
// an empty set yields an empty, non-nil table.
func Transform(set *model.RecordSet, userID int) *model.ResultTable {
	if set == nil {
		return nil
	}

	table := &model.ResultTable{
		SourceURL: set.SourceURL,
		Rows:      make([]model.PostRow, 0),
	}
	for _, post := range set.Posts {
		if post.UserID != userID {
			continue
		}
		table.Rows = append(table.Rows, model.NewPostRow(post))
	}
	return table
}
