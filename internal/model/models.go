package model

import "time"

// Post is a single record returned by the posts API
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
}

// RecordSet is the ordered list of posts from one fetch
type RecordSet struct {
	SourceURL string    `json:"source_url"`
	FetchedAt time.Time `json:"fetched_at"`
	Posts     []Post    `json:"posts"`
}

// Len returns the number of posts, 0 for a nil set
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Posts)
}
