package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"go-etl-pipeline/internal/model"
)

// ErrSchemaMismatch is returned when an API element does not carry the required post keys
var ErrSchemaMismatch = errors.New("schema mismatch")

// requiredPostFields are checked on every element before it becomes a model.Post
var requiredPostFields = []string{"userId", "id", "title"}

// DecodePosts parses a JSON array body into posts, failing fast on the first element
// that misses a required key or carries a value of the wrong type.
// Extra keys are ignored.
func DecodePosts(body []byte) ([]model.Post, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("failed to decode JSON: expected an array of objects")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	posts := make([]model.Post, 0, len(items))
	for i, item := range items {
		post, err := decodePost(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// decodePost validates a single element against the fixed post schema
func decodePost(item json.RawMessage) (model.Post, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return model.Post{}, fmt.Errorf("%w: element is not an object", ErrSchemaMismatch)
	}

	for _, field := range requiredPostFields {
		raw, ok := fields[field]
		if !ok {
			return model.Post{}, fmt.Errorf("%w: missing required field: %s", ErrSchemaMismatch, field)
		}
		if string(bytes.TrimSpace(raw)) == "null" {
			return model.Post{}, fmt.Errorf("%w: field %s is null", ErrSchemaMismatch, field)
		}
	}

	var post model.Post
	if err := json.Unmarshal(fields["userId"], &post.UserID); err != nil {
		return model.Post{}, fmt.Errorf("%w: field userId must be an integer, got %s", ErrSchemaMismatch, fields["userId"])
	}
	if err := json.Unmarshal(fields["id"], &post.ID); err != nil {
		return model.Post{}, fmt.Errorf("%w: field id must be an integer, got %s", ErrSchemaMismatch, fields["id"])
	}
	if err := json.Unmarshal(fields["title"], &post.Title); err != nil {
		return model.Post{}, fmt.Errorf("%w: field title must be a string, got %s", ErrSchemaMismatch, fields["title"])
	}
	return post, nil
}
