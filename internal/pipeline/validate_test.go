package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-etl-pipeline/internal/model"
)

func TestDecodePosts(t *testing.T) {
	posts, err := DecodePosts([]byte(` [{"userId":1,"id":1,"title":"abc"}, {"userId":2,"id":2,"title":"xyz"}] `))
	require.NoError(t, err)
	assert.Equal(t, []model.Post{{UserID: 1, ID: 1, Title: "abc"}, {UserID: 2, ID: 2, Title: "xyz"}}, posts)
}

func TestDecodePostsSchemaMismatch(t *testing.T) {
	cases := map[string]struct {
		body string
		msg  string
	}{
		"missing userId": {`[{"id":1,"title":"a"}]`, "missing required field: userId"},
		"missing id":     {`[{"userId":1,"title":"a"}]`, "missing required field: id"},
		"null title":     {`[{"userId":1,"id":1,"title":null}]`, "field title is null"},
		"float id":       {`[{"userId":1,"id":1.5,"title":"a"}]`, "field id must be an integer"},
		"numeric title":  {`[{"userId":1,"id":1,"title":7}]`, "field title must be a string"},
		"not an object":  {`[1]`, "element is not an object"},
		"second element": {`[{"userId":1,"id":1,"title":"a"},{"userId":1}]`, "record 1:"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			posts, err := DecodePosts([]byte(tc.body))
			assert.Nil(t, posts)
			require.ErrorIs(t, err, ErrSchemaMismatch)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestDecodePostsRejectsNonArray(t *testing.T) {
	for _, body := range []string{``, `null`, `{}`, `"posts"`} {
		_, err := DecodePosts([]byte(body))
		require.Error(t, err, body)
		assert.NotErrorIs(t, err, ErrSchemaMismatch, body)
	}
}
