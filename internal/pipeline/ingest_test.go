package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-etl-pipeline/internal/model"
)

func serveJSON(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcherSuccess(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `[{"userId":1,"id":1,"title":"abc","body":"ignored"},{"userId":2,"id":2,"title":"xyz"}]`)

	set, err := NewHTTPFetcher(5*time.Second, nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, srv.URL, set.SourceURL)
	assert.Equal(t, []model.Post{
		{UserID: 1, ID: 1, Title: "abc"},
		{UserID: 2, ID: 2, Title: "xyz"},
	}, set.Posts)
}

func TestHTTPFetcherEmptyArrayIsNotFailure(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `[]`)

	set, err := NewHTTPFetcher(0, nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, 0, set.Len())
}

func TestHTTPFetcherErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   FetchErrorKind
	}{
		{"not found", http.StatusNotFound, `{"error":"nope"}`, KindStatus},
		{"server error", http.StatusInternalServerError, ``, KindStatus},
		{"object body", http.StatusOK, `{"userId":1}`, KindDecode},
		{"broken json", http.StatusOK, `[{"userId":1,`, KindDecode},
		{"missing title", http.StatusOK, `[{"userId":1,"id":1}]`, KindSchema},
		{"string userId", http.StatusOK, `[{"userId":"1","id":1,"title":"a"}]`, KindSchema},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serveJSON(t, tc.status, tc.body)

			set, err := NewHTTPFetcher(5*time.Second, nil).Fetch(context.Background(), srv.URL)
			require.Error(t, err)
			assert.Nil(t, set)
			assert.ErrorIs(t, err, ErrFetchFailed)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.kind, fe.Kind)
			assert.Equal(t, srv.URL, fe.URL)
			if tc.kind == KindStatus {
				assert.Equal(t, tc.status, fe.StatusCode)
			}
			if tc.kind == KindSchema {
				assert.ErrorIs(t, err, ErrSchemaMismatch)
			}
		})
	}
}

func TestHTTPFetcherTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	set, err := NewHTTPFetcher(2*time.Second, nil).Fetch(context.Background(), url)
	assert.Nil(t, set)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, KindTransport, fe.Kind)
	assert.Contains(t, err.Error(), "transport")
}

func TestHTTPFetcherHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPFetcher(0, nil).Fetch(ctx, srv.URL)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, KindTransport, fe.Kind)
}
