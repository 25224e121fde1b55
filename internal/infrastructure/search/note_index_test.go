package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
	"github.com/oksasatya/notekeeper/pkg/helpers"
)

type recorded struct {
	method, path string
	body         []byte
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*NoteIndex, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: body})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewNoteIndex(es, "notes", helpers.NewDiscardLogger()), &reqs
}

func TestNoteIndex_Search(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"n2"},{"_id":"n1"}]}}`)
	})

	ids, err := idx.Search(context.Background(), "alice", "groc*")
	require.NoError(t, err)
	assert.Equal(t, []string{"n2", "n1"}, ids)

	require.Len(t, *reqs, 1)
	req := (*reqs)[0]
	assert.Equal(t, "/notes/_search", req.path)

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.body, &body))
	query := body["query"].(map[string]any)["bool"].(map[string]any)
	filter := query["filter"].([]any)[0].(map[string]any)
	assert.Equal(t, "alice", filter["term"].(map[string]any)["owner_id"])
	assert.Contains(t, string(req.body), `"*groc\\*"`)
}

func TestNoteIndex_SearchError(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})
	_, err := idx.Search(context.Background(), "alice", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search notes")
}

func TestNoteIndex_IndexAndRemove(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
		}
		_, _ = io.WriteString(w, `{}`)
	})
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	n := &entity.Note{ID: "n1", OwnerID: "alice", Title: "T", Content: "c", Color: "#f6d365", CreatedAt: now, UpdatedAt: now}

	require.NoError(t, idx.Index(context.Background(), n))
	require.NoError(t, idx.Remove(context.Background(), "n1"))

	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[0].method)
	assert.True(t, strings.HasSuffix((*reqs)[0].path, "/_doc/n1"))
	assert.Contains(t, string((*reqs)[0].body), `"owner_id":"alice"`)
	assert.Equal(t, http.MethodDelete, (*reqs)[1].method)
}

func TestNoteIndex_EnsureIndexCreatesWhenMissing(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	})
	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[1].method)
	assert.Contains(t, string((*reqs)[1].body), `"owner_id"`)
}
