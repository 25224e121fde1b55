// Package search mirrors notes into Elasticsearch for title and content search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notekeeper/internal/domain/entity"
)

const (
	requestTimeout = 3 * time.Second
	maxHits        = 100
)

var notesMapping = `{
  "mappings": {
    "properties": {
      "owner_id":   {"type": "keyword"},
      "title":      {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "content":    {"type": "text"},
      "color":      {"type": "keyword"},
      "pinned":     {"type": "boolean"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`

// NoteIndex implements application.NoteIndexer on top of an Elasticsearch index.
type NoteIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewNoteIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *NoteIndex {
	return &NoteIndex{ES: es, Index: index, Logger: logger}
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (x *NoteIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{Index: x.Index, Body: strings.NewReader(notesMapping)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (x *NoteIndex) Index(ctx context.Context, n *entity.Note) error {
	doc := map[string]any{
		"owner_id":   n.OwnerID,
		"title":      n.Title,
		"content":    n.Content,
		"color":      n.Color,
		"pinned":     n.Pinned,
		"created_at": n.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": n.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: x.Index, DocumentID: n.ID, Body: bytes.NewReader(b), Refresh: "wait_for"}
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("index note", res)
	}
	return nil
}

func (x *NoteIndex) Remove(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.DeleteRequest{Index: x.Index, DocumentID: id}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("remove note", res)
	}
	return nil
}

// Search returns the ids of the owner's notes whose title contains q (any case) or whose
// title or content match q as text, best match first.
func (x *NoteIndex) Search(ctx context.Context, ownerID, q string) ([]string, error) {
	b, err := json.Marshal(searchQuery(ownerID, q))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, responseError("search notes", res)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func searchQuery(ownerID, q string) map[string]any {
	return map[string]any{
		"size":    maxHits,
		"_source": false,
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"owner_id": ownerID}},
				},
				"should": []any{
					map[string]any{"wildcard": map[string]any{
						"title.raw": map[string]any{
							"value":            "*" + wildcardEscaper.Replace(q) + "*",
							"case_insensitive": true,
						},
					}},
					map[string]any{"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "content"},
					}},
				},
				"minimum_should_match": 1,
			},
		},
	}
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("%s: elasticsearch %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
}
