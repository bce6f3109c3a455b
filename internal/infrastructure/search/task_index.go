// Package search keeps an Elasticsearch index of tasks for full-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
)

type TaskIndex struct {
	ES        *elasticsearch.Client
	IndexName string
	Timeout   time.Duration
}

// NewTaskIndex returns nil when es is nil, which leaves search on the
// database fallback.
func NewTaskIndex(es *elasticsearch.Client, index string) *TaskIndex {
	if es == nil || index == "" {
		return nil
	}
	return &TaskIndex{ES: es, IndexName: index, Timeout: 3 * time.Second}
}

// taskMapping pins user_id to keyword so the owner filter matches whole ids.
var taskMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":          map[string]any{"type": "long"},
			"user_id":     map[string]any{"type": "keyword"},
			"title":       map[string]any{"type": "text"},
			"description": map[string]any{"type": "text"},
			"completed":   map[string]any{"type": "boolean"},
			"priority":    map[string]any{"type": "keyword"},
			"due_date":    map[string]any{"type": "date"},
			"updated_at":  map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *TaskIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{x.IndexName}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	switch {
	case exists.StatusCode == http.StatusOK:
		return nil
	case exists.StatusCode != http.StatusNotFound:
		return fmt.Errorf("es index exists: %s", exists.Status())
	}

	b, err := json.Marshal(taskMapping)
	if err != nil {
		return err
	}
	res, err := esapi.IndicesCreateRequest{Index: x.IndexName, Body: bytes.NewReader(b)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		// another instance may have created it in between
		raw, _ := io.ReadAll(res.Body)
		if res.StatusCode == http.StatusBadRequest && bytes.Contains(raw, []byte("resource_already_exists_exception")) {
			return nil
		}
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}

type taskDoc struct {
	ID          int64   `json:"id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date,omitempty"`
	UpdatedAt   string  `json:"updated_at"`
}

func toDoc(t *entity.Task) taskDoc {
	d := taskDoc{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Completed: t.Completed,
		Priority:  string(t.Priority),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.Description != nil {
		d.Description = *t.Description
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339)
		d.DueDate = &s
	}
	return d
}

func (x *TaskIndex) Index(ctx context.Context, t *entity.Task) error {
	b, err := json.Marshal(toDoc(t))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: strconv.FormatInt(t.ID, 10), Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *TaskIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over title and description, filtered to the
// owner, and returns matching task ids by score.
func (x *TaskIndex) Search(ctx context.Context, userID, q string, size int) ([]int64, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.IndexName), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
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

	out := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
