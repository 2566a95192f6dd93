package elastic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"EliteRegistry/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]any
}

func newTestRepo(t *testing.T, respond func(r *http.Request) string) (*CourseSearchRepo, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		seen = append(seen, rec)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, respond(r))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return NewCourseSearchRepository(client, CourseIndex), &seen
}

func TestSearchReturnsHitIDsInOrder(t *testing.T) {
	repo, seen := newTestRepo(t, func(*http.Request) string {
		return `{"hits":{"hits":[{"_id":"c2"},{"_id":"c1"}]}}`
	})

	ids, err := repo.Search(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if strings.Join(ids, ",") != "c2,c1" {
		t.Fatalf("ids = %v", ids)
	}
	if len(*seen) != 1 || (*seen)[0].path != "/courses/_search" {
		t.Fatalf("requests = %+v", *seen)
	}
	if size, _ := (*seen)[0].body["size"].(float64); size != 5 {
		t.Fatalf("size = %v", (*seen)[0].body["size"])
	}
}

func TestIndexWritesCourseDocument(t *testing.T) {
	repo, seen := newTestRepo(t, func(*http.Request) string {
		return `{"result":"created"}`
	})

	err := repo.Index(context.Background(), models.Course{ID: "c1", Title: "Go", Description: "d", Instructor: "Rob"})
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	req := (*seen)[0]
	if req.method != http.MethodPut || req.path != "/courses/_doc/c1" {
		t.Fatalf("request = %s %s", req.method, req.path)
	}
	if req.body["title"] != "Go" || req.body["instructor"] != "Rob" {
		t.Fatalf("body = %v", req.body)
	}
}

func TestCount(t *testing.T) {
	repo, _ := newTestRepo(t, func(*http.Request) string { return `{"count":7}` })
	n, err := repo.Count(context.Background(), "go")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 7 {
		t.Fatalf("count = %d", n)
	}
}
