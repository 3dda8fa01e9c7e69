package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
)

type recorded struct {
	method, path string
	body         map[string]any
}

func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &calls
}

func TestProductIndex_Index(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})
	x := NewProductIndex(es, "products")
	p := &entity.Product{ID: "p-1", Name: "Speaker", Brand: "Acme"}
	p.SetPrice(decimal.RequireFromString("10"), decimal.NullDecimal{})

	require.NoError(t, x.Index(context.Background(), p))
	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, http.MethodPut, c.method)
	assert.Equal(t, "/products/_doc/p-1", c.path)
	assert.Equal(t, "Acme", c.body["brand"])
	assert.Equal(t, "10.00", c.body["price"])
}

func TestProductIndex_Search(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"p-2"},{"_id":"p-1"}]}}`)
	})
	x := NewProductIndex(es, "products")

	ids, err := x.Search(context.Background(), "speaker", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-2", "p-1"}, ids)
	c := (*calls)[0]
	assert.True(t, strings.HasSuffix(c.path, "/_search"))
	assert.EqualValues(t, 5, c.body["size"])
}

func TestProductIndex_RemoveMissingIsFine(t *testing.T) {
	es, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	})
	x := NewProductIndex(es, "products")
	assert.NoError(t, x.Remove(context.Background(), "p-1"))
}

func TestProductIndex_SearchError(t *testing.T) {
	es, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad"}`)
	})
	x := NewProductIndex(es, "products")
	_, err := x.Search(context.Background(), "speaker", 5)
	assert.Error(t, err)
}
