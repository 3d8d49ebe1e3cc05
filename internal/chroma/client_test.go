package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetOrCreateCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/collections", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreateCollectionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "assessment_catalog", req.Name)
		assert.True(t, req.GetOrCreate)

		json.NewEncoder(w).Encode(Collection{ID: "col-123", Name: req.Name})
	}))
	defer server.Close()

	client := NewClient(server.URL, logrus.New())

	collection, err := client.GetOrCreateCollection("assessment_catalog")
	require.NoError(t, err)
	assert.Equal(t, "col-123", collection.ID)
}

func TestClient_Query(t *testing.T) {
	expected := QueryResponse{
		IDs:       [][]string{{"https://example.com/view/java-8"}},
		Documents: [][]string{{"Product Name: Java 8"}},
		Metadatas: [][]map[string]interface{}{{{"name": "Java 8", "duration": float64(30)}}},
		Distances: [][]float64{{0.12}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/collections/col-123/query", r.URL.Path)

		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 20, req.NResults)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expected)
	}))
	defer server.Close()

	client := NewClient(server.URL, logrus.New())

	response, err := client.Query("col-123", QueryRequest{
		QueryEmbeddings: [][]float64{{0.1, 0.2}},
		NResults:        20,
		Include:         []string{"metadatas", "documents", "distances"},
	})
	require.NoError(t, err)
	assert.Equal(t, expected.IDs, response.IDs)
	assert.Equal(t, expected.Metadatas[0][0]["name"], response.Metadatas[0][0]["name"])
}

func TestClient_ErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid request"))
	}))
	defer server.Close()

	client := NewClient(server.URL, logrus.New())

	err := client.Add("col-123", AddRequest{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestService_QueryCandidatesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/collections":
			json.NewEncoder(w).Encode(Collection{ID: "col-9", Name: "assessment_catalog"})
		case "/api/v1/collections/col-9/query":
			json.NewEncoder(w).Encode(QueryResponse{
				IDs:       [][]string{{"u1", "u2", "u3"}},
				Documents: [][]string{{"d1", "d2", "d3"}},
				Metadatas: [][]map[string]interface{}{{{"name": "A"}, {"name": "B"}, {"name": "C"}}},
				Distances: [][]float64{{0.1, 0.2, 0.3}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	service := NewService(NewClient(server.URL, logrus.New()), "assessment_catalog", logrus.New())

	docs, err := service.QueryCandidates(context.Background(), []float64{0.5}, 3)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	// Rank order must be preserved: most similar first.
	assert.Equal(t, "u1", docs[0].ID)
	assert.Equal(t, "u3", docs[2].ID)
	assert.Equal(t, "A", docs[0].Metadata["name"])
}

// The collection is resolved lazily, and the first requests after boot can
// arrive together; concurrent queries must not race on that resolution.
// Run with -race.
func TestService_ConcurrentQueriesResolveCollectionOnce(t *testing.T) {
	var mu sync.Mutex
	creates := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/collections":
			mu.Lock()
			creates++
			mu.Unlock()
			json.NewEncoder(w).Encode(Collection{ID: "col-9", Name: "assessment_catalog"})
		case "/api/v1/collections/col-9/query":
			json.NewEncoder(w).Encode(QueryResponse{
				IDs:       [][]string{{"u1"}},
				Documents: [][]string{{"d1"}},
				Metadatas: [][]map[string]interface{}{{{"name": "A"}}},
				Distances: [][]float64{{0.1}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	service := NewService(NewClient(server.URL, logrus.New()), "assessment_catalog", logrus.New())

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.QueryCandidates(context.Background(), []float64{0.5}, 1)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, creates)
}
