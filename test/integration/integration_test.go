package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumumio1/mockapi/internal/config"
	"github.com/mumumio1/mockapi/internal/dataset"
	"github.com/mumumio1/mockapi/internal/instance"
	"github.com/mumumio1/mockapi/internal/log"
	"github.com/mumumio1/mockapi/internal/metrics"
	"github.com/mumumio1/mockapi/internal/model"
	"github.com/mumumio1/mockapi/internal/server"
)

// startBackend runs a full backend, middleware included, on a loopback port
func startBackend(t *testing.T, name string) *httptest.Server {
	t.Helper()

	inst := instance.New(name, 3000)
	srv := server.New(server.Options{
		Dataset:  dataset.Seed(),
		Instance: inst,
		Logger:   log.NewNopLogger(),
		Metrics:  metrics.NewMetrics(name, inst.Uptime),
		CORS:     config.CORSConfig{AllowedOrigins: []string{"*"}},
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, client *http.Client, url string, v interface{}) int {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

// TestScenario walks the reference fixtures end to end
func TestScenario(t *testing.T) {
	ts := startBackend(t, "go-mock-api-1")
	client := ts.Client()

	var post model.Post
	require.Equal(t, http.StatusOK, getJSON(t, client, ts.URL+"/posts/2", &post))
	assert.Equal(t, "Post 2", post.Title)
	assert.Equal(t, "go-mock-api-1", post.ServerInfo.Server)

	var missing model.ErrorResponse
	require.Equal(t, http.StatusNotFound, getJSON(t, client, ts.URL+"/users/3", &missing))
	assert.Equal(t, "User not found", missing.Error)
	assert.Equal(t, "go-mock-api-1", missing.ServerInfo.Server)

	var posts []model.Post
	require.Equal(t, http.StatusOK, getJSON(t, client, ts.URL+"/posts", &posts))
	assert.Len(t, posts, dataset.Seed().PostCount())
}

// TestBackendsAreDistinguishable checks that two instances behind the same
// client can be told apart by their responses
func TestBackendsAreDistinguishable(t *testing.T) {
	a := startBackend(t, "backend-a")
	b := startBackend(t, "backend-b")

	seen := map[string]bool{}
	for _, ts := range []*httptest.Server{a, b, a, b} {
		resp, err := ts.Client().Get(ts.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		seen[resp.Header.Get("X-Server-Name")] = true
	}

	assert.Equal(t, map[string]bool{"backend-a": true, "backend-b": true}, seen)
}

// TestConcurrentReads hammers every read route at once; the shared dataset
// must come back unchanged
func TestConcurrentReads(t *testing.T) {
	ts := startBackend(t, "go-mock-api-1")
	client := ts.Client()
	client.Timeout = 10 * time.Second

	paths := []string{"/health", "/posts", "/posts/1", "/users", "/users/2", "/performance", "/posts/42"}

	var wg sync.WaitGroup
	errs := make(chan error, 50*len(paths))
	for i := 0; i < 50; i++ {
		for _, p := range paths {
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				resp, err := client.Get(ts.URL + path)
				if err != nil {
					errs <- err
					return
				}
				resp.Body.Close()
				want := http.StatusOK
				if path == "/posts/42" {
					want = http.StatusNotFound
				}
				if resp.StatusCode != want {
					errs <- fmt.Errorf("%s: got %d, want %d", path, resp.StatusCode, want)
				}
			}(p)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	var posts []model.Post
	require.Equal(t, http.StatusOK, getJSON(t, client, ts.URL+"/posts", &posts))
	require.Len(t, posts, 3)
	assert.Equal(t, "Post 1", posts[0].Title)
	assert.Equal(t, "Post 3", posts[2].Title)
}

// TestPerformanceDeterministic repeats the workload over the wire
func TestPerformanceDeterministic(t *testing.T) {
	ts := startBackend(t, "go-mock-api-1")

	var results []uint64
	for i := 0; i < 5; i++ {
		var body model.PerformanceResponse
		require.Equal(t, http.StatusOK, getJSON(t, ts.Client(), ts.URL+"/performance", &body))
		assert.GreaterOrEqual(t, body.ProcessingTime, int64(0))
		results = append(results, body.Result)
	}

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}
