// Package testutil provides shared HTTP test servers for integration tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// AssetServer serves a fixed set of assets by path and records how often
// each path was requested.
type AssetServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	assets   map[string]string
	requests map[string]int
}

// NewAssetServer starts a server that answers 200 with the mapped content
// for known paths and 404 for everything else. The caller must Close it.
func NewAssetServer(t *testing.T, assets map[string]string) *AssetServer {
	t.Helper()
	as := &AssetServer{
		assets:   assets,
		requests: make(map[string]int),
	}
	as.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		as.mu.Lock()
		as.requests[r.URL.Path]++
		content, ok := as.assets[r.URL.Path]
		as.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(content))
	}))
	t.Cleanup(as.Server.Close)
	return as
}

// SetAsset adds or replaces an asset while the server is running.
func (as *AssetServer) SetAsset(path, content string) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.assets[path] = content
}

// Requests returns how often the given path was requested.
func (as *AssetServer) Requests(path string) int {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.requests[path]
}

// NewDiscoveryServer starts a server that answers the listing protocol: the
// segment arrives as the "n" query parameter with a trailing slash, and the
// response is a JSON array of paths. Unknown segments yield an empty array.
// The caller must Close it.
func NewDiscoveryServer(t *testing.T, lists map[string][]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		segment := strings.TrimSuffix(r.URL.Query().Get("n"), "/")
		paths, ok := lists[segment]
		if !ok {
			paths = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(paths)
	}))
	t.Cleanup(server.Close)
	return server
}
