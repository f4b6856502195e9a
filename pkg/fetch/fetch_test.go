package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetmirror/assetmirror/pkg/model"
	"github.com/assetmirror/assetmirror/pkg/pathmap"
	"github.com/assetmirror/assetmirror/pkg/store"
)

func newTestFetcher(t *testing.T) (*Fetcher, string) {
	t.Helper()
	root := t.TempDir()
	f := New(5*time.Second, "test-agent/1.0", pathmap.New(root), store.New())
	return f, root
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFetch_StatusClassification(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		path        string
		wantOutcome model.Outcome
		wantStatus  int
		wantFile    bool
	}{
		{
			name: "200 saves body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("hello"))
			},
			path:        "/images/maps/map1.png",
			wantOutcome: model.OutcomeSaved,
			wantStatus:  http.StatusOK,
			wantFile:    true,
		},
		{
			name: "404 writes nothing",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			path:        "/images/missing.png",
			wantOutcome: model.OutcomeNotFound,
			wantStatus:  http.StatusNotFound,
		},
		{
			name: "other status is an http error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			path:        "/images/broken.png",
			wantOutcome: model.OutcomeHTTPError,
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			f, root := newTestFetcher(t)
			res := f.Fetch(context.Background(), mustParse(t, server.URL+tt.path))

			assert.Equal(t, tt.wantOutcome, res.Outcome)
			assert.Equal(t, tt.wantStatus, res.StatusCode)

			localPath := filepath.Join(root, filepath.FromSlash(tt.path[1:]))
			if tt.wantFile {
				content, err := os.ReadFile(localPath)
				require.NoError(t, err)
				assert.Equal(t, []byte("hello"), content)
				assert.Len(t, content, 5)
			} else {
				_, err := os.Stat(localPath)
				assert.True(t, os.IsNotExist(err))
			}
		})
	}
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f, _ := newTestFetcher(t)
	f.Fetch(context.Background(), mustParse(t, server.URL+"/a.bin"))

	assert.Equal(t, "test-agent/1.0", gotUA)
}

func TestFetch_SkipAndOverwrite(t *testing.T) {
	content := "version one"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(content))
	}))
	defer server.Close()

	f, root := newTestFetcher(t)
	u := mustParse(t, server.URL+"/data/asset.bin")

	res := f.Fetch(context.Background(), u)
	assert.Equal(t, model.OutcomeSaved, res.Outcome)

	res = f.Fetch(context.Background(), u)
	assert.Equal(t, model.OutcomeSkipped, res.Outcome)

	content = "version two"
	res = f.Fetch(context.Background(), u)
	assert.Equal(t, model.OutcomeOverwritten, res.Outcome)

	onDisk, err := os.ReadFile(filepath.Join(root, "data", "asset.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte("version two"), onDisk)
}

func TestFetch_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := server.URL
	server.Close() // nothing listening anymore

	f, _ := newTestFetcher(t)
	res := f.Fetch(context.Background(), mustParse(t, serverURL+"/a.bin"))

	assert.Equal(t, model.OutcomeNetwork, res.Outcome)
	assert.Error(t, res.Err)
}

func TestFetch_FilesystemFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("content"))
	}))
	defer server.Close()

	f, root := newTestFetcher(t)
	// Make the mapped parent path unusable by placing a file where a
	// directory is needed.
	require.NoError(t, os.WriteFile(filepath.Join(root, "images"), []byte("x"), 0o644))

	res := f.Fetch(context.Background(), mustParse(t, server.URL+"/images/maps/map1.png"))

	assert.Equal(t, model.OutcomeFilesystem, res.Outcome)
	assert.Error(t, res.Err)
}

func TestFetch_DefaultUserAgent(t *testing.T) {
	f := New(time.Second, "", pathmap.New(t.TempDir()), store.New())
	assert.Equal(t, "assetmirror/1.0", f.userAgent)
}
