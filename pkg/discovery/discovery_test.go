package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	endpointURL, err := url.Parse(endpoint)
	require.NoError(t, err)
	origin, err := url.Parse("https://assets.example.com/")
	require.NoError(t, err)
	return New(5*time.Second, endpointURL, origin, "tfm", "test-agent/1.0")
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name     string
		response string
		status   int
		want     []string
	}{
		{
			name:     "object values become the path list",
			response: `{"0":"images/a.png","1":"images/b.png"}`,
			status:   http.StatusOK,
			want: []string{
				"https://assets.example.com/images/a.png",
				"https://assets.example.com/images/b.png",
			},
		},
		{
			name:     "array is used directly",
			response: `["images/a.png","/images/b.png"]`,
			status:   http.StatusOK,
			want: []string{
				"https://assets.example.com/images/a.png",
				"https://assets.example.com/images/b.png",
			},
		},
		{
			name:     "absolute entries are kept as-is",
			response: `["http://cdn.example.net/x.swf","images/a.png"]`,
			status:   http.StatusOK,
			want: []string{
				"http://cdn.example.net/x.swf",
				"https://assets.example.com/images/a.png",
			},
		},
		{
			name:     "non-string entries are skipped",
			response: `["images/a.png", 42, null, "images/b.png"]`,
			status:   http.StatusOK,
			want: []string{
				"https://assets.example.com/images/a.png",
				"https://assets.example.com/images/b.png",
			},
		},
		{
			name:     "duplicates collapse",
			response: `["images/a.png","images/a.png"]`,
			status:   http.StatusOK,
			want:     []string{"https://assets.example.com/images/a.png"},
		},
		{
			name:     "invalid JSON yields empty set",
			response: `<html>not json</html>`,
			status:   http.StatusOK,
			want:     nil,
		},
		{
			name:     "unexpected shape yields empty set",
			response: `"just a string"`,
			status:   http.StatusOK,
			want:     nil,
		},
		{
			name:     "non-200 yields empty set",
			response: `["images/a.png"]`,
			status:   http.StatusServiceUnavailable,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "images/", r.URL.Query().Get("n"))
				assert.Equal(t, "tfm", r.URL.Query().Get("mode"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			c := newTestClient(t, server.URL)
			got := c.Discover(context.Background(), "images")

			gotStrings := make([]string, 0, len(got))
			for _, u := range got {
				gotStrings = append(gotStrings, u.String())
			}
			if tt.want == nil {
				assert.Empty(t, gotStrings)
				return
			}
			// Object iteration order is not stable, compare as sets.
			assert.ElementsMatch(t, tt.want, gotStrings)
		})
	}
}

func TestDiscover_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	c := newTestClient(t, endpoint)
	assert.Empty(t, c.Discover(context.Background(), "images"))
}
