// Package discovery queries the auxiliary listing endpoint for additional
// asset paths. The endpoint is treated as an opaque collaborator: it returns
// JSON that is either an object whose values are paths or a bare array of
// paths. Discovery failures of any kind yield an empty set; they never abort
// a batch.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/assetmirror/assetmirror/internal/logger"
)

// Client fetches discovered asset paths per segment and qualifies them
// against a fixed origin.
type Client struct {
	client    *http.Client
	endpoint  *url.URL
	origin    *url.URL
	mode      string
	userAgent string
}

// New creates a discovery client for the given listing endpoint. Relative
// entries returned by the endpoint are qualified against origin.
func New(timeout time.Duration, endpoint, origin *url.URL, mode, userAgent string) *Client {
	return &Client{
		client:    &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		origin:    origin,
		mode:      mode,
		userAgent: userAgent,
	}
}

// Discover returns the set of absolute URLs the endpoint lists for segment.
// Every failure path logs and returns an empty set.
func (c *Client) Discover(ctx context.Context, segment string) []*url.URL {
	listURL := c.buildListURL(segment)
	logger.Debugf("fetching discovery list from %s", listURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, http.NoBody)
	if err != nil {
		logger.Errorf("could not build discovery request for segment %q: %v", segment, err)
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Errorf("could not reach discovery endpoint for segment %q: %v", segment, err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logger.Errorf("discovery endpoint returned HTTP %d for segment %q", resp.StatusCode, segment)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Errorf("could not read discovery response for segment %q: %v", segment, err)
		return nil
	}

	paths, err := parsePaths(body)
	if err != nil {
		logger.Errorf("could not decode discovery response for segment %q: %v", segment, err)
		return nil
	}

	return c.qualify(paths)
}

func (c *Client) buildListURL(segment string) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("n", segment+"/")
	q.Set("mode", c.mode)
	u.RawQuery = q.Encode()
	return u.String()
}

// parsePaths normalizes the two accepted JSON shapes into a list of path
// strings. Non-string entries are dropped with a warning; any other shape is
// an error.
func parsePaths(body []byte) ([]string, error) {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var entries []interface{}
	switch v := decoded.(type) {
	case map[string]interface{}:
		for _, entry := range v {
			entries = append(entries, entry)
		}
	case []interface{}:
		entries = v
	default:
		return nil, fmt.Errorf("unexpected JSON shape %T, expected object or array", decoded)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		s, ok := entry.(string)
		if !ok {
			logger.Warnf("skipping non-string discovery entry: %v", entry)
			continue
		}
		paths = append(paths, s)
	}
	return paths, nil
}

// qualify turns discovered entries into absolute, deduplicated URLs.
func (c *Client) qualify(paths []string) []*url.URL {
	seen := make(map[string]struct{}, len(paths))
	urls := make([]*url.URL, 0, len(paths))
	for _, p := range paths {
		raw := p
		if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
			raw = strings.TrimSuffix(c.origin.String(), "/") + "/" + strings.TrimLeft(raw, "/")
		}
		u, err := url.Parse(raw)
		if err != nil {
			logger.Warnf("skipping unparseable discovery entry %q: %v", p, err)
			continue
		}
		if _, dup := seen[u.String()]; dup {
			continue
		}
		seen[u.String()] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}
