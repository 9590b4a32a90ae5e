// Package feedclient is a Go client for the feed endpoint. It keeps the
// per-session state the server refuses to hold: the accumulated post list,
// the seen-ID set, and whether the current scope is exhausted.
package feedclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"glimpse/internal/models"
	"glimpse/internal/service"
)

const defaultTimeout = 10 * time.Second

// Client pages through the feed for one authenticated session. All methods
// are safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client

	mu         sync.Mutex
	posts      []*models.Post
	seenIDs    []uint
	postIndex  map[uint]int
	hasMore    bool
	loading    bool
	groupID    *uint
	scopeGen   uint64
	authorized bool
	message    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a feed client for the given API base URL and bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		http:       &http.Client{Timeout: defaultTimeout},
		postIndex:  make(map[uint]int),
		hasMore:    true,
		authorized: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadMore fetches the next batch and merges it into the session. It returns
// the newly added posts. While a fetch is in flight, or once the scope is
// exhausted, further calls are no-ops returning nil.
func (c *Client) LoadMore(ctx context.Context) ([]*models.Post, error) {
	c.mu.Lock()
	if c.loading || !c.hasMore {
		c.mu.Unlock()
		return nil, nil
	}
	c.loading = true
	gen := c.scopeGen
	groupID := c.groupID
	seen := make([]uint, len(c.seenIDs))
	copy(seen, c.seenIDs)
	c.mu.Unlock()

	batch, err := c.fetch(ctx, groupID, seen)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	// A SetScope call while the request was in flight makes this response
	// stale. Drop it instead of merging posts from the old scope.
	if gen != c.scopeGen {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.authorized = batch.Authorized
	c.message = batch.Message
	c.seenIDs = batch.SeenIDs

	if len(batch.Posts) == 0 {
		c.hasMore = false
		return nil, nil
	}

	added := make([]*models.Post, 0, len(batch.Posts))
	for _, p := range batch.Posts {
		if _, exists := c.postIndex[p.ID]; exists {
			continue
		}
		c.postIndex[p.ID] = len(c.posts)
		c.posts = append(c.posts, p)
		added = append(added, p)
	}
	return added, nil
}

// SetScope switches the session to a new scope (nil for the public feed) and
// resets all accumulated state. In-flight responses from the previous scope
// are discarded when they arrive.
func (c *Client) SetScope(groupID *uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scopeGen++
	c.groupID = groupID
	c.posts = nil
	c.seenIDs = nil
	c.postIndex = make(map[uint]int)
	c.hasMore = true
	c.authorized = true
	c.message = ""
}

// Posts returns a snapshot of all posts accumulated in the current scope.
func (c *Client) Posts() []*models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*models.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// HasMore reports whether the current scope may still have unseen posts.
func (c *Client) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Authorized reports whether the last batch honored the requested scope.
func (c *Client) Authorized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authorized
}

// Message returns the server's explanation for the last fallback, if any.
func (c *Client) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

func (c *Client) fetch(ctx context.Context, groupID *uint, seen []uint) (*service.FeedBatch, error) {
	q := url.Values{}
	if len(seen) > 0 {
		parts := make([]string, len(seen))
		for i, id := range seen {
			parts[i] = strconv.FormatUint(uint64(id), 10)
		}
		q.Set("seen_ids", strings.Join(parts, ","))
	}
	if groupID != nil {
		q.Set("group_id", strconv.FormatUint(uint64(*groupID), 10))
	}

	reqURL := c.baseURL + "/api/feed"
	if encoded := q.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var batch service.FeedBatch
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("decode feed batch: %w", err)
	}
	return &batch, nil
}
