package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pders01/jaenan/internal/alert"
	"github.com/pders01/jaenan/internal/debuglog"
)

const maxResponseBytes = 5 * 1024 * 1024

// APIClient talks to the disaster message JSON endpoint.
type APIClient struct {
	endpoint  *url.URL
	userAgent string
	client    HTTPClient
}

func NewAPIClient(endpoint *url.URL, opts Options) *APIClient {
	u := *endpoint
	return &APIClient{
		endpoint:  &u,
		userAgent: opts.UserAgent,
		client:    opts.client(),
	}
}

type apiResponse struct {
	Data       []apiMessage `json:"data"`
	TotalPages flexInt      `json:"total_pages"`
}

type apiMessage struct {
	ID           json.RawMessage `json:"id"`
	Msg          string          `json:"msg"`
	LocationName string          `json:"location_name"`
	CreateDate   string          `json:"create_date"`
}

// flexInt accepts both 7 and "7"; an empty string or null is zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("total_pages: %w", err)
	}
	*f = flexInt(n)
	return nil
}

// rawID renders an optional id of any JSON scalar type as a string.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// URL returns the request URL for q, keeping any query parameters already
// present on the endpoint.
func (c *APIClient) URL(q alert.Query) string {
	u := *c.endpoint
	params := u.Query()
	for k, v := range q.Values() {
		params[k] = v
	}
	u.RawQuery = params.Encode()
	return u.String()
}

func (c *APIClient) Fetch(ctx context.Context, q alert.Query) (*alert.Page, error) {
	target := c.URL(q)
	log := debuglog.With(debuglog.Fields{"page": q.Page, "source": "api"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Op: "create request", URL: target, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("request failed: %v", err)
		return nil, &FetchError{Op: "get", URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnf("unexpected status %d", resp.StatusCode)
		return nil, &FetchError{
			Op:         "get",
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var body apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		log.Warnf("decode failed: %v", err)
		return nil, &FetchError{Op: "decode", URL: target, Err: err}
	}

	msgs := make([]alert.Message, 0, len(body.Data))
	for _, m := range body.Data {
		msgs = append(msgs, alert.Message{
			ID:        rawID(m.ID),
			Text:      m.Msg,
			Locations: alert.SplitLocations(m.LocationName),
			SentAt:    m.CreateDate,
		})
	}
	total := int(body.TotalPages)
	if total < 0 {
		total = 0
	}
	log.Debugf("fetched %d messages, %d pages", len(msgs), total)

	return &alert.Page{
		Messages:   alert.Normalize(msgs),
		TotalPages: total,
	}, nil
}

type apiProvider struct{}

func (apiProvider) Name() string { return "api" }

func (apiProvider) CanHandle(*url.URL) bool { return true }

func (apiProvider) Priority() int { return 0 }

func (apiProvider) New(endpoint *url.URL, opts Options) Source {
	return NewAPIClient(endpoint, opts)
}
