package source

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pders01/jaenan/internal/alert"
	"github.com/pders01/jaenan/internal/debuglog"
)

// RSSPageSize is how many items one page of an RSS mirror holds.
const RSSPageSize = 10

const sentAtLayout = "2006-01-02 15:04:05"

// RSSSource reads an RSS or Atom mirror of the broadcast stream. Mirrors
// return the whole recent stream, so search, region filtering and paging
// happen locally.
type RSSSource struct {
	endpoint  string
	userAgent string
	client    HTTPClient
	parser    *gofeed.Parser
}

func NewRSSSource(endpoint *url.URL, opts Options) *RSSSource {
	return &RSSSource{
		endpoint:  endpoint.String(),
		userAgent: opts.UserAgent,
		client:    opts.client(),
		parser:    gofeed.NewParser(),
	}
}

func (s *RSSSource) Fetch(ctx context.Context, q alert.Query) (*alert.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, &FetchError{Op: "create request", URL: s.endpoint, Err: err}
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "get", URL: s.endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Op:         "get",
			URL:        s.endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	feed, err := s.parser.Parse(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &FetchError{Op: "parse", URL: s.endpoint, Err: err}
	}

	var matched []alert.Message
	for _, item := range feed.Items {
		m := itemMessage(item)
		if Matches(m, q) {
			matched = append(matched, m)
		}
	}

	total := (len(matched) + RSSPageSize - 1) / RSSPageSize
	start := (q.Page - 1) * RSSPageSize
	var pageItems []alert.Message
	if start >= 0 && start < len(matched) {
		end := min(start+RSSPageSize, len(matched))
		pageItems = matched[start:end]
	}

	debuglog.With(debuglog.Fields{"page": q.Page, "source": "rss"}).
		Debugf("%d of %d items matched", len(matched), len(feed.Items))

	return &alert.Page{
		Messages:   alert.Normalize(pageItems),
		TotalPages: total,
	}, nil
}

// Matches applies a query's search term and region filter to m the way the
// JSON API does server side: the term is a substring of the text and any
// selected region appears in one of the locations.
func Matches(m alert.Message, q alert.Query) bool {
	if q.SearchTerm != "" && !strings.Contains(m.Text, q.SearchTerm) {
		return false
	}
	if len(q.Regions) == 0 {
		return true
	}
	for _, loc := range m.Locations {
		for _, region := range q.Regions {
			if strings.Contains(loc, region) {
				return true
			}
		}
	}
	return false
}

func itemMessage(item *gofeed.Item) alert.Message {
	text := item.Description
	if text == "" {
		text = item.Content
	}
	if text == "" {
		text = item.Title
	} else if item.Title != "" && !strings.HasPrefix(text, "[") {
		text = "[" + item.Title + "] " + text
	}

	sentAt := item.Published
	if item.PublishedParsed != nil {
		sentAt = item.PublishedParsed.Local().Format(sentAtLayout)
	}

	var locs []string
	for _, c := range item.Categories {
		locs = append(locs, alert.SplitLocations(c)...)
	}

	return alert.Message{
		ID:        itemID(item),
		Text:      strings.TrimSpace(text),
		Locations: locs,
		SentAt:    sentAt,
	}
}

func itemID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	h := sha256.Sum256([]byte(item.Title + "|" + item.Link + "|" + item.Published))
	return fmt.Sprintf("sha256:%x", h[:16])
}

type rssProvider struct{}

func (rssProvider) Name() string { return "rss" }

func (rssProvider) CanHandle(endpoint *url.URL) bool {
	switch strings.ToLower(path.Ext(endpoint.Path)) {
	case ".xml", ".rss", ".atom":
		return true
	}
	p := strings.ToLower(endpoint.Path)
	return strings.HasSuffix(p, "/rss") || strings.HasSuffix(p, "/feed") || strings.HasSuffix(p, "/atom")
}

func (rssProvider) Priority() int { return 10 }

func (rssProvider) New(endpoint *url.URL, opts Options) Source {
	return NewRSSSource(endpoint, opts)
}
