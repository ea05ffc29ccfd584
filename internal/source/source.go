// Package source adapts upstream broadcast feeds to alert.Page results.
package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pders01/jaenan/internal/alert"
	"github.com/pders01/jaenan/internal/validation"
)

// Source produces one page of messages for a query.
type Source interface {
	Fetch(ctx context.Context, q alert.Query) (*alert.Page, error)
}

// HTTPClient is the part of *http.Client the sources rely on.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configure a Source built through a Registry.
type Options struct {
	Endpoint   string
	UserAgent  string
	Timeout    time.Duration
	AllowLocal bool
	// Client overrides the default *http.Client, mainly for tests.
	Client HTTPClient
}

func (o Options) client() HTTPClient {
	if o.Client != nil {
		return o.Client
	}
	// A zero Timeout leaves the transport default in place.
	return &http.Client{Timeout: o.Timeout}
}

// Provider builds a Source for endpoints it recognizes.
type Provider interface {
	Name() string
	CanHandle(endpoint *url.URL) bool
	// Priority breaks ties when several providers accept an endpoint;
	// higher wins.
	Priority() int
	New(endpoint *url.URL, opts Options) Source
}

type Registry struct {
	providers []Provider
}

func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry knows the JSON API and RSS/Atom mirrors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(apiProvider{})
	r.Register(rssProvider{})
	return r
}

func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// Providers returns the registered providers ordered by priority, highest
// first.
func (r *Registry) Providers() []Provider {
	out := append([]Provider(nil), r.providers...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority() > out[j].Priority()
	})
	return out
}

// Find returns the provider called name, or for "" and "auto" the highest
// priority provider that can handle endpoint.
func (r *Registry) Find(name string, endpoint *url.URL) Provider {
	for _, p := range r.Providers() {
		if name != "" && name != "auto" {
			if p.Name() == name {
				return p
			}
			continue
		}
		if p.CanHandle(endpoint) {
			return p
		}
	}
	return nil
}

// Open validates opts.Endpoint and builds a Source with the matching provider.
func (r *Registry) Open(name string, opts Options) (Source, error) {
	endpoint, err := validation.NewEndpointValidator(opts.AllowLocal).Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid feed endpoint: %w", err)
	}

	p := r.Find(name, endpoint)
	if p == nil {
		if name != "" && name != "auto" {
			return nil, fmt.Errorf("unknown feed source %q", name)
		}
		return nil, fmt.Errorf("no feed source can handle %s", endpoint)
	}
	return p.New(endpoint, opts), nil
}
