package validation

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// reservedParams are set by the client on every request.
var reservedParams = []string{"page", "search", "filter"}

// EndpointValidator checks the configured upstream URL before any request
// is sent to it.
type EndpointValidator struct {
	// AllowLocal permits loopback and private addresses, for tests and
	// self-hosted mirrors.
	AllowLocal bool
	MaxLength  int
}

func NewEndpointValidator(allowLocal bool) *EndpointValidator {
	return &EndpointValidator{
		AllowLocal: allowLocal,
		MaxLength:  2048,
	}
}

// Normalize trims input, defaults a missing scheme to https and returns the
// parsed URL in canonical form.
func (v *EndpointValidator) Normalize(input string) (string, error) {
	u, err := v.Parse(input)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (v *EndpointValidator) Parse(input string) (*url.URL, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return nil, fmt.Errorf("endpoint too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return nil, fmt.Errorf("endpoint contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	u, err := url.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint must use http or https, got %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("endpoint must have a hostname")
	}
	if u.User != nil {
		return nil, fmt.Errorf("endpoint must not embed credentials")
	}
	if strings.Contains(u.Path, "..") {
		return nil, fmt.Errorf("directory traversal not allowed in endpoint path")
	}

	q := u.Query()
	for _, p := range reservedParams {
		if q.Has(p) {
			return nil, fmt.Errorf("endpoint must not set the %q parameter", p)
		}
	}

	if !v.AllowLocal && isLocal(u.Hostname()) {
		return nil, fmt.Errorf("local endpoint %q not permitted", u.Hostname())
	}
	return u, nil
}

func isLocal(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}

	addr, err := netip.ParseAddr(strings.Trim(host, "[]"))
	if err != nil {
		return false
	}
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
}
