package geocode

import (
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

// newTestLimiter returns a limiter that never blocks test lookups.
func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// providerClient returns an HTTP client that reroutes requests for the
// given provider URL prefixes (census, google) to a local test server,
// keeping the remaining path and query intact. Requests for anything
// else pass through untouched.
func providerClient(testServerURL string, prefixes ...string) *http.Client {
	targets := make(map[string]string, len(prefixes))
	for _, p := range prefixes {
		targets[p] = testServerURL
	}
	return &http.Client{Transport: &providerTransport{targets: targets}}
}

type providerTransport struct {
	targets map[string]string // provider URL prefix -> test server URL
}

func (t *providerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	orig := req.URL.String()
	for prefix, server := range t.targets {
		if !strings.HasPrefix(orig, prefix) {
			continue
		}
		rewritten, err := url.Parse(server + strings.TrimPrefix(orig, prefix))
		if err != nil {
			return nil, err
		}
		clone := req.Clone(req.Context())
		clone.URL = rewritten
		clone.Host = rewritten.Host
		return http.DefaultTransport.RoundTrip(clone)
	}
	return http.DefaultTransport.RoundTrip(req)
}
