package httpfetch

import (
	"fmt"
	"net/http"
	"net/url"
)

// Identity holds the fixed user agent and the optional proxy every request goes through.
type Identity struct {
	userAgent string
	proxy     *url.URL
}

// NewIdentity validates proxyURL (which may be empty) and returns the request identity.
func NewIdentity(userAgent, proxyURL string) (*Identity, error) {
	id := &Identity{userAgent: userAgent}
	if proxyURL == "" {
		return id, nil
	}
	u, err := url.Parse(proxyURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy url %q", proxyURL)
	}
	id.proxy = u
	return id, nil
}

// UserAgent returns the identifying user agent string.
func (i *Identity) UserAgent() string {
	return i.userAgent
}

// Transport returns an HTTP transport routed through the proxy, if one is set.
func (i *Identity) Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if i.proxy != nil {
		t.Proxy = http.ProxyURL(i.proxy)
	}
	return t
}
