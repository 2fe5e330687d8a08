// Package network provides the outbound HTTP layer shared by every source
// adapter: a browser-impersonating TLS client with rotating user agents and
// optional proxy rotation. Seek and Jora reject plain Go clients outright,
// so everything goes through tls-client's Chrome profile.
package network

import (
	"math/rand"
	"net/url"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// Client wraps one tls-client session. Each adapter gets its own Client so
// cookies never leak between boards.
type Client struct {
	http       tls_client.HttpClient
	rotator    *Rotator
	userAgents []string
	rand       *rand.Rand
}

// NewClient builds a Chrome-profile client. A nil rotator means direct
// connections.
func NewClient(rotator *Rotator) (*Client, error) {
	jar, _ := fhttpcookiejar.New(nil)

	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(30),
		tls_client.WithCookieJar(jar),
	)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Client{
		http:       client,
		rotator:    rotator,
		userAgents: append([]string{}, userAgents...),
		rand:       rng,
	}, nil
}

// Do sends the request through the next usable proxy, filling in a random
// browser user agent when the caller set none. Block-signalling status codes
// are reported back to the rotator so the proxy cools down.
func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	proxy := c.nextProxy()
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.randomUA())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if proxy != nil {
		c.rotator.Observe(proxy, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) nextProxy() *url.URL {
	if c.rotator == nil {
		return nil
	}
	proxy, err := c.rotator.Next()
	if err != nil || proxy == nil {
		return nil
	}
	_ = c.http.SetProxy(proxy.String())
	return proxy
}

func (c *Client) randomUA() string {
	if len(c.userAgents) == 0 {
		return ""
	}
	return c.userAgents[c.rand.Intn(len(c.userAgents))]
}
