package network

import (
	"errors"
	"net/url"
	"sync"
	"time"
)

var ErrNoProxies = errors.New("no usable proxies")

// Rotator hands out proxies round-robin and benches any proxy a board has
// started blocking. 403 and 429 are the usual signals; LinkedIn uses 999.
type Rotator struct {
	proxies  []*url.URL
	cooldown time.Duration
	benched  map[string]time.Time
	index    int
	mu       sync.Mutex
}

// NewRotator parses the proxy URLs and benches blocked proxies for the given
// cooldown.
func NewRotator(raw []string, cooldown time.Duration) (*Rotator, error) {
	rotator := &Rotator{
		cooldown: cooldown,
		benched:  map[string]time.Time{},
	}

	for _, proxy := range raw {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, err
		}
		rotator.proxies = append(rotator.proxies, u)
	}

	return rotator, nil
}

// Next returns the next proxy that is not benched. ErrNoProxies means the
// pool is empty or fully benched; callers fall back to direct connections.
func (r *Rotator) Next() (*url.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.proxies) == 0 {
		return nil, ErrNoProxies
	}

	start := r.index
	for {
		proxy := r.proxies[r.index]
		r.index = (r.index + 1) % len(r.proxies)

		if !r.isBenched(proxy) {
			return proxy, nil
		}

		if r.index == start {
			return nil, ErrNoProxies
		}
	}
}

// Observe records the status a board answered through the proxy. Block and
// rate-limit codes bench it for the cooldown window.
func (r *Rotator) Observe(proxy *url.URL, status int) {
	if proxy == nil {
		return
	}
	switch status {
	case 403, 429, 999:
	default:
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.benched[proxy.String()] = time.Now().Add(r.cooldown)
}

func (r *Rotator) isBenched(proxy *url.URL) bool {
	until, ok := r.benched[proxy.String()]
	if !ok {
		return false
	}
	if time.Now().After(until) {
		delete(r.benched, proxy.String())
		return false
	}
	return true
}
