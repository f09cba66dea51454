package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// RobotsGuard fetches, caches and checks robots.txt per host.
// Hosts whose robots.txt cannot be fetched or parsed are treated as allowed.
type RobotsGuard struct {
	client      *http.Client
	rateLimiter *RateLimiter
	delay       time.Duration
	userAgent   string
	robotsCache map[string]*robotstxt.RobotsData // hostname -> parsed data (or nil)
	robotsMu    sync.Mutex
	inflight    singleflight.Group
	log         *logrus.Entry
}

// NewRobotsGuard creates a RobotsGuard. rt must not be the caching transport
// that consults this guard.
func NewRobotsGuard(rt http.RoundTripper, rateLimiter *RateLimiter, delay time.Duration, userAgent string, log *logrus.Entry) *RobotsGuard {
	return &RobotsGuard{
		client:      &http.Client{Transport: rt, Timeout: 30 * time.Second},
		rateLimiter: rateLimiter,
		delay:       delay,
		userAgent:   userAgent,
		robotsCache: make(map[string]*robotstxt.RobotsData),
		log:         log,
	}
}

// Allowed reports whether the configured user agent may fetch target.
func (rg *RobotsGuard) Allowed(ctx context.Context, target *url.URL) bool {
	data := rg.robotsData(ctx, target)
	if data == nil {
		return true
	}
	return data.TestAgent(target.RequestURI(), rg.userAgent)
}

func (rg *RobotsGuard) robotsData(ctx context.Context, target *url.URL) *robotstxt.RobotsData {
	host := target.Host

	rg.robotsMu.Lock()
	data, found := rg.robotsCache[host]
	rg.robotsMu.Unlock()
	if found {
		return data
	}

	// Concurrent workers hitting the same host share one robots.txt fetch
	v, _, _ := rg.inflight.Do(host, func() (interface{}, error) {
		fetched := rg.fetchRobots(ctx, target)
		rg.robotsMu.Lock()
		rg.robotsCache[host] = fetched
		rg.robotsMu.Unlock()
		return fetched, nil
	})
	return v.(*robotstxt.RobotsData)
}

func (rg *RobotsGuard) fetchRobots(ctx context.Context, target *url.URL) *robotstxt.RobotsData {
	robotsURL := &url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/robots.txt"}
	if robotsURL.Scheme != "http" && robotsURL.Scheme != "https" {
		robotsURL.Scheme = "https"
	}
	robotsLog := rg.log.WithField("robots_url", robotsURL.String())
	robotsLog.Info("Fetching robots.txt...")

	rg.rateLimiter.ApplyDelay(ctx, target.Hostname(), rg.delay)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		robotsLog.Errorf("Error creating request: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", rg.userAgent)

	resp, err := rg.client.Do(req)
	rg.rateLimiter.UpdateLastRequestTime(target.Hostname())
	if err != nil {
		robotsLog.Warnf("Fetching robots.txt failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		robotsLog.Warnf("Error reading robots.txt body: %v", err)
		return nil
	}

	// FromStatusAndBytes applies the usual rules: 4xx allows all, 5xx disallows all
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		robotsLog.Warnf("Error parsing robots.txt: %v", err)
		return nil
	}
	robotsLog.Debug("Parsed robots.txt")
	return data
}
