package fetch

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
	"github.com/Sriram-PR/pydocs-scraper/pkg/storage"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// XFromCache is set to "1" on responses served from the response cache
const XFromCache = "X-From-Cache"

// CachingTransport memoizes successful and redirect GET responses in a ResponseCache.
// Caching each redirect hop lets a rerun follow the whole chain offline.
// Cache misses are spaced per host by the RateLimiter and, when a RobotsGuard
// is set, checked against robots.txt before going to the network.
type CachingTransport struct {
	next        http.RoundTripper
	cache       storage.ResponseCache // nil disables caching
	rateLimiter *RateLimiter
	delay       time.Duration
	robots      *RobotsGuard // nil disables robots.txt checks
	now         func() time.Time
	log         *logrus.Entry
}

// NewCachingTransport creates a CachingTransport wrapping next
func NewCachingTransport(next http.RoundTripper, cache storage.ResponseCache, rateLimiter *RateLimiter, delay time.Duration, robots *RobotsGuard, log *logrus.Entry) *CachingTransport {
	return &CachingTransport{
		next:        next,
		cache:       cache,
		rateLimiter: rateLimiter,
		delay:       delay,
		robots:      robots,
		now:         time.Now,
		log:         log,
	}
}

// RoundTrip implements http.RoundTripper
func (t *CachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rawURL := req.URL.String()
	reqLog := t.log.WithFields(logrus.Fields{"method": req.Method, "url": rawURL})
	cacheable := t.cache != nil && req.Method == http.MethodGet

	if cacheable {
		cached, ok, err := t.cache.Get(req.Method, rawURL)
		if err != nil {
			reqLog.Warnf("Cache lookup failed, going to network: %v", err)
		} else if ok {
			reqLog.Debug("Cache hit")
			return cachedToResponse(cached, req), nil
		}
	}

	if t.robots != nil && !t.robots.Allowed(req.Context(), req.URL) {
		reqLog.Warn("Request disallowed by robots.txt")
		return nil, fmt.Errorf("%w: %s", utils.ErrRobotsDisallowed, rawURL)
	}

	host := req.URL.Hostname()
	if t.rateLimiter != nil {
		t.rateLimiter.ApplyDelay(req.Context(), host, t.delay)
	}
	resp, err := t.next.RoundTrip(req)
	if t.rateLimiter != nil {
		t.rateLimiter.UpdateLastRequestTime(host)
	}
	if err != nil {
		return nil, err
	}

	if !cacheable || !storable(resp) {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrResponseBodyRead, err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := &models.CachedResponse{
		Method:     req.Method,
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		FetchedAt:  t.now(),
	}
	if errPut := t.cache.Put(req.Method, rawURL, entry); errPut != nil {
		// A failed write only costs a refetch next run
		reqLog.Warnf("Failed to cache response: %v", errPut)
	}
	return resp, nil
}

// storable reports whether resp may be cached: any 2xx, or a redirect that
// says where to go next
func storable(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return resp.Header.Get("Location") != ""
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func cachedToResponse(cached *models.CachedResponse, req *http.Request) *http.Response {
	header := cached.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set(XFromCache, "1")
	return &http.Response{
		Status:        strconv.Itoa(cached.StatusCode) + " " + http.StatusText(cached.StatusCode),
		StatusCode:    cached.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(cached.Body)),
		ContentLength: int64(len(cached.Body)),
		Request:       req,
	}
}
