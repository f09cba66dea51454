package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/unicode"

	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// Page is a fetched 2xx response
type Page struct {
	URL        string // Final URL after redirects
	StatusCode int
	Header     http.Header
	Body       []byte // Raw bytes, as received
	FromCache  bool
}

// Text returns the body decoded as UTF-8 regardless of the declared charset.
// Invalid sequences are replaced with U+FFFD.
func (p *Page) Text() string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(p.Body)
	if err != nil {
		return string(p.Body)
	}
	return string(decoded)
}

// HTTPFetcher is what extractors need from the network layer
type HTTPFetcher interface {
	Get(ctx context.Context, rawURL string) (*Page, error)
	Document(ctx context.Context, rawURL string) (*goquery.Document, error)
}

// Fetcher performs single-attempt GET requests through the shared client
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       *logrus.Entry
}

// NewFetcher creates a new Fetcher instance
func NewFetcher(client *http.Client, userAgent string, log *logrus.Entry) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		log:       log,
	}
}

// Get fetches rawURL once. Transport failures and non-2xx responses are logged
// with a stack trace and returned wrapped in utils.ErrConnection, the signal
// callers use to skip the URL. Context cancellation is returned unwrapped.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Page, error) {
	reqLog := f.log.WithField("url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, f.connectionIssue(reqLog, fmt.Errorf("%w: %w", utils.ErrRequestCreation, err))
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			reqLog.Warnf("Request cancelled: %v", ctxErr)
			return nil, ctxErr
		}
		if errors.Is(err, utils.ErrRobotsDisallowed) {
			reqLog.Warn("Skipping URL disallowed by robots.txt")
			return nil, fmt.Errorf("%w: %w", utils.ErrConnection, err)
		}
		return nil, f.connectionIssue(reqLog, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		var statusErr error
		switch {
		case resp.StatusCode >= 500:
			statusErr = utils.ErrServerHTTPError
		case resp.StatusCode >= 400:
			statusErr = utils.ErrClientHTTPError
		default:
			statusErr = utils.ErrOtherHTTPError
		}
		return nil, f.connectionIssue(reqLog, fmt.Errorf("%w: status %d %s", statusErr, resp.StatusCode, resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, f.connectionIssue(reqLog, fmt.Errorf("%w: %w", utils.ErrResponseBodyRead, err))
	}

	page := &Page{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		FromCache:  resp.Header.Get(XFromCache) == "1",
	}
	reqLog.WithFields(logrus.Fields{"status_code": page.StatusCode, "from_cache": page.FromCache, "bytes": len(body)}).Debug("Fetched")
	return page, nil
}

// Document fetches rawURL and parses it as HTML
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	page, err := f.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Text()))
	if err != nil {
		f.log.WithField("url", rawURL).Errorf("Failed to parse HTML: %v", err)
		return nil, fmt.Errorf("%w: parse HTML of '%s': %w", utils.ErrParsing, rawURL, err)
	}
	return doc, nil
}

func (f *Fetcher) connectionIssue(reqLog *logrus.Entry, cause error) error {
	err := fmt.Errorf("%w: %w", utils.ErrConnection, cause)
	reqLog.WithFields(logrus.Fields{
		"error_type": utils.CategorizeError(err),
		"stack":      string(debug.Stack()),
	}).Errorf("Fetch failed: %v", cause)
	return err
}
