package storage

import (
	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
)

// ResponseCache memoizes HTTP responses keyed by (method, URL)
type ResponseCache interface {
	// Get returns the cached response, whether it was found, and any error
	Get(method, rawURL string) (*models.CachedResponse, bool, error)

	// Put stores (or replaces) the response for method and URL
	Put(method, rawURL string, resp *models.CachedResponse) error

	// Clear removes every cached response
	Clear() error

	// Count returns the number of cached responses
	Count() (int, error)
}

// CacheStore combines the cache with lifecycle and administrative operations
type CacheStore interface {
	ResponseCache

	// WriteIndex writes "METHOD URL" of every cached response to filePath
	WriteIndex(filePath string) error

	// Close cleanly closes the database connection
	Close() error
}
