package models

import (
	"net/http"
	"time"
)

// PEPRecord is one row of the PEP index joined with its detail page
type PEPRecord struct {
	Link         string     // Absolute URL of the PEP page
	SummaryCode  StatusCode // Abbreviation from the index table (empty when unresolvable)
	Expected     StatusSet  // Statuses the summary code allows
	DetailStatus string     // Status found on the PEP page
}

// Matches reports whether the detail status is one the summary code allows
func (r PEPRecord) Matches() bool {
	return r.Expected.Contains(r.DetailStatus)
}

// Mismatch is a PEP whose page status disagrees with its index abbreviation
type Mismatch struct {
	Link     string
	Observed string
	Expected StatusSet
}

// CachedResponse stores a successful HTTP response in the response cache
type CachedResponse struct {
	Method     string      `json:"method"`
	URL        string      `json:"url"`
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header,omitempty"`
	Body       []byte      `json:"body"`
	FetchedAt  time.Time   `json:"fetched_at"`
}
