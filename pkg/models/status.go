package models

import "strings"

// StatusCode is the one-letter PEP status abbreviation shown in the index table ("" for drafts)
type StatusCode string

// StatusSet is an ordered collection of acceptable full status labels
type StatusSet []string

// Contains reports exact membership of status in the set
func (s StatusSet) Contains(status string) bool {
	for _, candidate := range s {
		if candidate == status {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer for logging
func (s StatusSet) String() string {
	return strings.Join(s, ", ")
}

const (
	// UnknownSummaryStatus is the expected-status fallback for index rows whose abbreviation is unusable
	UnknownSummaryStatus = "Some unknown status"
	// UnknownDetailStatus labels PEP pages without a "Status:" field
	UnknownDetailStatus = "Unknown"
)

// expectedStatus maps index abbreviations to the statuses a PEP page may show
var expectedStatus = map[StatusCode]StatusSet{
	"A": {"Active", "Accepted"},
	"D": {"Deferred"},
	"F": {"Final"},
	"P": {"Provisional"},
	"R": {"Rejected"},
	"S": {"Superseded"},
	"W": {"Withdrawn"},
	"":  {"Draft", "Active"},
}

// ExpectedStatuses returns a copy of the acceptable statuses for code
func ExpectedStatuses(code StatusCode) (StatusSet, bool) {
	set, ok := expectedStatus[code]
	if !ok {
		return nil, false
	}
	return append(StatusSet(nil), set...), true
}

// UnknownStatusSet is the expected set used when a row's code cannot be resolved.
// It only contains the fallback label, so any real PEP status is reported as a mismatch.
func UnknownStatusSet() StatusSet {
	return StatusSet{UnknownSummaryStatus}
}
