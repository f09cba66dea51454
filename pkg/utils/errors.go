package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrConnection      = errors.New("connection issue")          // Transport failure or unusable response for one URL
	ErrClientHTTPError = errors.New("client HTTP error (4xx)")   // Wraps original status
	ErrServerHTTPError = errors.New("server HTTP error (5xx)")   // Wraps original status
	ErrOtherHTTPError  = errors.New("other HTTP error (non-2xx)") // Wraps original status

	ErrTagNotFound           = errors.New("tag not found")
	ErrNoVersionsList        = errors.New("no versions list found")
	ErrStatusNotFound        = errors.New("status field not found on PEP page")
	ErrMalformedAbbreviation = errors.New("malformed status abbreviation")
	ErrUnknownStatusCode     = errors.New("unknown status code")

	ErrUsage         = errors.New("usage error")
	ErrUnknownMode   = errors.New("unknown mode")
	ErrUnknownOutput = errors.New("unknown output format")

	ErrRobotsDisallowed = errors.New("disallowed by robots.txt")
	ErrParsing          = errors.New("parsing error")    // Wraps specific parsing error (HTML, URL, JSON)
	ErrFilesystem       = errors.New("filesystem error") // Wraps os errors
	ErrDatabase         = errors.New("database error")   // Wraps badger errors
	ErrRequestCreation  = errors.New("failed to create HTTP request")
	ErrResponseBodyRead = errors.New("failed to read response body")
	ErrConfigValidation = errors.New("configuration validation error")
)

// WrapErrorf annotates err with a formatted message, keeping it unwrappable.
// Returns nil when err is nil.
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsParserError reports whether err belongs to the family of scraping failures
// the runner handles gracefully: connection issues and page-structure violations.
func IsParserError(err error) bool {
	switch {
	case errors.Is(err, ErrConnection),
		errors.Is(err, ErrTagNotFound),
		errors.Is(err, ErrNoVersionsList),
		errors.Is(err, ErrStatusNotFound),
		errors.Is(err, ErrRobotsDisallowed),
		errors.Is(err, ErrParsing):
		return true
	}
	return false
}

// CategorizeError maps an error to a predefined category string for logging.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	// Structural failures first: they are never wrapped in ErrConnection
	switch {
	case errors.Is(err, ErrTagNotFound):
		return "Content_TagNotFound"
	case errors.Is(err, ErrNoVersionsList):
		return "Content_NoVersionsList"
	case errors.Is(err, ErrStatusNotFound):
		return "Content_StatusNotFound"
	case errors.Is(err, ErrMalformedAbbreviation):
		return "Content_MalformedAbbreviation"
	case errors.Is(err, ErrUnknownStatusCode):
		return "Content_UnknownStatusCode"
	case errors.Is(err, ErrUsage), errors.Is(err, ErrUnknownMode), errors.Is(err, ErrUnknownOutput):
		return "CLI_Usage"
	case errors.Is(err, ErrRobotsDisallowed):
		return "Policy_Robots"
	}

	switch {
	case errors.Is(err, ErrClientHTTPError):
		errMsg := err.Error()
		if strings.Contains(errMsg, " 404 ") {
			return "HTTP_404"
		}
		if strings.Contains(errMsg, " 403 ") {
			return "HTTP_403"
		}
		if strings.Contains(errMsg, " 429 ") {
			return "HTTP_429"
		}
		return "HTTP_4xx"
	case errors.Is(err, ErrServerHTTPError):
		return "HTTP_5xx"
	case errors.Is(err, ErrOtherHTTPError):
		return "HTTP_OtherStatus"
	case errors.Is(err, ErrParsing):
		errMsg := err.Error()
		if strings.Contains(errMsg, "URL") {
			return "Content_ParsingURL"
		}
		if strings.Contains(errMsg, "HTML") {
			return "Content_ParsingHTML"
		}
		if strings.Contains(errMsg, "JSON") {
			return "Content_ParsingJSON"
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrFilesystem):
		if errors.Is(err, os.ErrPermission) {
			return "Filesystem_Permission"
		}
		if errors.Is(err, os.ErrNotExist) {
			return "Filesystem_NotExist"
		}
		return "Filesystem_Other"
	case errors.Is(err, ErrDatabase):
		return "Database_Other"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrResponseBodyRead):
		return "Network_BodyRead"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	}

	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Network_Timeout"
	}
	lowerErrMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerErrMsg, "timeout"):
		return "Network_TimeoutGeneric"
	case strings.Contains(lowerErrMsg, "connection refused"):
		return "Network_ConnectionRefused"
	case strings.Contains(lowerErrMsg, "no such host"):
		return "Network_DNSLookup"
	case strings.Contains(lowerErrMsg, "tls") || strings.Contains(lowerErrMsg, "certificate"):
		return "Network_TLS"
	case strings.Contains(lowerErrMsg, "reset by peer"):
		return "Network_ConnectionReset"
	}

	if errors.Is(err, ErrConnection) {
		return "Network_Other"
	}
	return "Unknown"
}
