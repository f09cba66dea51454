package utils

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`) // Characters invalid in Windows/Unix filenames
var consecutiveUnderscores = regexp.MustCompile(`_+`)
const maxFilenameLength = 100

// SanitizeFilename cleans a string to be safe for use as a filename component
func SanitizeFilename(name string) string {
	sanitized := invalidFilenameChars.ReplaceAllString(name, "_")
	sanitized = consecutiveUnderscores.ReplaceAllString(sanitized, "_")
	sanitized = strings.Trim(sanitized, "_ ")

	if len(sanitized) > maxFilenameLength {
		sanitized = sanitized[:maxFilenameLength]
		sanitized = strings.Trim(sanitized, "_ ")
	}

	if sanitized == "" {
		sanitized = "untitled"
	}
	return sanitized
}

// FilenameFromURL returns the sanitized final path segment of rawURL,
// so "https://docs.python.org/3/archives/python-3.13-docs-pdf-a4.zip" becomes
// "python-3.13-docs-pdf-a4.zip". Query and fragment are ignored.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		// Fall back to plain string splitting for unparsable input
		return SanitizeFilename(rawURL[strings.LastIndex(rawURL, "/")+1:])
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		base = ""
	}
	return SanitizeFilename(base)
}
