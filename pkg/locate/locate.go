package locate

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// FindTag returns the first descendant of sel, in document order, named tag whose
// attributes match attrs. The "class" filter matches a single class token or the
// full class attribute; every other attribute must match exactly.
//
// A miss is logged and returned as utils.ErrTagNotFound: callers depend on the
// page layout, and a missing tag means it changed.
func FindTag(sel *goquery.Selection, tag string, attrs map[string]string, log *logrus.Entry) (*goquery.Selection, error) {
	match := sel.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return matchesAttrs(s, attrs)
	}).First()

	if match.Length() == 0 {
		log.WithFields(logrus.Fields{"tag": tag, "attrs": formatAttrs(attrs)}).Error("Tag not found")
		return nil, fmt.Errorf("%w: <%s> with attrs %s", utils.ErrTagNotFound, tag, formatAttrs(attrs))
	}
	return match, nil
}

// SelectOne returns the first match of a CSS selector under sel, or nil.
// It never fails; an invalid selector simply matches nothing.
func SelectOne(sel *goquery.Selection, selector string) *goquery.Selection {
	match := sel.Find(selector).First()
	if match.Length() == 0 {
		return nil
	}
	return match
}

// ResolveURL resolves href against base the way a browser would
func ResolveURL(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base URL '%s': %w", utils.ErrParsing, base, err)
	}
	ref, err := baseURL.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL href '%s': %w", utils.ErrParsing, href, err)
	}
	return ref.String(), nil
}

func matchesAttrs(s *goquery.Selection, attrs map[string]string) bool {
	for name, want := range attrs {
		got, exists := s.Attr(name)
		if !exists {
			return false
		}
		if name == "class" {
			if got == want || hasClassToken(got, want) {
				continue
			}
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

func hasClassToken(classAttr, token string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == token {
			return true
		}
	}
	return false
}

// formatAttrs renders attrs with sorted keys so log lines are stable
func formatAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, attrs[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
