package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/pydocs-scraper/pkg/locate"
	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

const allVersionsMarker = "All versions"

var versionPattern = regexp.MustCompile(`Python (?P<version>\d+\.\d+) \((?P<status>.*)\)`)

// LatestVersions lists the documentation versions from the sidebar of the docs index
func LatestVersions(ctx context.Context, env *Env) (*models.Table, error) {
	log := env.Log.WithField("component", "latest_versions")

	doc, err := env.Fetcher.Document(ctx, env.Cfg.MainDocURL)
	if err != nil {
		return nil, err
	}
	sidebar, err := locate.FindTag(doc.Selection, "div", map[string]string{"class": "sphinxsidebarwrapper"}, log)
	if err != nil {
		return nil, err
	}

	var versionList *goquery.Selection
	sidebar.Find("ul").EachWithBreak(func(_ int, ul *goquery.Selection) bool {
		if strings.Contains(ul.Text(), allVersionsMarker) {
			versionList = ul
			return false
		}
		return true
	})
	if versionList == nil {
		log.Error("No versions list in the sidebar")
		return nil, fmt.Errorf("%w: no list containing '%s' in %s", utils.ErrNoVersionsList, allVersionsMarker, env.Cfg.MainDocURL)
	}

	table := models.NewTable("Doc link", "Version", "Status")
	var appendErr error
	versionList.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		version, status := ParseVersionText(a.Text())
		appendErr = table.Append(a.AttrOr("href", ""), version, status)
		return appendErr == nil
	})
	if appendErr != nil {
		return nil, appendErr
	}
	return table, nil
}

// ParseVersionText splits "Python 3.10 (stable)" into ("3.10", "stable").
// Text that does not match is returned verbatim as the version with an empty status.
func ParseVersionText(text string) (version, status string) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	return m[versionPattern.SubexpIndex("version")], m[versionPattern.SubexpIndex("status")]
}
