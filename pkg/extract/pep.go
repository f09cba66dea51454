package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/pydocs-scraper/pkg/locate"
	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

const statusFieldLabel = "Status:"

// PEP reconciles the status abbreviation of every row in the numerical PEP index
// against the status on the PEP's own page, and counts PEPs by page status.
// Rows whose page cannot be fetched are left out of the counts. Mismatches are
// logged once the whole index has been scanned.
func PEP(ctx context.Context, env *Env) (*models.Table, error) {
	log := env.Log.WithField("component", "pep")

	doc, err := env.Fetcher.Document(ctx, env.Cfg.PEPListURL)
	if err != nil {
		return nil, err
	}
	tbody, err := locate.FindTag(doc.Selection, "tbody", nil, log)
	if err != nil {
		return nil, err
	}

	rows := tbody.Find("tr")
	pending := make([]models.PEPRecord, 0, rows.Length())
	var rowErr error
	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		code, expected, errStatus := SummaryStatuses(tr)
		if errStatus != nil {
			log.WithField("row", i).Warnf("Using '%s' as expected status: %v", models.UnknownSummaryStatus, errStatus)
			expected = models.UnknownStatusSet()
		}
		anchor, err := locate.FindTag(tr, "a", nil, log)
		if err != nil {
			rowErr = err
			return false
		}
		link, err := locate.ResolveURL(env.Cfg.PEPURL, anchor.AttrOr("href", ""))
		if err != nil {
			rowErr = err
			return false
		}
		pending = append(pending, models.PEPRecord{Link: link, SummaryCode: code, Expected: expected})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	log.Infof("Found %d PEPs in the index", len(pending))

	fetched, err := fetchEach(ctx, len(pending), env.Cfg.GetEffectiveWorkers(), log, func(ctx context.Context, i int) (*models.PEPRecord, error) {
		return resolveDetailStatus(ctx, env, pending[i], log.WithField("url", pending[i].Link))
	})
	if err != nil {
		return nil, err
	}

	records := make([]models.PEPRecord, 0, len(fetched))
	for _, rec := range fetched {
		if rec != nil {
			records = append(records, *rec)
		}
	}

	counts, mismatches := Reconcile(records)
	for _, m := range mismatches {
		log.WithFields(logrus.Fields{
			"url":      m.Link,
			"observed": m.Observed,
			"expected": m.Expected.String(),
		}).Info("Status mismatch")
	}
	for _, status := range counts.Statuses() {
		log.WithFields(logrus.Fields{"status": status, "count": counts.Get(status)}).Debug("Status count")
	}
	log.WithFields(logrus.Fields{"processed": len(records), "skipped": len(pending) - len(records), "mismatches": len(mismatches)}).Info("PEP scan complete")

	return counts.Table(), nil
}

func resolveDetailStatus(ctx context.Context, env *Env, rec models.PEPRecord, log *logrus.Entry) (*models.PEPRecord, error) {
	doc, err := env.Fetcher.Document(ctx, rec.Link)
	if err != nil {
		if skippable(err) {
			log.Warnf("Skipping PEP: %v", err)
			return nil, nil
		}
		return nil, err
	}

	status, err := DetailStatus(doc)
	if err != nil {
		log.Warnf("Counting PEP as '%s': %v", models.UnknownDetailStatus, err)
		status = models.UnknownDetailStatus
	}
	rec.DetailStatus = status
	return &rec, nil
}

// SummaryStatuses reads the status code from the second character of the row's
// <abbr> text and returns the statuses it allows. A missing or too-short
// abbreviation, or an unknown code, is reported as an error so the caller can
// choose a fallback.
func SummaryStatuses(row *goquery.Selection) (models.StatusCode, models.StatusSet, error) {
	abbr := row.Find("abbr").First()
	if abbr.Length() == 0 {
		return "", nil, fmt.Errorf("%w: no <abbr> in row", utils.ErrMalformedAbbreviation)
	}
	runes := []rune(abbr.Text())
	if len(runes) < 2 {
		return "", nil, fmt.Errorf("%w: '%s' has no status character", utils.ErrMalformedAbbreviation, string(runes))
	}

	code := models.StatusCode(runes[1])
	expected, ok := models.ExpectedStatuses(code)
	if !ok {
		return code, nil, fmt.Errorf("%w: '%s'", utils.ErrUnknownStatusCode, string(code))
	}
	return code, expected, nil
}

// DetailStatus returns the text of the element following the first <dt> whose
// text is "Status:", or utils.ErrStatusNotFound.
func DetailStatus(doc *goquery.Document) (string, error) {
	var status string
	found := false
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if strings.TrimSpace(dt.Text()) != statusFieldLabel {
			return true
		}
		next := dt.Next()
		if next.Length() == 0 {
			return true
		}
		status = strings.TrimSpace(next.Text())
		found = true
		return false
	})
	if !found {
		return "", utils.ErrStatusNotFound
	}
	return status, nil
}

// Reconcile counts records by detail status in first-seen order and collects
// the records whose detail status is not among their expected statuses.
func Reconcile(records []models.PEPRecord) (*models.StatusCounts, []models.Mismatch) {
	counts := models.NewStatusCounts()
	var mismatches []models.Mismatch
	for _, rec := range records {
		if !rec.Matches() {
			mismatches = append(mismatches, models.Mismatch{
				Link:     rec.Link,
				Observed: rec.DetailStatus,
				Expected: rec.Expected,
			})
		}
		counts.Add(rec.DetailStatus)
	}
	return counts, mismatches
}
