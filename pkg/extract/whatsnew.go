package extract

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/pydocs-scraper/pkg/locate"
	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// WhatsNew lists every "What's New In Python" article with its title and author line.
// Articles that cannot be fetched, or that lack a heading or author list, are skipped.
func WhatsNew(ctx context.Context, env *Env) (*models.Table, error) {
	log := env.Log.WithField("component", "whats_new")

	indexURL, err := locate.ResolveURL(env.Cfg.MainDocURL, "whatsnew/")
	if err != nil {
		return nil, err
	}
	doc, err := env.Fetcher.Document(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	section, err := locate.FindTag(doc.Selection, "section", map[string]string{"id": "what-s-new-in-python"}, log)
	if err != nil {
		return nil, err
	}
	wrapper, err := locate.FindTag(section, "div", map[string]string{"class": "toctree-wrapper"}, log)
	if err != nil {
		return nil, err
	}

	entries := wrapper.Find("li.toctree-l1")
	links := make([]string, 0, entries.Length())
	var linkErr error
	entries.EachWithBreak(func(_ int, entry *goquery.Selection) bool {
		anchor, err := locate.FindTag(entry, "a", nil, log)
		if err != nil {
			linkErr = err
			return false
		}
		link, err := locate.ResolveURL(indexURL, anchor.AttrOr("href", ""))
		if err != nil {
			linkErr = err
			return false
		}
		links = append(links, link)
		return true
	})
	if linkErr != nil {
		return nil, linkErr
	}
	log.Infof("Found %d release notes", len(links))

	rows, err := fetchEach(ctx, len(links), env.Cfg.GetEffectiveWorkers(), log, func(ctx context.Context, i int) ([]string, error) {
		return whatsNewRow(ctx, env, links[i], log.WithField("url", links[i]))
	})
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Link", "Title", "Editor/Author")
	for _, row := range rows {
		if row == nil {
			continue
		}
		if err := table.Append(row...); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func whatsNewRow(ctx context.Context, env *Env, link string, log *logrus.Entry) ([]string, error) {
	doc, err := env.Fetcher.Document(ctx, link)
	if err != nil {
		if skippable(err) {
			log.Warnf("Skipping release notes: %v", err)
			return nil, nil
		}
		return nil, err
	}

	h1, err := locate.FindTag(doc.Selection, "h1", nil, log)
	if err != nil {
		return nil, skipOnMissingTag(err, log)
	}
	dl, err := locate.FindTag(doc.Selection, "dl", nil, log)
	if err != nil {
		return nil, skipOnMissingTag(err, log)
	}
	return []string{link, h1.Text(), strings.ReplaceAll(dl.Text(), "\n", " ")}, nil
}

func skipOnMissingTag(err error, log *logrus.Entry) error {
	if errors.Is(err, utils.ErrTagNotFound) {
		log.Warnf("Skipping release notes: %v", err)
		return nil
	}
	return err
}
