package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/pydocs-scraper/pkg/locate"
	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

const pdfA4Selector = `a[href$="pdf-a4.zip"]`

// Download saves the A4 PDF documentation archive into the download directory.
// It has no tabular output.
func Download(ctx context.Context, env *Env) (*models.Table, error) {
	log := env.Log.WithField("component", "download")

	downloadsURL, err := locate.ResolveURL(env.Cfg.MainDocURL, "download.html")
	if err != nil {
		return nil, err
	}
	doc, err := env.Fetcher.Document(ctx, downloadsURL)
	if err != nil {
		return nil, err
	}

	table, err := locate.FindTag(doc.Selection, "table", map[string]string{"class": "docutils"}, log)
	if err != nil {
		return nil, err
	}
	anchor := locate.SelectOne(table, pdfA4Selector)
	if anchor == nil {
		log.WithField("selector", pdfA4Selector).Error("Archive link not found")
		return nil, fmt.Errorf("%w: %s", utils.ErrTagNotFound, pdfA4Selector)
	}
	archiveURL, err := locate.ResolveURL(downloadsURL, anchor.AttrOr("href", ""))
	if err != nil {
		return nil, err
	}

	downloadDir, err := env.Cfg.EnsureDir(env.Cfg.DownloadDir)
	if err != nil {
		return nil, err
	}

	page, err := env.Fetcher.Get(ctx, archiveURL)
	if err != nil {
		return nil, err
	}

	archivePath := filepath.Join(downloadDir, utils.FilenameFromURL(archiveURL))
	if err := os.WriteFile(archivePath, page.Body, 0644); err != nil {
		return nil, fmt.Errorf("%w: write archive '%s': %w", utils.ErrFilesystem, archivePath, err)
	}

	fields := logrus.Fields{"url": archiveURL, "bytes": len(page.Body), "from_cache": page.FromCache}
	if sum, errHash := utils.CalculateFileSHA256(archivePath); errHash == nil {
		fields["sha256"] = sum
	}
	log.WithFields(fields).Infof("Archive downloaded and saved: %s", archivePath)
	return nil, nil
}
