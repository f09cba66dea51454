package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

const (
	downloadPageURL = "https://docs.python.org/3/download.html"
	archiveURL      = "https://docs.python.org/3/archives/python-3.13-docs-pdf-a4.zip"

	downloadPageHTML = `<html><body>
<table class="docutils align-default">
<tr><td>PDF (US-Letter)</td><td><a href="archives/python-3.13-docs-pdf-letter.zip">zip</a></td></tr>
<tr><td>PDF (A4)</td><td><a href="archives/python-3.13-docs-pdf-a4.zip">zip</a></td><td><a href="archives/python-3.13-docs-pdf-a4.tar.bz2">bz2</a></td></tr>
</table></body></html>`
)

func TestDownload(t *testing.T) {
	archive := "PK\x03\x04 binary \xff\xfe payload"
	fetcher := newFakeFetcher(map[string]string{
		downloadPageURL: downloadPageHTML,
		archiveURL:      archive,
	})
	env, _ := testEnv(t, fetcher, 1)

	table, err := Download(context.Background(), env)
	require.NoError(t, err)
	assert.Nil(t, table)

	saved := filepath.Join(env.Cfg.BaseDir, "downloads", "python-3.13-docs-pdf-a4.zip")
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	// Written verbatim, without UTF-8 decoding
	assert.Equal(t, []byte(archive), data)
}

func TestDownload_Failures(t *testing.T) {
	t.Run("no docutils table", func(t *testing.T) {
		env, _ := testEnv(t, newFakeFetcher(map[string]string{
			downloadPageURL: `<table class="other"><tr><td><a href="x-pdf-a4.zip">zip</a></td></tr></table>`,
		}), 1)
		_, err := Download(context.Background(), env)
		assert.ErrorIs(t, err, utils.ErrTagNotFound)
	})

	t.Run("suffix match is case sensitive", func(t *testing.T) {
		env, _ := testEnv(t, newFakeFetcher(map[string]string{
			downloadPageURL: `<table class="docutils"><tr><td><a href="x-PDF-A4.ZIP">zip</a></td></tr></table>`,
		}), 1)
		_, err := Download(context.Background(), env)
		assert.ErrorIs(t, err, utils.ErrTagNotFound)
	})

	t.Run("link outside the docutils table is ignored", func(t *testing.T) {
		env, hook := testEnv(t, newFakeFetcher(map[string]string{
			downloadPageURL: `<a href="stray-pdf-a4.zip">zip</a><table class="docutils"><tr><td><a href="x-pdf-a4.tar.bz2">bz2</a></td></tr></table>`,
		}), 1)
		_, err := Download(context.Background(), env)
		assert.ErrorIs(t, err, utils.ErrTagNotFound)
		assert.Equal(t, "Archive link not found", hook.LastEntry().Message)
	})

	t.Run("archive unreachable", func(t *testing.T) {
		env, _ := testEnv(t, newFakeFetcher(map[string]string{downloadPageURL: downloadPageHTML}), 1)
		_, err := Download(context.Background(), env)
		assert.ErrorIs(t, err, utils.ErrConnection)

		_, statErr := os.Stat(filepath.Join(env.Cfg.BaseDir, "downloads", "python-3.13-docs-pdf-a4.zip"))
		assert.True(t, os.IsNotExist(statErr))
	})
}
