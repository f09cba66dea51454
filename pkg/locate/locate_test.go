package locate

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

const sidebarHTML = `<html><body>
<div class="sphinxsidebar">
  <div class="sphinxsidebarwrapper">
    <ul><li>Download</li></ul>
    <ul><li><a href="https://docs.python.org/3.13/">Python 3.13 (stable)</a></li><li>All versions</li></ul>
  </div>
</div>
<section id="what-s-new-in-python">
  <div class="toctree-wrapper compound"><ul><li class="toctree-l1"><a href="3.12.html">3.12</a></li></ul></div>
</section>
<table class="docutils align-default"><tr><td><a href="archives/python-3.13-docs-pdf-a4.zip">A4</a></td></tr></table>
</body></html>`

func newDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestFindTag(t *testing.T) {
	doc := newDoc(t, sidebarHTML)
	logger, _ := test.NewNullLogger()
	log := logrus.NewEntry(logger)

	t.Run("class token match", func(t *testing.T) {
		wrapper, err := FindTag(doc.Selection, "div", map[string]string{"class": "sphinxsidebarwrapper"}, log)
		require.NoError(t, err)
		assert.Equal(t, 2, wrapper.Find("ul").Length())
	})

	t.Run("one token of a multi-class attribute", func(t *testing.T) {
		table, err := FindTag(doc.Selection, "table", map[string]string{"class": "docutils"}, log)
		require.NoError(t, err)
		assert.Equal(t, 1, table.Find("a").Length())
	})

	t.Run("exact non-class attribute", func(t *testing.T) {
		section, err := FindTag(doc.Selection, "section", map[string]string{"id": "what-s-new-in-python"}, log)
		require.NoError(t, err)
		assert.Equal(t, "3.12", strings.TrimSpace(section.Find("a").Text()))
	})

	t.Run("first match in document order", func(t *testing.T) {
		ul, err := FindTag(doc.Selection, "ul", nil, log)
		require.NoError(t, err)
		assert.Equal(t, "Download", strings.TrimSpace(ul.Text()))
	})

	t.Run("search is scoped to the selection", func(t *testing.T) {
		section, err := FindTag(doc.Selection, "section", nil, log)
		require.NoError(t, err)
		_, err = FindTag(section, "table", nil, log)
		assert.ErrorIs(t, err, utils.ErrTagNotFound)
	})
}

func TestFindTag_NotFoundLogsBeforeFailing(t *testing.T) {
	doc := newDoc(t, sidebarHTML)
	logger, hook := test.NewNullLogger()

	sel, err := FindTag(doc.Selection, "tbody", map[string]string{"class": "missing"}, logrus.NewEntry(logger))
	assert.Nil(t, sel)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrTagNotFound)
	assert.Contains(t, err.Error(), `class="missing"`)

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "tbody", entry.Data["tag"])
	assert.Equal(t, `{class="missing"}`, entry.Data["attrs"])
}

func TestSelectOne(t *testing.T) {
	doc := newDoc(t, sidebarHTML)

	t.Run("suffix selector", func(t *testing.T) {
		a := SelectOne(doc.Selection, `table.docutils a[href$="pdf-a4.zip"]`)
		require.NotNil(t, a)
		href, _ := a.Attr("href")
		assert.Equal(t, "archives/python-3.13-docs-pdf-a4.zip", href)
	})

	t.Run("nested section selector", func(t *testing.T) {
		li := SelectOne(doc.Selection, "#what-s-new-in-python div.toctree-wrapper li.toctree-l1")
		require.NotNil(t, li)
	})

	t.Run("no match returns nil", func(t *testing.T) {
		assert.Nil(t, SelectOne(doc.Selection, `a[href$="pdf-letter.zip"]`))
	})

	t.Run("invalid selector returns nil", func(t *testing.T) {
		assert.Nil(t, SelectOne(doc.Selection, "a[href$="))
	})
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://docs.python.org/3/whatsnew/index.html", "3.12.html", "https://docs.python.org/3/whatsnew/3.12.html"},
		{"https://peps.python.org/", "pep-0008/", "https://peps.python.org/pep-0008/"},
		{"https://peps.python.org/numerical/", "../pep-0001/", "https://peps.python.org/pep-0001/"},
		{"https://docs.python.org/3/download.html", "archives/x-pdf-a4.zip", "https://docs.python.org/3/archives/x-pdf-a4.zip"},
		{"https://docs.python.org/3/", "https://example.com/abs", "https://example.com/abs"},
		{"https://docs.python.org/3/", "  glossary.html ", "https://docs.python.org/3/glossary.html"},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, err := ResolveURL(tt.base, tt.href)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid href", func(t *testing.T) {
		_, err := ResolveURL("https://docs.python.org/3/", "http://[::1:bad")
		require.Error(t, err)
		assert.ErrorIs(t, err, utils.ErrParsing)
	})
}
