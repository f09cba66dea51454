package output

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func sampleTable(t *testing.T) *models.Table {
	t.Helper()
	table := models.NewTable("Status", "Count")
	require.NoError(t, table.Append("Rejected", "1"))
	require.NoError(t, table.Append("Total", "1"))
	return table
}

func newTestRenderer(t *testing.T) (*Renderer, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r := NewRenderer(&out, filepath.Join(t.TempDir(), "results"), testLogger())
	r.Now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return r, &out
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatDefault},
		{"pretty", FormatPretty},
		{"file", FormatFile},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"json", "Pretty", "default"} {
		_, err := ParseFormat(bad)
		assert.ErrorIs(t, err, utils.ErrUnknownOutput, bad)
	}
	assert.Equal(t, []string{"pretty", "file"}, FormatNames())
}

func TestRender_Default(t *testing.T) {
	r, out := newTestRenderer(t)
	require.NoError(t, r.Render(sampleTable(t), FormatDefault, "pep"))
	assert.Equal(t, "Status Count\nRejected 1\nTotal 1\n", out.String())
}

func TestRender_Pretty(t *testing.T) {
	r, out := newTestRenderer(t)
	require.NoError(t, r.Render(sampleTable(t), FormatPretty, "pep"))

	rendered := out.String()
	assert.Contains(t, rendered, "| Status   | Count |")
	assert.Contains(t, rendered, "| Rejected | 1     |")
	assert.Contains(t, rendered, "| Total    | 1     |")
	assert.True(t, strings.HasPrefix(rendered, "+"))
}

func TestRender_FileRoundTrip(t *testing.T) {
	r, out := newTestRenderer(t)
	table := models.NewTable("Link", "Title", "Editor/Author")
	require.NoError(t, table.Append("https://docs.python.org/3/whatsnew/3.12.html", "What’s New In Python 3.12¶", `Editor: Adam "T" Turner, et al.`))
	require.NoError(t, table.Append("https://docs.python.org/3/whatsnew/3.11.html", "Title, with comma", " leading space"))

	require.NoError(t, r.Render(table, FormatFile, "whats-new"))
	assert.Empty(t, out.String())

	path := filepath.Join(r.ResultsDir, "whats-new_2024-03-09_14-05-07.csv")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "\r\n")

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, table.Records(), records)
}

func TestRender_FileCreatesResultsDir(t *testing.T) {
	r, _ := newTestRenderer(t)
	_, err := os.Stat(r.ResultsDir)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, r.Render(sampleTable(t), FormatFile, "pep"))
	entries, err := os.ReadDir(r.ResultsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pep_2024-03-09_14-05-07.csv", entries[0].Name())
}

func TestRender_FileUnwritableDir(t *testing.T) {
	r, _ := newTestRenderer(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	r.ResultsDir = filepath.Join(blocker, "results")

	err := r.Render(sampleTable(t), FormatFile, "pep")
	assert.ErrorIs(t, err, utils.ErrFilesystem)
}

func TestRender_NilTableIsNoop(t *testing.T) {
	r, out := newTestRenderer(t)
	require.NoError(t, r.Render(nil, FormatFile, "download"))
	assert.Empty(t, out.String())
	_, err := os.Stat(r.ResultsDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRender_UnknownFormat(t *testing.T) {
	r, _ := newTestRenderer(t)
	err := r.Render(sampleTable(t), Format(9), "pep")
	assert.ErrorIs(t, err, utils.ErrUnknownOutput)
}
