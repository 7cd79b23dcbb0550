package templates

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datadash/internal/core"
	"github.com/JonMunkholm/datadash/internal/dataset"
)

func TestAlert(t *testing.T) {
	var buf bytes.Buffer
	err := alert(core.UserMessage{
		Message: "Too many categories for a pie chart",
		Action:  "Choose another column",
		Code:    "CHART001",
		Detail:  "column has 12 distinct values",
		Warning: true,
	}).Render(&buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `class="alert alert-warning"`)
	assert.Contains(t, html, "(CHART001)")
	assert.Contains(t, html, "column has 12 distinct values")
}

func TestAlertWithoutDetail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, alert(core.UserMessage{Message: "x", Code: "ERR000"}).Render(&buf))
	assert.Contains(t, buf.String(), `class="alert alert-error"`)
	assert.NotContains(t, buf.String(), "alert-detail")
}

func TestUploadPage(t *testing.T) {
	var buf bytes.Buffer
	err := UploadPage(UploadView{MaxFileSize: 100 << 20, Extensions: []string{".csv", ".xlsx"}}).
		Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.True(t, strings.HasPrefix(strings.ToLower(html), "<!doctype html>"))
	assert.Contains(t, html, `accept=".csv,.xlsx"`)
	assert.Contains(t, html, "Maximum size 100 MB")
}

func TestSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	node := summaryTable([]dataset.Summary{{
		Column: "price", Count: 1, Mean: 4, Std: math.NaN(),
		Min: 4, Q1: 4, Median: 4, Q3: 4, Max: 4,
	}})
	require.NoError(t, node.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "<th>price</th>")
	assert.Contains(t, html, "<th>std</th><td>NaN</td>")
	assert.Contains(t, html, "<th>count</th><td>1</td>")
}

func TestFormatStat(t *testing.T) {
	assert.Equal(t, "NaN", formatStat(math.NaN()))
	assert.Equal(t, "19.1667", formatStat(115.0/6))
	assert.Equal(t, "4", formatStat(4))
}
