package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smm-analytics-api/internal/models"
)

func reportFixture() *models.DailyAnalysis {
	return &models.DailyAnalysis{
		Date:     "2026-08-15",
		Platform: models.PlatformTwitter,
		Metrics: map[string]float64{
			models.MetricEngagementRate: 0.04,
			models.MetricImpressions:    1500,
		},
		TopContent: []models.TopContentEntry{
			{Rank: 1, PostID: "post-1", EngagementRate: 0.05, Impressions: 1000},
		},
		Insights:         []string{"Fair engagement rate"},
		Recommendations:  []string{"Schedule more posts around 09:00"},
		PerformanceScore: 0.42,
	}
}

func TestDailyReportDataset(t *testing.T) {
	dataset := DailyReportDataset(reportFixture())

	assert.Equal(t, []string{"section", "key", "value"}, dataset.Headers)
	require.NotEmpty(t, dataset.Rows)

	assert.Equal(t, "summary", dataset.Rows[0]["section"])
	assert.Equal(t, "2026-08-15", dataset.Rows[0]["value"])

	// metric rows are sorted by key for stable exports
	var metricKeys []string
	for _, row := range dataset.Rows {
		if row["section"] == "metrics" {
			metricKeys = append(metricKeys, row["key"])
		}
	}
	assert.Equal(t, []string{models.MetricEngagementRate, models.MetricImpressions}, metricKeys)
}

func TestDailyReportRendersAsCSV(t *testing.T) {
	dataset := DailyReportDataset(reportFixture())

	payload, err := NewCSVExporter().Render(dataset)
	require.NoError(t, err)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "section,key,value"))
	assert.Contains(t, body, "engagement_rate,0.0400")
	assert.Contains(t, body, "recommendations")
}

func TestDailyReportRendersAsPDF(t *testing.T) {
	dataset := DailyReportDataset(reportFixture())

	payload, err := NewPDFExporter().Render(dataset, DailyReportTitle(reportFixture()))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestDailyReportTitle(t *testing.T) {
	assert.Equal(t, "twitter performance report 2026-08-15", DailyReportTitle(reportFixture()))
}
