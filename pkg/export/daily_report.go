package export

import (
	"fmt"
	"sort"

	"github.com/noah-isme/smm-analytics-api/internal/models"
)

// DailyReportDataset flattens a daily analysis into a tabular dataset suitable
// for CSV or PDF rendering.
func DailyReportDataset(analysis *models.DailyAnalysis) Dataset {
	headers := []string{"section", "key", "value"}
	rows := make([]map[string]string, 0, len(analysis.Metrics)+len(analysis.TopContent)+len(analysis.Insights)+4)

	rows = append(rows, reportRow("summary", "date", analysis.Date))
	rows = append(rows, reportRow("summary", "platform", string(analysis.Platform)))
	rows = append(rows, reportRow("summary", "performance_score", formatFloat(analysis.PerformanceScore)))

	metricKeys := make([]string, 0, len(analysis.Metrics))
	for key := range analysis.Metrics {
		metricKeys = append(metricKeys, key)
	}
	sort.Strings(metricKeys)
	for _, key := range metricKeys {
		rows = append(rows, reportRow("metrics", key, formatFloat(analysis.Metrics[key])))
	}

	for _, entry := range analysis.TopContent {
		rows = append(rows, reportRow("top_content",
			fmt.Sprintf("rank_%d", entry.Rank),
			fmt.Sprintf("%s (rate %s, impressions %d)", entry.PostID, formatFloat(entry.EngagementRate), entry.Impressions)))
	}

	for i, insight := range analysis.Insights {
		rows = append(rows, reportRow("insights", fmt.Sprintf("insight_%d", i+1), insight))
	}
	for i, recommendation := range analysis.Recommendations {
		rows = append(rows, reportRow("recommendations", fmt.Sprintf("recommendation_%d", i+1), recommendation))
	}

	return Dataset{Headers: headers, Rows: rows}
}

// DailyReportTitle names an exported report document.
func DailyReportTitle(analysis *models.DailyAnalysis) string {
	return fmt.Sprintf("%s performance report %s", analysis.Platform, analysis.Date)
}

func reportRow(section, key, value string) map[string]string {
	return map[string]string{"section": section, "key": key, "value": value}
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
