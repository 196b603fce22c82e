package models

import "time"

// Metric keys shared between the daily analyzer and the trend engine.
const (
	MetricEngagementRate   = "engagement_rate"
	MetricFollowerGrowth   = "follower_growth"
	MetricImpressions      = "impressions"
	MetricReach            = "reach"
	MetricClickThroughRate = "click_through_rate"
	MetricContentQuality   = "content_quality"
)

// TopContentEntry ranks one post inside a daily analysis.
type TopContentEntry struct {
	Rank           int         `json:"rank"`
	PostID         string      `json:"post_id"`
	ContentType    ContentType `json:"content_type"`
	EngagementRate float64     `json:"engagement_rate"`
	Impressions    int         `json:"impressions"`
	Likes          int         `json:"likes"`
	Shares         int         `json:"shares"`
	Replies        int         `json:"replies"`
}

// ActivityEffectiveness summarises how well one sweep kind performed on a day.
type ActivityEffectiveness struct {
	Sessions             int     `json:"sessions"`
	TotalInteractions    int     `json:"total_interactions"`
	TotalMinutes         float64 `json:"total_minutes"`
	InteractionsPerMin   float64 `json:"interactions_per_minute"`
	AverageQuality       float64 `json:"average_quality"`
	EffectivenessScore   float64 `json:"effectiveness_score"`
}

// EngagementPatterns breaks a day's engagement down by hour, content type,
// hashtag and activity type. BestPostingHour is -1 when no posts were seen.
type EngagementPatterns struct {
	BestPostingHour       int                                    `json:"best_posting_hour"`
	HourlyEngagement      map[int]float64                        `json:"hourly_engagement"`
	ContentTypes          map[ContentType]float64                `json:"content_types"`
	HashtagPerformance    map[string]float64                     `json:"hashtag_performance"`
	ActivityEffectiveness map[ActivityType]ActivityEffectiveness `json:"activity_effectiveness"`
}

// DailyAnalysis is the per-(date, platform) aggregation produced by the
// analyzer. Re-running the analyzer for the same date overwrites the record.
type DailyAnalysis struct {
	Date             string            `db:"date" json:"date"`
	Platform         Platform          `db:"platform" json:"platform"`
	Metrics          map[string]float64 `json:"metrics"`
	Patterns         EngagementPatterns `json:"patterns"`
	TopContent       []TopContentEntry  `json:"top_content"`
	Insights         []string           `json:"insights"`
	Recommendations  []string           `json:"recommendations"`
	PerformanceScore float64            `db:"performance_score" json:"performance_score"`
	GeneratedAt      time.Time          `db:"generated_at" json:"generated_at"`
}

// Empty reports whether the analysis carries no data, which callers treat as
// "no records for that day or the run failed".
func (a *DailyAnalysis) Empty() bool {
	return a == nil || len(a.Metrics) == 0
}

// TrendDirection classifies how a metric moved across a window.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
	TrendUnknown    TrendDirection = "unknown"
)

// MetricTrend describes one metric's movement over the analysis window.
type MetricTrend struct {
	Direction     TrendDirection `json:"direction"`
	ChangePercent float64        `json:"change_percent"`
	Volatility    float64        `json:"volatility"`
	DataPoints    int            `json:"data_points"`
}

// TrendPrediction is a naive next-day extrapolation for a headline metric.
type TrendPrediction struct {
	PredictedValue float64 `json:"predicted_value"`
	Confidence     float64 `json:"confidence"`
}

// TrendAnalysis aggregates N consecutive daily analyses. It is produced on
// demand and never persisted.
type TrendAnalysis struct {
	Platform    Platform                   `json:"platform"`
	WindowDays  int                        `json:"window_days"`
	StartDate   string                     `json:"start_date"`
	EndDate     string                     `json:"end_date"`
	DataPoints  int                        `json:"data_points"`
	Trends      map[string]MetricTrend     `json:"trends"`
	TrendScore  float64                    `json:"trend_score"`
	Predictions map[string]TrendPrediction `json:"predictions"`
}
