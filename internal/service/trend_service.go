package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/smm-analytics-api/internal/models"
)

// TrendStore is the read surface the trend engine needs.
type TrendStore interface {
	DailyAnalysis(ctx context.Context, date string, platform models.Platform) (*models.DailyAnalysis, error)
}

// Thresholds for classifying metric movement. Direction uses strict
// comparison: a second-half mean of exactly 1.1x the first half is stable.
const (
	trendUpFactor   = 1.1
	trendDownFactor = 0.9

	minTrendPoints      = 3
	minConfidencePoints = 5
)

// predictionMetrics is the fixed set of headline metrics that get a
// next-day extrapolation.
var predictionMetrics = []string{
	models.MetricEngagementRate,
	models.MetricFollowerGrowth,
	models.MetricImpressions,
}

// TrendServiceConfig tunes windowing and caching.
type TrendServiceConfig struct {
	DefaultWindowDays int
	MaxWindowDays     int
	CacheTTL          time.Duration
	DefaultPlatform   models.Platform
}

// TrendService aggregates consecutive daily analyses into a trend report.
// Reports are computed on demand and only cached, never persisted. The math
// is a deliberately naive linear extrapolation; dashboards depend on these
// exact semantics, so it must not be swapped for a statistical model.
type TrendService struct {
	store   TrendStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
	cfg     TrendServiceConfig
}

// NewTrendService constructs the trend engine with sane defaults.
func NewTrendService(store TrendStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg TrendServiceConfig) *TrendService {
	if cfg.DefaultWindowDays <= 0 {
		cfg.DefaultWindowDays = 7
	}
	if cfg.MaxWindowDays <= 0 {
		cfg.MaxWindowDays = 90
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.DefaultPlatform == "" {
		cfg.DefaultPlatform = models.PlatformTwitter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrendService{store: store, cache: cache, metrics: metrics, logger: logger, now: time.Now, cfg: cfg}
}

// GenerateTrendAnalysis builds the trend report for the window ending today.
// Days without a stored analysis are skipped, never zero-filled. The call
// always returns a well-typed report; an empty trends map with a 0.5 score is
// the caller's signal that the window held too little data.
func (s *TrendService) GenerateTrendAnalysis(ctx context.Context, days int, platform models.Platform) *models.TrendAnalysis {
	if platform == "" {
		platform = s.cfg.DefaultPlatform
	}
	if days <= 0 {
		days = s.cfg.DefaultWindowDays
	}
	if days > s.cfg.MaxWindowDays {
		days = s.cfg.MaxWindowDays
	}

	cacheKey := fmt.Sprintf("trend:%s:%d", platform, days)
	if s.cache != nil {
		var cached models.TrendAnalysis
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached
		}
	}

	start := time.Now()
	today := s.now().UTC()
	windowStart := today.AddDate(0, 0, -days)

	found := s.collectWindow(ctx, windowStart, today, platform)
	analysis := composeTrendAnalysis(platform, days, windowStart, today, found)

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, analysis, s.cfg.CacheTTL)
	}
	if s.metrics != nil {
		s.metrics.ObserveAnalysis("trend", time.Since(start))
	}
	return analysis
}

// collectWindow fetches the per-day analyses between start and end inclusive,
// in chronological order. Fetch errors degrade to a skipped day.
func (s *TrendService) collectWindow(ctx context.Context, start, end time.Time, platform models.Platform) []*models.DailyAnalysis {
	var found []*models.DailyAnalysis
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(analysisDateLayout)
		queryStart := time.Now()
		record, err := s.store.DailyAnalysis(ctx, date, platform)
		if s.metrics != nil {
			s.metrics.ObserveDBQuery("select_daily_analysis", time.Since(queryStart))
		}
		if err != nil {
			s.logger.Warn("trend window fetch failed", zap.String("date", date), zap.Error(err))
			continue
		}
		if record == nil {
			continue
		}
		found = append(found, record)
	}
	return found
}

func composeTrendAnalysis(platform models.Platform, days int, start, end time.Time, found []*models.DailyAnalysis) *models.TrendAnalysis {
	analysis := &models.TrendAnalysis{
		Platform:    platform,
		WindowDays:  days,
		StartDate:   start.Format(analysisDateLayout),
		EndDate:     end.Format(analysisDateLayout),
		DataPoints:  len(found),
		Trends:      map[string]models.MetricTrend{},
		TrendScore:  0.5,
		Predictions: map[string]models.TrendPrediction{},
	}
	if len(found) == 0 {
		return analysis
	}

	series := buildMetricSeries(found)
	for _, key := range sortedSeriesKeys(series) {
		analysis.Trends[key] = computeMetricTrend(series[key])
	}
	analysis.TrendScore = computeTrendScore(found)

	for _, key := range predictionMetrics {
		values := series[key]
		if len(values) < minTrendPoints {
			continue
		}
		analysis.Predictions[key] = predictNext(values)
	}
	return analysis
}

// buildMetricSeries collects each metric's values across the found days, in
// chronological order. Days missing a metric are simply absent from that
// metric's series.
func buildMetricSeries(found []*models.DailyAnalysis) map[string][]float64 {
	series := make(map[string][]float64)
	for _, day := range found {
		for key, value := range day.Metrics {
			series[key] = append(series[key], value)
		}
	}
	return series
}

func sortedSeriesKeys(series map[string][]float64) []string {
	keys := make([]string, 0, len(series))
	for key := range series {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// computeMetricTrend classifies one metric's movement by comparing the mean
// of the first half of its series against the mean of the second half.
func computeMetricTrend(values []float64) models.MetricTrend {
	trend := models.MetricTrend{Direction: models.TrendUnknown, DataPoints: len(values)}
	if len(values) < minTrendPoints {
		return trend
	}

	half := len(values) / 2
	firstAvg := mean(values[:half])
	secondAvg := mean(values[half:])

	switch {
	case secondAvg > firstAvg*trendUpFactor:
		trend.Direction = models.TrendIncreasing
	case secondAvg < firstAvg*trendDownFactor:
		trend.Direction = models.TrendDecreasing
	default:
		trend.Direction = models.TrendStable
	}

	if firstAvg != 0 {
		trend.ChangePercent = (secondAvg - firstAvg) / firstAvg * 100
	}
	trend.Volatility = sampleStdev(values)
	return trend
}

// computeTrendScore is the fraction of metrics, present on both the first and
// last found day, whose value rose across the window. With fewer than two
// found days there is nothing to compare and the neutral 0.5 stands.
func computeTrendScore(found []*models.DailyAnalysis) float64 {
	if len(found) < 2 {
		return 0.5
	}
	first := found[0].Metrics
	last := found[len(found)-1].Metrics

	var shared, improved int
	for key, firstValue := range first {
		lastValue, ok := last[key]
		if !ok {
			continue
		}
		shared++
		if lastValue > firstValue {
			improved++
		}
	}
	if shared == 0 {
		return 0.5
	}
	return float64(improved) / float64(shared)
}

// predictNext extrapolates the next value as last + (last - two days back)/2,
// floored at zero. Confidence stays at the 0.1 floor until five points exist.
func predictNext(values []float64) models.TrendPrediction {
	n := len(values)
	last := values[n-1]
	predicted := last + (last-values[n-3])/2
	if predicted < 0 {
		predicted = 0
	}

	confidence := 0.1
	if n >= minConfidencePoints {
		deltas := make([]float64, 0, n-1)
		for i := 1; i < n; i++ {
			deltas = append(deltas, values[i]-values[i-1])
		}
		avg := mean(values)
		if avg != 0 {
			confidence = clampRange(1-sampleStdev(deltas)/avg, 0.1, 0.9)
		}
	}
	return models.TrendPrediction{PredictedValue: predicted, Confidence: confidence}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values))
}

// sampleStdev returns the sample standard deviation, 0 below two points.
func sampleStdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	var sum float64
	for _, value := range values {
		diff := value - avg
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func clampRange(value, lower, upper float64) float64 {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
