package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/smm-analytics-api/internal/models"
)

type fakeTrendStore struct {
	records map[string]*models.DailyAnalysis
	err     error
}

func (f *fakeTrendStore) DailyAnalysis(_ context.Context, date string, _ models.Platform) (*models.DailyAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[date], nil
}

func newTestTrend(store *fakeTrendStore) *TrendService {
	trend := NewTrendService(store, nil, nil, zap.NewNop(), TrendServiceConfig{})
	trend.now = func() time.Time {
		return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	}
	return trend
}

func dayRecord(date string, metrics map[string]float64) *models.DailyAnalysis {
	return &models.DailyAnalysis{
		Date:     date,
		Platform: models.PlatformTwitter,
		Metrics:  metrics,
	}
}

func TestGenerateTrendAnalysisWindow(t *testing.T) {
	store := &fakeTrendStore{records: map[string]*models.DailyAnalysis{}}
	trend := newTestTrend(store)

	analysis := trend.GenerateTrendAnalysis(context.Background(), 7, models.PlatformTwitter)

	assert.Equal(t, 7, analysis.WindowDays)
	assert.Equal(t, "2026-08-08", analysis.StartDate)
	assert.Equal(t, "2026-08-15", analysis.EndDate)
	assert.Equal(t, 0, analysis.DataPoints)
	assert.Empty(t, analysis.Trends)
	assert.InDelta(t, 0.5, analysis.TrendScore, 1e-9)
}

func TestGenerateTrendAnalysisSkipsMissingDays(t *testing.T) {
	store := &fakeTrendStore{records: map[string]*models.DailyAnalysis{
		"2026-08-09": dayRecord("2026-08-09", map[string]float64{"a": 1, "b": 1}),
		"2026-08-14": dayRecord("2026-08-14", map[string]float64{"a": 2, "b": 3}),
	}}
	trend := newTestTrend(store)

	analysis := trend.GenerateTrendAnalysis(context.Background(), 7, models.PlatformTwitter)

	assert.Equal(t, 2, analysis.DataPoints)
	// two days is enough for the first-vs-last comparison, both metrics rose
	assert.InDelta(t, 1.0, analysis.TrendScore, 1e-9)
	// but not enough points for direction math
	assert.Equal(t, models.TrendUnknown, analysis.Trends["a"].Direction)
	assert.Equal(t, 2, analysis.Trends["a"].DataPoints)
}

func TestGenerateTrendAnalysisTrendScoreMixed(t *testing.T) {
	store := &fakeTrendStore{records: map[string]*models.DailyAnalysis{
		"2026-08-10": dayRecord("2026-08-10", map[string]float64{"a": 1, "b": 2, "c": 5}),
		"2026-08-12": dayRecord("2026-08-12", map[string]float64{"a": 3, "b": 4}),
		"2026-08-14": dayRecord("2026-08-14", map[string]float64{"a": 2, "b": 1}),
	}}
	trend := newTestTrend(store)

	analysis := trend.GenerateTrendAnalysis(context.Background(), 7, models.PlatformTwitter)

	// c is absent from the last day and drops out; a rose, b fell
	assert.InDelta(t, 0.5, analysis.TrendScore, 1e-9)
}

func TestGenerateTrendAnalysisPredictions(t *testing.T) {
	records := map[string]*models.DailyAnalysis{}
	rates := []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06}
	for i, rate := range rates {
		date := time.Date(2026, 8, 9+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		records[date] = dayRecord(date, map[string]float64{models.MetricEngagementRate: rate})
	}
	trend := newTestTrend(&fakeTrendStore{records: records})

	analysis := trend.GenerateTrendAnalysis(context.Background(), 7, models.PlatformTwitter)

	prediction, ok := analysis.Predictions[models.MetricEngagementRate]
	require.True(t, ok)
	assert.InDelta(t, 0.07, prediction.PredictedValue, 1e-9)
	// perfectly steady deltas give the ceiling confidence
	assert.InDelta(t, 0.9, prediction.Confidence, 1e-9)
}

func TestGenerateTrendAnalysisFetchErrorDegradesToSkip(t *testing.T) {
	trend := newTestTrend(&fakeTrendStore{err: errors.New("store unavailable")})

	analysis := trend.GenerateTrendAnalysis(context.Background(), 7, models.PlatformTwitter)

	assert.Equal(t, 0, analysis.DataPoints)
	assert.InDelta(t, 0.5, analysis.TrendScore, 1e-9)
}

func TestGenerateTrendAnalysisClampsWindow(t *testing.T) {
	trend := newTestTrend(&fakeTrendStore{records: map[string]*models.DailyAnalysis{}})

	analysis := trend.GenerateTrendAnalysis(context.Background(), 500, models.PlatformTwitter)
	assert.Equal(t, 90, analysis.WindowDays)

	analysis = trend.GenerateTrendAnalysis(context.Background(), 0, models.PlatformTwitter)
	assert.Equal(t, 7, analysis.WindowDays)
}

func TestComputeMetricTrendDirections(t *testing.T) {
	// exactly 1.1x stays stable, strict greater-than required
	stable := computeMetricTrend([]float64{1, 1, 1.1, 1.1})
	assert.Equal(t, models.TrendStable, stable.Direction)

	increasing := computeMetricTrend([]float64{1, 1, 1.11, 1.11})
	assert.Equal(t, models.TrendIncreasing, increasing.Direction)
	assert.InDelta(t, 11, increasing.ChangePercent, 1e-6)

	decreasing := computeMetricTrend([]float64{1, 1, 0.89, 0.89})
	assert.Equal(t, models.TrendDecreasing, decreasing.Direction)
}

func TestComputeMetricTrendInsufficientData(t *testing.T) {
	trend := computeMetricTrend([]float64{1, 2})
	assert.Equal(t, models.TrendUnknown, trend.Direction)
	assert.Equal(t, 2, trend.DataPoints)
	assert.Equal(t, 0.0, trend.ChangePercent)
}

func TestComputeMetricTrendZeroBaseline(t *testing.T) {
	trend := computeMetricTrend([]float64{0, 0, 1, 1})
	assert.Equal(t, models.TrendIncreasing, trend.Direction)
	assert.Equal(t, 0.0, trend.ChangePercent)
}

func TestComputeMetricTrendVolatility(t *testing.T) {
	trend := computeMetricTrend([]float64{1, 2, 3})
	assert.InDelta(t, 1.0, trend.Volatility, 1e-9)
}

func TestPredictNextFlooredAtZero(t *testing.T) {
	prediction := predictNext([]float64{5, 0, 0})
	assert.Equal(t, 0.0, prediction.PredictedValue)
	assert.InDelta(t, 0.1, prediction.Confidence, 1e-9)
}

func TestPredictNextConfidenceFloorBelowFivePoints(t *testing.T) {
	prediction := predictNext([]float64{1, 2, 3, 4})
	assert.InDelta(t, 3.5, prediction.PredictedValue, 1e-9)
	assert.InDelta(t, 0.1, prediction.Confidence, 1e-9)
}

func TestSampleStdev(t *testing.T) {
	assert.Equal(t, 0.0, sampleStdev([]float64{5}))
	assert.InDelta(t, 1.0, sampleStdev([]float64{1, 2, 3}), 1e-9)
}
