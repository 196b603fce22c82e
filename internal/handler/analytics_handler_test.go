package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/smm-analytics-api/internal/models"
)

type fakeAnalyzerSrv struct {
	analysis *models.DailyAnalysis
	hit      bool
	err      error
	lastDate string
	lastPlat models.Platform
	ranDates []string
}

func (f *fakeAnalyzerSrv) DailyAnalysis(_ context.Context, date string, platform models.Platform) (*models.DailyAnalysis, bool, error) {
	f.lastDate = date
	f.lastPlat = platform
	return f.analysis, f.hit, f.err
}

func (f *fakeAnalyzerSrv) AnalyzeDay(_ context.Context, date string, platform models.Platform) *models.DailyAnalysis {
	f.ranDates = append(f.ranDates, date)
	f.lastPlat = platform
	return f.analysis
}

type fakeTrendSrv struct {
	analysis *models.TrendAnalysis
	lastDays int
}

func (f *fakeTrendSrv) GenerateTrendAnalysis(_ context.Context, days int, _ models.Platform) *models.TrendAnalysis {
	f.lastDays = days
	return f.analysis
}

type fakeSessionReader struct {
	sessions  []models.EngagementSession
	err       error
	lastHours int
}

func (f *fakeSessionReader) RecentEngagementSessions(_ context.Context, hours int) ([]models.EngagementSession, error) {
	f.lastHours = hours
	return f.sessions, f.err
}

func getRequest(handler gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	handler(c)
	return rec
}

func dailyFixture() *models.DailyAnalysis {
	return &models.DailyAnalysis{
		Date:     "2026-08-15",
		Platform: models.PlatformTwitter,
		Metrics:  map[string]float64{models.MetricEngagementRate: 0.04},
	}
}

func TestAnalyticsDaily(t *testing.T) {
	analyzer := &fakeAnalyzerSrv{analysis: dailyFixture()}
	handler := NewAnalyticsHandler(analyzer, &fakeTrendSrv{}, nil, nil, true)

	rec := getRequest(handler.Daily, "/analytics/daily?date=2026-08-15&platform=twitter")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-08-15", analyzer.lastDate)
	assert.Equal(t, models.PlatformTwitter, analyzer.lastPlat)
}

func TestAnalyticsDailyRejectsBadDate(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{analysis: dailyFixture()}, &fakeTrendSrv{}, nil, nil, true)

	rec := getRequest(handler.Daily, "/analytics/daily?date=yesterday")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsDailyRejectsUnknownPlatform(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{analysis: dailyFixture()}, &fakeTrendSrv{}, nil, nil, true)

	rec := getRequest(handler.Daily, "/analytics/daily?platform=myspace")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsRunDaily(t *testing.T) {
	analyzer := &fakeAnalyzerSrv{analysis: dailyFixture()}
	handler := NewAnalyticsHandler(analyzer, &fakeTrendSrv{}, nil, nil, true)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/analytics/daily/run?date=2026-08-15", nil)
	handler.RunDaily(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2026-08-15"}, analyzer.ranDates)
}

func TestAnalyticsTrends(t *testing.T) {
	trends := &fakeTrendSrv{analysis: &models.TrendAnalysis{WindowDays: 14}}
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{}, trends, nil, nil, true)

	rec := getRequest(handler.Trends, "/analytics/trends?days=14")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 14, trends.lastDays)
}

func TestAnalyticsTrendsRejectsBadDays(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{}, &fakeTrendSrv{}, nil, nil, true)

	rec := getRequest(handler.Trends, "/analytics/trends?days=soon")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsRecentSessions(t *testing.T) {
	reader := &fakeSessionReader{sessions: []models.EngagementSession{{SessionID: "session-1"}}}
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{}, &fakeTrendSrv{}, reader, nil, true)

	rec := getRequest(handler.RecentSessions, "/analytics/sessions/recent?hours=6")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, reader.lastHours)
	assert.Contains(t, rec.Body.String(), "session-1")
}

func TestAnalyticsRecentSessionsDefaultWindow(t *testing.T) {
	reader := &fakeSessionReader{}
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{}, &fakeTrendSrv{}, reader, nil, true)

	rec := getRequest(handler.RecentSessions, "/analytics/sessions/recent")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 24, reader.lastHours)
}

func TestAnalyticsRecentSessionsRejectsBadHours(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{}, &fakeTrendSrv{}, &fakeSessionReader{}, nil, true)

	rec := getRequest(handler.RecentSessions, "/analytics/sessions/recent?hours=-3")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsRecentSessionsStoreFailure(t *testing.T) {
	reader := &fakeSessionReader{err: errors.New("store unavailable")}
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{}, &fakeTrendSrv{}, reader, nil, true)

	rec := getRequest(handler.RecentSessions, "/analytics/sessions/recent")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAnalyticsExportCSV(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{analysis: dailyFixture()}, &fakeTrendSrv{}, nil, nil, true)

	rec := getRequest(handler.ExportDaily, "/analytics/daily/export?date=2026-08-15&format=csv")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "engagement_rate")
}

func TestAnalyticsExportPDF(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{analysis: dailyFixture()}, &fakeTrendSrv{}, nil, nil, true)

	rec := getRequest(handler.ExportDaily, "/analytics/daily/export?date=2026-08-15&format=pdf")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/pdf")
}

func TestAnalyticsExportDisabled(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{analysis: dailyFixture()}, &fakeTrendSrv{}, nil, nil, false)

	rec := getRequest(handler.ExportDaily, "/analytics/daily/export")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAnalyticsExportUnknownFormat(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyzerSrv{analysis: dailyFixture()}, &fakeTrendSrv{}, nil, nil, true)

	rec := getRequest(handler.ExportDaily, "/analytics/daily/export?format=xml")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
