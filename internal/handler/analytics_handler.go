package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smm-analytics-api/internal/middleware"
	"github.com/noah-isme/smm-analytics-api/internal/models"
	"github.com/noah-isme/smm-analytics-api/internal/service"
	appErrors "github.com/noah-isme/smm-analytics-api/pkg/errors"
	"github.com/noah-isme/smm-analytics-api/pkg/export"
	"github.com/noah-isme/smm-analytics-api/pkg/response"
)

type analyzerService interface {
	DailyAnalysis(ctx context.Context, date string, platform models.Platform) (*models.DailyAnalysis, bool, error)
	AnalyzeDay(ctx context.Context, date string, platform models.Platform) *models.DailyAnalysis
}

type trendService interface {
	GenerateTrendAnalysis(ctx context.Context, days int, platform models.Platform) *models.TrendAnalysis
}

const defaultRecentSessionHours = 24

type sessionReader interface {
	RecentEngagementSessions(ctx context.Context, hours int) ([]models.EngagementSession, error)
}

// AnalyticsHandler exposes daily analyses, trend reports and system metrics.
type AnalyticsHandler struct {
	analyzer      analyzerService
	trends        trendService
	sessions      sessionReader
	metrics       *service.MetricsService
	csvExporter   *export.CSVExporter
	pdfExporter   *export.PDFExporter
	exportEnabled bool
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(analyzer analyzerService, trends trendService, sessions sessionReader, metrics *service.MetricsService, exportEnabled bool) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyzer:      analyzer,
		trends:        trends,
		sessions:      sessions,
		metrics:       metrics,
		csvExporter:   export.NewCSVExporter(),
		pdfExporter:   export.NewPDFExporter(),
		exportEnabled: exportEnabled,
	}
}

// Daily godoc
// @Summary Daily analysis for one date
// @Tags Analytics
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Param platform query string false "Platform. Defaults to twitter"
// @Success 200 {object} response.Envelope
// @Router /analytics/daily [get]
func (h *AnalyticsHandler) Daily(c *gin.Context) {
	if h.analyzer == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	date, platform, err := h.dateAndPlatform(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	start := time.Now()
	analysis, cacheHit, err := h.analyzer.DailyAnalysis(c.Request.Context(), date, platform)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, analysis, nil, meta)
}

// RunDaily godoc
// @Summary Recompute the daily analysis for one date
// @Tags Analytics
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Param platform query string false "Platform. Defaults to twitter"
// @Success 200 {object} response.Envelope
// @Router /analytics/daily/run [post]
func (h *AnalyticsHandler) RunDaily(c *gin.Context) {
	if h.analyzer == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	date, platform, err := h.dateAndPlatform(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	analysis := h.analyzer.AnalyzeDay(c.Request.Context(), date, platform)
	response.JSON(c, http.StatusOK, analysis, nil)
}

// Trends godoc
// @Summary Trend report over a trailing window
// @Tags Analytics
// @Produce json
// @Param days query int false "Window size in days. Defaults to 7"
// @Param platform query string false "Platform. Defaults to twitter"
// @Success 200 {object} response.Envelope
// @Router /analytics/trends [get]
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	if h.trends == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	platform, err := parsePlatform(c.Query("platform"))
	if err != nil {
		response.Error(c, err)
		return
	}

	days := 0
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "days must be a positive integer"))
			return
		}
		days = parsed
	}

	start := time.Now()
	analysis := h.trends.GenerateTrendAnalysis(c.Request.Context(), days, platform)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, analysis, nil, meta)
}

// RecentSessions godoc
// @Summary Engagement sessions tracked within a trailing window
// @Tags Analytics
// @Produce json
// @Param hours query int false "Window size in hours. Defaults to 24"
// @Success 200 {object} response.Envelope
// @Router /analytics/sessions/recent [get]
func (h *AnalyticsHandler) RecentSessions(c *gin.Context) {
	if h.sessions == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	hours := defaultRecentSessionHours
	if raw := strings.TrimSpace(c.Query("hours")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "hours must be a positive integer"))
			return
		}
		hours = parsed
	}

	sessions, err := h.sessions.RecentEngagementSessions(c.Request.Context(), hours)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "load recent sessions"))
		return
	}
	if sessions == nil {
		sessions = []models.EngagementSession{}
	}
	response.JSON(c, http.StatusOK, sessions, nil, map[string]interface{}{"window_hours": hours})
}

// System godoc
// @Summary Aggregated system metrics snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	if h.metrics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

// ExportDaily godoc
// @Summary Export a daily analysis as CSV or PDF
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Param platform query string false "Platform. Defaults to twitter"
// @Param format query string false "csv or pdf. Defaults to csv"
// @Success 200 {file} byte
// @Router /analytics/daily/export [get]
func (h *AnalyticsHandler) ExportDaily(c *gin.Context) {
	if h.analyzer == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if !h.exportEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "export is disabled"))
		return
	}
	date, platform, err := h.dateAndPlatform(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	analysis, _, err := h.analyzer.DailyAnalysis(c.Request.Context(), date, platform)
	if err != nil {
		response.Error(c, err)
		return
	}

	dataset := export.DailyReportDataset(analysis)
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "csv")))
	switch format {
	case "csv":
		payload, err := h.csvExporter.Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrInternal, "render csv export"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.csv", platform, date))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.pdfExporter.Render(dataset, export.DailyReportTitle(analysis))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrInternal, "render pdf export"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.pdf", platform, date))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

func (h *AnalyticsHandler) dateAndPlatform(c *gin.Context) (string, models.Platform, error) {
	platform, err := parsePlatform(c.Query("platform"))
	if err != nil {
		return "", "", err
	}
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	return date, platform, nil
}

func parsePlatform(raw string) (models.Platform, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", nil
	}
	platform := models.Platform(raw)
	if !platform.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown platform")
	}
	return platform, nil
}
