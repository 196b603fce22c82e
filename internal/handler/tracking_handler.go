package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/smm-analytics-api/internal/dto"
	"github.com/noah-isme/smm-analytics-api/internal/models"
	"github.com/noah-isme/smm-analytics-api/internal/service"
	appErrors "github.com/noah-isme/smm-analytics-api/pkg/errors"
	"github.com/noah-isme/smm-analytics-api/pkg/response"
)

type trackerService interface {
	TrackPostPerformance(ctx context.Context, postID string, platform models.Platform, raw service.RawPostMetrics, content *service.ContentInfo) bool
	TrackLinkedInPostPerformance(ctx context.Context, postID string, raw service.RawLinkedInMetrics, content *service.ContentInfo) bool
	TrackEngagementSession(ctx context.Context, sessionID string, activity models.ActivityType, interactions map[string]int, accountsEngaged []string, durationMinutes float64, topics []string) bool
}

// TrackingHandler wires the tracker service to the ingestion endpoints.
type TrackingHandler struct {
	service trackerService
}

// NewTrackingHandler constructs the handler.
func NewTrackingHandler(service trackerService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// TrackPost godoc
// @Summary Ingest one post performance measurement
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body dto.TrackPostRequest true "Measurement payload"
// @Success 200 {object} response.Envelope
// @Router /track/posts [post]
func (h *TrackingHandler) TrackPost(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.TrackPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	tracked := h.service.TrackPostPerformance(c.Request.Context(), req.PostID,
		models.Platform(req.Platform), rawMetricsFromPayload(req.Metrics), contentFromPayload(req.Content))
	response.JSON(c, http.StatusOK, dto.TrackResponse{Tracked: tracked, PostID: req.PostID}, nil)
}

// TrackLinkedInPost godoc
// @Summary Ingest one LinkedIn post measurement
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body dto.TrackLinkedInPostRequest true "Measurement payload"
// @Success 200 {object} response.Envelope
// @Router /track/posts/linkedin [post]
func (h *TrackingHandler) TrackLinkedInPost(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.TrackLinkedInPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	raw := service.RawLinkedInMetrics{
		Likes:         req.Metrics.Likes,
		Shares:        req.Metrics.Shares,
		Comments:      req.Metrics.Comments,
		Impressions:   req.Metrics.Impressions,
		Clicks:        req.Metrics.Clicks,
		ProfileVisits: req.Metrics.ProfileVisits,
		Follows:       req.Metrics.Follows,
		Reach:         req.Metrics.Reach,
	}
	tracked := h.service.TrackLinkedInPostPerformance(c.Request.Context(), req.PostID, raw, contentFromPayload(req.Content))
	response.JSON(c, http.StatusOK, dto.TrackResponse{Tracked: tracked, PostID: req.PostID}, nil)
}

// TrackSession godoc
// @Summary Ingest one finished engagement session
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body dto.TrackSessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Router /track/sessions [post]
func (h *TrackingHandler) TrackSession(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.TrackSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	tracked := h.service.TrackEngagementSession(c.Request.Context(), req.SessionID,
		models.ActivityType(req.ActivityType), req.Interactions, req.AccountsEngaged,
		req.DurationMinutes, req.Topics)
	response.JSON(c, http.StatusOK, dto.TrackResponse{Tracked: tracked, SessionID: req.SessionID}, nil)
}

func rawMetricsFromPayload(payload dto.RawMetricsPayload) service.RawPostMetrics {
	return service.RawPostMetrics{
		Likes:         payload.Likes,
		Retweets:      payload.Retweets,
		Replies:       payload.Replies,
		Impressions:   payload.Impressions,
		Clicks:        payload.Clicks,
		ProfileVisits: payload.ProfileVisits,
		Follows:       payload.Follows,
		Reach:         payload.Reach,
	}
}

func contentFromPayload(payload *dto.ContentPayload) *service.ContentInfo {
	if payload == nil {
		return nil
	}
	info := &service.ContentInfo{
		ContentType: models.ContentType(payload.ContentType),
		Hashtags:    payload.Hashtags,
		Mentions:    payload.Mentions,
	}
	if payload.PostedAt != nil {
		if parsed, err := time.Parse(time.RFC3339, *payload.PostedAt); err == nil {
			info.PostedAt = &parsed
		}
	}
	return info
}
