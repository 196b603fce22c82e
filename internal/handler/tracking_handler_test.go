package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smm-analytics-api/internal/models"
	"github.com/noah-isme/smm-analytics-api/internal/service"
	"github.com/noah-isme/smm-analytics-api/pkg/response"
)

type fakeTrackerSrv struct {
	tracked  bool
	lastPost struct {
		postID   string
		platform models.Platform
		raw      service.RawPostMetrics
		content  *service.ContentInfo
	}
	lastSession struct {
		sessionID string
		activity  models.ActivityType
		duration  float64
	}
}

func (f *fakeTrackerSrv) TrackPostPerformance(_ context.Context, postID string, platform models.Platform, raw service.RawPostMetrics, content *service.ContentInfo) bool {
	f.lastPost.postID = postID
	f.lastPost.platform = platform
	f.lastPost.raw = raw
	f.lastPost.content = content
	return f.tracked
}

func (f *fakeTrackerSrv) TrackLinkedInPostPerformance(ctx context.Context, postID string, raw service.RawLinkedInMetrics, content *service.ContentInfo) bool {
	return f.TrackPostPerformance(ctx, postID, models.PlatformLinkedIn, service.RawPostMetrics{
		Likes: raw.Likes, Retweets: raw.Shares, Replies: raw.Comments,
		Impressions: raw.Impressions, Clicks: raw.Clicks,
		ProfileVisits: raw.ProfileVisits, Follows: raw.Follows, Reach: raw.Reach,
	}, content)
}

func (f *fakeTrackerSrv) TrackEngagementSession(_ context.Context, sessionID string, activity models.ActivityType, _ map[string]int, _ []string, durationMinutes float64, _ []string) bool {
	f.lastSession.sessionID = sessionID
	f.lastSession.activity = activity
	f.lastSession.duration = durationMinutes
	return f.tracked
}

func postJSON(handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return rec
}

func TestTrackPostEndpoint(t *testing.T) {
	srv := &fakeTrackerSrv{tracked: true}
	handler := NewTrackingHandler(srv)

	rec := postJSON(handler.TrackPost, "/track/posts",
		`{"post_id":"post-1","platform":"twitter","metrics":{"likes":30,"retweets":10,"impressions":1000}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "post-1", srv.lastPost.postID)
	assert.Equal(t, models.PlatformTwitter, srv.lastPost.platform)
	assert.Equal(t, 10, srv.lastPost.raw.Retweets)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	payload, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, payload["tracked"])
}

func TestTrackPostEndpointRequiresPostID(t *testing.T) {
	handler := NewTrackingHandler(&fakeTrackerSrv{tracked: true})

	rec := postJSON(handler.TrackPost, "/track/posts", `{"metrics":{"likes":1}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrackPostEndpointReportsUntracked(t *testing.T) {
	handler := NewTrackingHandler(&fakeTrackerSrv{tracked: false})

	rec := postJSON(handler.TrackPost, "/track/posts", `{"post_id":"post-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	payload, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, payload["tracked"])
}

func TestTrackLinkedInEndpointRemaps(t *testing.T) {
	srv := &fakeTrackerSrv{tracked: true}
	handler := NewTrackingHandler(srv)

	rec := postJSON(handler.TrackLinkedInPost, "/track/posts/linkedin",
		`{"post_id":"li-1","metrics":{"likes":20,"shares":8,"comments":4}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.PlatformLinkedIn, srv.lastPost.platform)
	assert.Equal(t, 8, srv.lastPost.raw.Retweets)
	assert.Equal(t, 4, srv.lastPost.raw.Replies)
}

func TestTrackSessionEndpointGeneratesID(t *testing.T) {
	srv := &fakeTrackerSrv{tracked: true}
	handler := NewTrackingHandler(srv)

	rec := postJSON(handler.TrackSession, "/track/sessions",
		`{"activity_type":"like_sweep","interactions":{"likes":15},"duration_minutes":10}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, srv.lastSession.sessionID)
	assert.Equal(t, models.ActivityLikeSweep, srv.lastSession.activity)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	payload, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, srv.lastSession.sessionID, payload["session_id"])
}
