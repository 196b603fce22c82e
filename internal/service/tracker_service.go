package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/smm-analytics-api/internal/models"
)

// PerformanceStore is the persistence surface the tracker writes through.
type PerformanceStore interface {
	SavePostPerformance(ctx context.Context, record *models.PostPerformance) error
	SaveEngagementSession(ctx context.Context, record *models.EngagementSession) error
}

// RawPostMetrics is the typed boundary for loosely-shaped scraper payloads.
// Fields missing upstream arrive as zero values; unknown upstream keys never
// make it past deserialisation.
type RawPostMetrics struct {
	Likes         int
	Retweets      int
	Replies       int
	Impressions   int
	Clicks        int
	ProfileVisits int
	Follows       int
	Reach         int
}

// RawLinkedInMetrics mirrors LinkedIn's field naming. Shares and comments map
// onto the retweet/reply equivalents; anything else the scraper collects is
// dropped here.
type RawLinkedInMetrics struct {
	Likes         int
	Shares        int
	Comments      int
	Impressions   int
	Clicks        int
	ProfileVisits int
	Follows       int
	Reach         int
}

// ContentInfo carries optional content metadata alongside a measurement.
type ContentInfo struct {
	ContentType models.ContentType
	Hashtags    []string
	Mentions    []string
	PostedAt    *time.Time
}

// TrackerService normalises raw engagement numbers into performance records
// and persists them. Track methods never propagate failures: they run inside
// automation loops that must not be aborted by tracking problems, so every
// error is logged and reported as a false return.
type TrackerService struct {
	store   PerformanceStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewTrackerService constructs a tracker.
func NewTrackerService(store PerformanceStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *TrackerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackerService{store: store, cache: cache, metrics: metrics, logger: logger, now: time.Now}
}

// TrackPostPerformance records one measurement of a published post. Missing
// metric fields default to 0; re-measuring the same post overwrites the
// previous snapshot.
func (s *TrackerService) TrackPostPerformance(ctx context.Context, postID string, platform models.Platform, raw RawPostMetrics, content *ContentInfo) bool {
	if postID == "" {
		s.trackingFailed("post", fmt.Errorf("empty post id"))
		return false
	}
	if platform == "" {
		platform = models.PlatformTwitter
	}
	if !platform.Valid() {
		s.trackingFailed("post", fmt.Errorf("unknown platform %q for post %s", platform, postID))
		return false
	}

	metrics := models.EngagementMetrics{
		Likes:         raw.Likes,
		Shares:        raw.Retweets,
		Replies:       raw.Replies,
		Impressions:   raw.Impressions,
		Clicks:        raw.Clicks,
		ProfileVisits: raw.ProfileVisits,
		Follows:       raw.Follows,
		Reach:         raw.Reach,
	}
	metrics.DeriveRates()

	now := s.now().UTC()
	record := &models.PostPerformance{
		PostID:         postID,
		Platform:       platform,
		Metrics:        metrics,
		ContentType:    models.ContentText,
		PostedAt:       now,
		TrackedAt:      now,
		SentimentScore: metrics.SentimentScore(),
		ViralityScore:  metrics.ViralityScore(),
	}
	if content != nil {
		if content.ContentType != "" {
			record.ContentType = content.ContentType
		}
		record.Hashtags = content.Hashtags
		record.Mentions = content.Mentions
		if content.PostedAt != nil {
			record.PostedAt = content.PostedAt.UTC()
		}
	}

	queryStart := time.Now()
	err := s.store.SavePostPerformance(ctx, record)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("save_post_performance", time.Since(queryStart))
	}
	if err != nil {
		s.trackingFailed("post", fmt.Errorf("save post %s: %w", postID, err))
		return false
	}

	s.invalidateDay(ctx, platform, record.PostedAt)
	if s.metrics != nil {
		s.metrics.RecordPostTracked(platform)
	}
	return true
}

// TrackLinkedInPostPerformance adapts LinkedIn field naming onto the generic
// tracker: shares become the retweet equivalent, comments the reply
// equivalent. Unmapped extra fields are dropped, not preserved.
func (s *TrackerService) TrackLinkedInPostPerformance(ctx context.Context, postID string, raw RawLinkedInMetrics, content *ContentInfo) bool {
	mapped := RawPostMetrics{
		Likes:         raw.Likes,
		Retweets:      raw.Shares,
		Replies:       raw.Comments,
		Impressions:   raw.Impressions,
		Clicks:        raw.Clicks,
		ProfileVisits: raw.ProfileVisits,
		Follows:       raw.Follows,
		Reach:         raw.Reach,
	}
	return s.TrackPostPerformance(ctx, postID, models.PlatformLinkedIn, mapped, content)
}

// TrackEngagementSession finalises and persists one engagement sweep. A blank
// session id gets a generated one; an unknown activity tag is filed as mixed
// rather than rejected.
func (s *TrackerService) TrackEngagementSession(ctx context.Context, sessionID string, activity models.ActivityType, interactions map[string]int, accountsEngaged []string, durationMinutes float64, topics []string) bool {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if !activity.Valid() {
		if activity != "" {
			s.logger.Debug("unknown activity type, filing as mixed", zap.String("activity", string(activity)))
		}
		activity = models.ActivityMixed
	}

	endedAt := s.now().UTC()
	record := &models.EngagementSession{
		SessionID:       sessionID,
		ActivityType:    activity,
		StartedAt:       endedAt.Add(-time.Duration(durationMinutes * float64(time.Minute))),
		EndedAt:         endedAt,
		DurationMinutes: durationMinutes,
		Interactions:    interactions,
		AccountsEngaged: dedupeAccounts(accountsEngaged),
		Topics:          topics,
	}
	record.QualityScore = record.ComputeQualityScore()

	queryStart := time.Now()
	err := s.store.SaveEngagementSession(ctx, record)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("save_engagement_session", time.Since(queryStart))
	}
	if err != nil {
		s.trackingFailed("session", fmt.Errorf("save session %s: %w", sessionID, err))
		return false
	}

	// Sessions feed every platform's daily analysis for that date.
	if s.cache != nil {
		date := record.StartedAt.Format("2006-01-02")
		_ = s.cache.Invalidate(ctx, fmt.Sprintf("analysis:*:%s", date))
		_ = s.cache.Invalidate(ctx, "trend:*")
	}
	if s.metrics != nil {
		s.metrics.RecordSessionTracked(activity)
	}
	return true
}

func (s *TrackerService) invalidateDay(ctx context.Context, platform models.Platform, postedAt time.Time) {
	if s.cache == nil {
		return
	}
	date := postedAt.UTC().Format("2006-01-02")
	_ = s.cache.Invalidate(ctx, fmt.Sprintf("analysis:%s:%s", platform, date))
	_ = s.cache.Invalidate(ctx, fmt.Sprintf("trend:%s:*", platform))
}

func (s *TrackerService) trackingFailed(kind string, err error) {
	s.logger.Error("tracking failed", zap.String("kind", kind), zap.Error(err))
	if s.metrics != nil {
		s.metrics.RecordTrackingFailure(kind)
	}
}

func dedupeAccounts(accounts []string) []string {
	if len(accounts) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(accounts))
	distinct := make([]string, 0, len(accounts))
	for _, account := range accounts {
		if account == "" {
			continue
		}
		if _, ok := seen[account]; ok {
			continue
		}
		seen[account] = struct{}{}
		distinct = append(distinct, account)
	}
	return distinct
}
