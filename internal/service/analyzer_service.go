package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/smm-analytics-api/internal/models"
)

// AnalysisStore is the persistence surface the analyzer reads and writes.
type AnalysisStore interface {
	PostPerformancesByDate(ctx context.Context, date string, platform models.Platform) ([]models.PostPerformance, error)
	SessionsByDate(ctx context.Context, date string) ([]models.EngagementSession, error)
	SaveDailyAnalysis(ctx context.Context, record *models.DailyAnalysis) error
	DailyAnalysis(ctx context.Context, date string, platform models.Platform) (*models.DailyAnalysis, error)
}

const analysisDateLayout = "2006-01-02"

// Ranking and filtering constants. Fixed: dashboards and stored history
// depend on these exact values.
const (
	topContentLimit = 5
	hashtagMinUses  = 2
	topHashtagCount = 3
	maxDailyPosts   = 8
	minDailyPosts   = 2
)

// performanceWeights is the fixed weight table behind the overall daily score.
// Metrics absent from a day are excluded from numerator and denominator both.
var performanceWeights = []struct {
	key    string
	weight float64
}{
	{models.MetricEngagementRate, 0.30},
	{models.MetricFollowerGrowth, 0.20},
	{models.MetricImpressions, 0.15},
	{models.MetricReach, 0.15},
	{models.MetricClickThroughRate, 0.10},
	{models.MetricContentQuality, 0.10},
}

// AnalyzerServiceConfig tunes analyzer caching.
type AnalyzerServiceConfig struct {
	CacheTTL        time.Duration
	DefaultPlatform models.Platform
}

// AnalyzerService produces one DailyAnalysis per (date, platform). Analysis
// runs never propagate failures: a run that cannot complete is logged and
// yields the empty template for that date, which callers treat as "failed or
// no data".
type AnalyzerService struct {
	store   AnalysisStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
	cfg     AnalyzerServiceConfig
}

// NewAnalyzerService constructs the analyzer with sane defaults.
func NewAnalyzerService(store AnalysisStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg AnalyzerServiceConfig) *AnalyzerService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.DefaultPlatform == "" {
		cfg.DefaultPlatform = models.PlatformTwitter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzerService{store: store, cache: cache, metrics: metrics, logger: logger, now: time.Now, cfg: cfg}
}

// AnalyzeDay recomputes the analysis for one calendar date and persists it.
// Re-running for the same date overwrites the stored record; given identical
// underlying records the output is identical too.
func (s *AnalyzerService) AnalyzeDay(ctx context.Context, date string, platform models.Platform) *models.DailyAnalysis {
	if platform == "" {
		platform = s.cfg.DefaultPlatform
	}
	if _, err := time.Parse(analysisDateLayout, date); err != nil {
		s.logger.Error("daily analysis failed", zap.String("date", date), zap.Error(err))
		return s.emptyAnalysis(date, platform)
	}

	start := time.Now()
	queryStart := time.Now()
	posts, err := s.store.PostPerformancesByDate(ctx, date, platform)
	s.observeQuery("select_posts_by_date", queryStart)
	if err != nil {
		s.logger.Error("daily analysis failed", zap.String("date", date), zap.String("platform", string(platform)), zap.Error(err))
		return s.emptyAnalysis(date, platform)
	}
	queryStart = time.Now()
	sessions, err := s.store.SessionsByDate(ctx, date)
	s.observeQuery("select_sessions_by_date", queryStart)
	if err != nil {
		s.logger.Error("daily analysis failed", zap.String("date", date), zap.String("platform", string(platform)), zap.Error(err))
		return s.emptyAnalysis(date, platform)
	}

	analysis := s.compose(date, platform, posts, sessions)

	queryStart = time.Now()
	if err := s.store.SaveDailyAnalysis(ctx, analysis); err != nil {
		s.logger.Warn("persist daily analysis failed", zap.String("date", date), zap.Error(err))
	}
	s.observeQuery("upsert_daily_analysis", queryStart)
	if s.cache != nil {
		_ = s.cache.Set(ctx, analysisCacheKey(platform, date), analysis, s.cfg.CacheTTL)
	}
	if s.metrics != nil {
		s.metrics.ObserveAnalysis("daily", time.Since(start))
	}
	return analysis
}

// DailyAnalysis returns the analysis for a date, computing it when no
// persisted record exists. The boolean indicates a cache hit.
func (s *AnalyzerService) DailyAnalysis(ctx context.Context, date string, platform models.Platform) (*models.DailyAnalysis, bool, error) {
	if platform == "" {
		platform = s.cfg.DefaultPlatform
	}
	cacheKey := analysisCacheKey(platform, date)
	if s.cache != nil {
		var cached models.DailyAnalysis
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	queryStart := time.Now()
	stored, err := s.store.DailyAnalysis(ctx, date, platform)
	s.observeQuery("select_daily_analysis", queryStart)
	if err != nil {
		return nil, false, err
	}
	if stored != nil {
		if s.cache != nil {
			_ = s.cache.Set(ctx, cacheKey, stored, s.cfg.CacheTTL)
		}
		return stored, false, nil
	}

	return s.AnalyzeDay(ctx, date, platform), false, nil
}

func (s *AnalyzerService) observeQuery(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

func (s *AnalyzerService) compose(date string, platform models.Platform, posts []models.PostPerformance, sessions []models.EngagementSession) *models.DailyAnalysis {
	analysis := s.emptyAnalysis(date, platform)
	if len(posts) == 0 && len(sessions) == 0 {
		return analysis
	}

	s.buildAggregateMetrics(analysis, posts, sessions)
	s.buildPatterns(analysis, posts, sessions)
	analysis.TopContent = rankTopContent(posts)
	analysis.Insights = buildInsights(analysis.Metrics, len(posts), len(sessions))
	analysis.Recommendations = buildRecommendations(analysis, len(sessions))
	analysis.PerformanceScore = performanceScore(analysis.Metrics)
	return analysis
}

func (s *AnalyzerService) buildAggregateMetrics(analysis *models.DailyAnalysis, posts []models.PostPerformance, sessions []models.EngagementSession) {
	metrics := analysis.Metrics

	if len(posts) > 0 {
		var likes, shares, replies, impressions, reach, clicks, follows int
		var sentimentSum, viralitySum float64
		for _, post := range posts {
			likes += post.Metrics.Likes
			shares += post.Metrics.Shares
			replies += post.Metrics.Replies
			impressions += post.Metrics.Impressions
			reach += post.Metrics.Reach
			clicks += post.Metrics.Clicks
			follows += post.Metrics.Follows
			sentimentSum += post.SentimentScore
			viralitySum += post.ViralityScore
		}

		var engagementRate, clickThroughRate float64
		if impressions > 0 {
			engagementRate = float64(likes+shares+replies) / float64(impressions)
			clickThroughRate = float64(clicks) / float64(impressions)
		}

		metrics[models.MetricEngagementRate] = engagementRate
		metrics[models.MetricImpressions] = float64(impressions)
		metrics[models.MetricReach] = float64(reach)
		metrics[models.MetricClickThroughRate] = clickThroughRate
		metrics[models.MetricFollowerGrowth] = float64(follows)
		metrics[models.MetricContentQuality] = sentimentSum / float64(len(posts))
		metrics["avg_sentiment"] = sentimentSum / float64(len(posts))
		metrics["avg_virality"] = viralitySum / float64(len(posts))
		metrics["total_likes"] = float64(likes)
		metrics["total_shares"] = float64(shares)
		metrics["total_replies"] = float64(replies)
		metrics["total_clicks"] = float64(clicks)
		metrics["total_posts"] = float64(len(posts))
	}

	if len(sessions) > 0 {
		var interactions int
		var qualitySum float64
		accounts := make(map[string]struct{})
		for _, session := range sessions {
			interactions += session.TotalInteractions()
			qualitySum += session.QualityScore
			for _, account := range session.AccountsEngaged {
				accounts[account] = struct{}{}
			}
		}
		metrics["session_count"] = float64(len(sessions))
		metrics["session_interactions"] = float64(interactions)
		metrics["unique_accounts_engaged"] = float64(len(accounts))
		metrics["avg_session_quality"] = qualitySum / float64(len(sessions))
	}
}

func (s *AnalyzerService) buildPatterns(analysis *models.DailyAnalysis, posts []models.PostPerformance, sessions []models.EngagementSession) {
	patterns := &analysis.Patterns

	hourTotals := make(map[int]float64)
	hourCounts := make(map[int]int)
	typeTotals := make(map[models.ContentType]float64)
	typeCounts := make(map[models.ContentType]int)
	tagTotals := make(map[string]float64)
	tagCounts := make(map[string]int)

	for _, post := range posts {
		rate := post.Metrics.EngagementRate()
		hour := post.PostedAt.UTC().Hour()
		hourTotals[hour] += rate
		hourCounts[hour]++
		typeTotals[post.ContentType] += rate
		typeCounts[post.ContentType]++
		for _, tag := range post.Hashtags {
			tag = strings.ToLower(tag)
			tagTotals[tag] += rate
			tagCounts[tag]++
		}
	}

	// Ties resolve to the earliest hour: scan ascending, strict greater wins.
	bestHour := -1
	bestRate := -1.0
	for hour := 0; hour < 24; hour++ {
		count := hourCounts[hour]
		if count == 0 {
			continue
		}
		avg := hourTotals[hour] / float64(count)
		patterns.HourlyEngagement[hour] = avg
		if avg > bestRate {
			bestRate = avg
			bestHour = hour
		}
	}
	patterns.BestPostingHour = bestHour

	for contentType, total := range typeTotals {
		patterns.ContentTypes[contentType] = total / float64(typeCounts[contentType])
	}

	// Single-use hashtags are noise, not signal.
	for tag, count := range tagCounts {
		if count < hashtagMinUses {
			continue
		}
		patterns.HashtagPerformance[tag] = tagTotals[tag] / float64(count)
	}

	patterns.ActivityEffectiveness = buildActivityEffectiveness(sessions)
}

func buildActivityEffectiveness(sessions []models.EngagementSession) map[models.ActivityType]models.ActivityEffectiveness {
	result := make(map[models.ActivityType]models.ActivityEffectiveness)
	if len(sessions) == 0 {
		return result
	}

	type acc struct {
		sessions     int
		interactions int
		minutes      float64
		quality      float64
	}
	grouped := make(map[models.ActivityType]*acc)
	for _, session := range sessions {
		entry := grouped[session.ActivityType]
		if entry == nil {
			entry = &acc{}
			grouped[session.ActivityType] = entry
		}
		entry.sessions++
		entry.interactions += session.TotalInteractions()
		entry.minutes += session.DurationMinutes
		entry.quality += session.QualityScore
	}

	for activity, entry := range grouped {
		avgQuality := entry.quality / float64(entry.sessions)
		var perMinute, effectiveness float64
		if entry.minutes > 0 {
			perMinute = float64(entry.interactions) / entry.minutes
			effectiveness = float64(entry.interactions) * avgQuality / entry.minutes
		}
		result[activity] = models.ActivityEffectiveness{
			Sessions:           entry.sessions,
			TotalInteractions:  entry.interactions,
			TotalMinutes:       entry.minutes,
			InteractionsPerMin: perMinute,
			AverageQuality:     avgQuality,
			EffectivenessScore: effectiveness,
		}
	}
	return result
}

func rankTopContent(posts []models.PostPerformance) []models.TopContentEntry {
	candidates := make([]models.TopContentEntry, 0, len(posts))
	for _, post := range posts {
		if post.Metrics.Impressions == 0 {
			continue
		}
		candidates = append(candidates, models.TopContentEntry{
			PostID:         post.PostID,
			ContentType:    post.ContentType,
			EngagementRate: post.Metrics.EngagementRate(),
			Impressions:    post.Metrics.Impressions,
			Likes:          post.Metrics.Likes,
			Shares:         post.Metrics.Shares,
			Replies:        post.Metrics.Replies,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].EngagementRate == candidates[j].EngagementRate {
			return candidates[i].Impressions > candidates[j].Impressions
		}
		return candidates[i].EngagementRate > candidates[j].EngagementRate
	})

	if len(candidates) > topContentLimit {
		candidates = candidates[:topContentLimit]
	}
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return candidates
}

// buildInsights applies the fixed threshold rules. The cutoffs are part of the
// contract with stored history and dashboards; do not tune them.
func buildInsights(metrics map[string]float64, postCount, sessionCount int) []string {
	insights := []string{}

	if postCount > 0 {
		rate := metrics[models.MetricEngagementRate]
		switch {
		case rate > 0.08:
			insights = append(insights, fmt.Sprintf("Excellent engagement rate (%.2f%%) - content is resonating strongly", rate*100))
		case rate > 0.04:
			insights = append(insights, fmt.Sprintf("Good engagement rate (%.2f%%) - content is performing well", rate*100))
		case rate > 0.02:
			insights = append(insights, fmt.Sprintf("Fair engagement rate (%.2f%%) - there is room to improve", rate*100))
		default:
			insights = append(insights, fmt.Sprintf("Low engagement rate (%.2f%%) - content is not landing with the audience", rate*100))
		}
	}

	if postCount < minDailyPosts {
		insights = append(insights, "Posting frequency is low - consider publishing more consistently")
	} else if postCount > maxDailyPosts {
		insights = append(insights, "High posting volume - watch for audience fatigue")
	}

	if sessionCount > 0 {
		quality := metrics["avg_session_quality"]
		if quality > 0.7 {
			insights = append(insights, "Engagement sessions are high quality - efficient pace and diverse targets")
		} else if quality < 0.3 {
			insights = append(insights, "Engagement sessions are low quality - too slow or too repetitive")
		}
	}

	if postCount > 0 {
		sentiment := metrics["avg_sentiment"]
		if sentiment > 0.7 {
			insights = append(insights, "Audience sentiment is strongly positive")
		} else if sentiment < 0.3 {
			insights = append(insights, "Audience sentiment is concerning - replies outweigh approval")
		}

		virality := metrics["avg_virality"]
		if virality > 0.5 {
			insights = append(insights, "Content is spreading well beyond the follower base")
		} else if virality < 0.1 {
			insights = append(insights, "Content virality is low - little sharing beyond direct reach")
		}
	}

	return insights
}

func buildRecommendations(analysis *models.DailyAnalysis, sessionCount int) []string {
	recommendations := []string{}
	patterns := analysis.Patterns

	if patterns.BestPostingHour >= 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Schedule more posts around %02d:00 - that hour drew the best engagement", patterns.BestPostingHour))
	}

	if contentType, ok := bestContentType(patterns.ContentTypes); ok {
		recommendations = append(recommendations,
			fmt.Sprintf("Lean into %s content - it outperformed other formats", contentType))
	}

	if tags := topHashtags(patterns.HashtagPerformance); len(tags) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Keep using high-performing hashtags: #%s", strings.Join(tags, ", #")))
	}

	if activity, ok := bestActivity(patterns.ActivityEffectiveness); ok {
		recommendations = append(recommendations,
			fmt.Sprintf("Increase %s activity - it delivered the most value per minute", activity))
	}

	if sessionCount > 0 && analysis.Metrics["avg_session_quality"] < 0.5 {
		recommendations = append(recommendations,
			"Engagement sessions could be more efficient - vary target accounts and keep a steadier pace")
	}

	return recommendations
}

func bestContentType(rates map[models.ContentType]float64) (models.ContentType, bool) {
	if len(rates) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(rates))
	for contentType := range rates {
		keys = append(keys, string(contentType))
	}
	sort.Strings(keys)

	best := keys[0]
	for _, key := range keys[1:] {
		if rates[models.ContentType(key)] > rates[models.ContentType(best)] {
			best = key
		}
	}
	return models.ContentType(best), true
}

func topHashtags(rates map[string]float64) []string {
	if len(rates) == 0 {
		return nil
	}
	tags := make([]string, 0, len(rates))
	for tag := range rates {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if rates[tags[i]] == rates[tags[j]] {
			return tags[i] < tags[j]
		}
		return rates[tags[i]] > rates[tags[j]]
	})
	if len(tags) > topHashtagCount {
		tags = tags[:topHashtagCount]
	}
	return tags
}

func bestActivity(effectiveness map[models.ActivityType]models.ActivityEffectiveness) (models.ActivityType, bool) {
	if len(effectiveness) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(effectiveness))
	for activity := range effectiveness {
		keys = append(keys, string(activity))
	}
	sort.Strings(keys)

	best := keys[0]
	for _, key := range keys[1:] {
		if effectiveness[models.ActivityType(key)].EffectivenessScore > effectiveness[models.ActivityType(best)].EffectivenessScore {
			best = key
		}
	}
	return models.ActivityType(best), true
}

// performanceScore folds the day's metrics into one [0,1] scalar using the
// fixed weight table. Metrics absent from the map drop out of numerator and
// denominator alike.
func performanceScore(metrics map[string]float64) float64 {
	var weighted, totalWeight float64
	for _, entry := range performanceWeights {
		value, ok := metrics[entry.key]
		if !ok {
			continue
		}
		weighted += normalizeMetric(entry.key, value) * entry.weight
		totalWeight += entry.weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

func normalizeMetric(key string, value float64) float64 {
	switch key {
	case models.MetricFollowerGrowth:
		value = value / 50
	case models.MetricImpressions:
		value = value / 10000
	}
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func (s *AnalyzerService) emptyAnalysis(date string, platform models.Platform) *models.DailyAnalysis {
	return &models.DailyAnalysis{
		Date:     date,
		Platform: platform,
		Metrics:  map[string]float64{},
		Patterns: models.EngagementPatterns{
			BestPostingHour:       -1,
			HourlyEngagement:      map[int]float64{},
			ContentTypes:          map[models.ContentType]float64{},
			HashtagPerformance:    map[string]float64{},
			ActivityEffectiveness: map[models.ActivityType]models.ActivityEffectiveness{},
		},
		TopContent:      []models.TopContentEntry{},
		Insights:        []string{},
		Recommendations: []string{},
		GeneratedAt:     s.now().UTC(),
	}
}

func analysisCacheKey(platform models.Platform, date string) string {
	return fmt.Sprintf("analysis:%s:%s", platform, date)
}
