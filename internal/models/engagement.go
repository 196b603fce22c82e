package models

import "time"

// Platform identifies the social network a post was published on.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// Valid reports whether the platform is one of the supported networks.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformLinkedIn, PlatformFacebook, PlatformInstagram:
		return true
	}
	return false
}

// ActivityType classifies an outbound engagement sweep.
type ActivityType string

const (
	ActivityLikeSweep   ActivityType = "like_sweep"
	ActivityReplySweep  ActivityType = "reply_sweep"
	ActivityFollowSweep ActivityType = "follow_sweep"
	ActivityRepostSweep ActivityType = "repost_sweep"
	ActivityMixed       ActivityType = "mixed"
)

// Valid reports whether the activity type is a known sweep kind.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityLikeSweep, ActivityReplySweep, ActivityFollowSweep, ActivityRepostSweep, ActivityMixed:
		return true
	}
	return false
}

// ContentType categorises published content.
type ContentType string

const (
	ContentText   ContentType = "text"
	ContentImage  ContentType = "image"
	ContentVideo  ContentType = "video"
	ContentThread ContentType = "thread"
	ContentPoll   ContentType = "poll"
)

// EngagementMetrics holds the raw counters for one published item plus the
// rates derived from them.
type EngagementMetrics struct {
	Likes         int `db:"likes" json:"likes"`
	Shares        int `db:"shares" json:"shares"`
	Replies       int `db:"replies" json:"replies"`
	Impressions   int `db:"impressions" json:"impressions"`
	Clicks        int `db:"clicks" json:"clicks"`
	ProfileVisits int `db:"profile_visits" json:"profile_visits"`
	Follows       int `db:"follows" json:"follows"`
	Reach         int `db:"reach" json:"reach"`

	SaveRate  float64 `db:"save_rate" json:"save_rate"`
	ShareRate float64 `db:"share_rate" json:"share_rate"`
}

// TotalEngagements sums likes, shares and replies.
func (m EngagementMetrics) TotalEngagements() int {
	return m.Likes + m.Shares + m.Replies
}

// EngagementRate returns total engagements over impressions, 0 when the post
// had no impressions.
func (m EngagementMetrics) EngagementRate() float64 {
	if m.Impressions == 0 {
		return 0
	}
	return float64(m.TotalEngagements()) / float64(m.Impressions)
}

// DeriveRates recomputes SaveRate and ShareRate from the raw counters.
// Both resolve to 0 when impressions is 0.
func (m *EngagementMetrics) DeriveRates() {
	if m.Impressions == 0 {
		m.SaveRate = 0
		m.ShareRate = 0
		return
	}
	m.SaveRate = float64(m.TotalEngagements()) / float64(m.Impressions)
	m.ShareRate = float64(m.Clicks) / float64(m.Impressions)
}

// SentimentScore approximates audience sentiment from the engagement mix:
// likes and shares count as positive signal, replies are discounted as they
// often carry disagreement. Neutral 0.5 when there is no engagement at all.
func (m EngagementMetrics) SentimentScore() float64 {
	total := m.TotalEngagements()
	if total == 0 {
		return 0.5
	}
	positive := float64(m.Likes+m.Shares) / float64(total)
	replyRatio := float64(m.Replies) / float64(total)
	return clamp01(positive - 0.3*replyRatio)
}

// ViralityScore measures how far a post spread relative to its impressions.
// Weighted share rate dominates, amplified x10 and capped at 1.
func (m EngagementMetrics) ViralityScore() float64 {
	if m.Impressions == 0 {
		return 0
	}
	impressions := float64(m.Impressions)
	score := 0.5*(float64(m.Shares)/impressions) +
		0.3*(float64(m.TotalEngagements())/impressions) +
		0.2*(float64(m.Reach)/impressions)
	return clamp01(score * 10)
}

// PostPerformance is one tracked measurement of a published post. Re-measuring
// the same post overwrites the previous snapshot (last write wins).
type PostPerformance struct {
	PostID         string            `db:"post_id" json:"post_id"`
	Platform       Platform          `db:"platform" json:"platform"`
	Metrics        EngagementMetrics `json:"metrics"`
	ContentType    ContentType       `db:"content_type" json:"content_type"`
	Hashtags       []string          `json:"hashtags"`
	Mentions       []string          `json:"mentions"`
	PostedAt       time.Time         `db:"posted_at" json:"posted_at"`
	TrackedAt      time.Time         `db:"tracked_at" json:"tracked_at"`
	SentimentScore float64           `db:"sentiment_score" json:"sentiment_score"`
	ViralityScore  float64           `db:"virality_score" json:"virality_score"`
}

// EngagementSession records one batch of outbound engagement activity.
// Immutable once finalised.
type EngagementSession struct {
	SessionID       string         `db:"session_id" json:"session_id"`
	ActivityType    ActivityType   `db:"activity_type" json:"activity_type"`
	StartedAt       time.Time      `db:"started_at" json:"started_at"`
	EndedAt         time.Time      `db:"ended_at" json:"ended_at"`
	DurationMinutes float64        `db:"duration_minutes" json:"duration_minutes"`
	Interactions    map[string]int `json:"interactions"`
	AccountsEngaged []string       `json:"accounts_engaged"`
	Topics          []string       `json:"topics"`
	QualityScore    float64        `db:"quality_score" json:"quality_score"`
}

// TotalInteractions sums the per-type interaction counts.
func (s EngagementSession) TotalInteractions() int {
	total := 0
	for _, count := range s.Interactions {
		total += count
	}
	return total
}

// ComputeQualityScore derives the session quality from pace and account
// diversity. Zero duration or zero interactions resolve to 0, never an error.
func (s EngagementSession) ComputeQualityScore() float64 {
	total := s.TotalInteractions()
	if s.DurationMinutes <= 0 || total == 0 {
		return 0
	}
	perMinute := float64(total) / s.DurationMinutes
	diversity := float64(len(s.AccountsEngaged)) / float64(total)
	return clamp01((perMinute*0.6 + diversity*0.4) / 2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
