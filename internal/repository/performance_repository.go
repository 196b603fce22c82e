package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/smm-analytics-api/internal/models"
)

// PerformanceRepository persists tracked engagement records and the analyses
// derived from them. Post and analysis writes are upserts: re-measuring a post
// or re-running a day replaces the previous snapshot.
type PerformanceRepository struct {
	db *sqlx.DB
}

// NewPerformanceRepository instantiates the repository.
func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

type postPerformanceRow struct {
	PostID         string    `db:"post_id"`
	Platform       string    `db:"platform"`
	Likes          int       `db:"likes"`
	Shares         int       `db:"shares"`
	Replies        int       `db:"replies"`
	Impressions    int       `db:"impressions"`
	Clicks         int       `db:"clicks"`
	ProfileVisits  int       `db:"profile_visits"`
	Follows        int       `db:"follows"`
	Reach          int       `db:"reach"`
	SaveRate       float64   `db:"save_rate"`
	ShareRate      float64   `db:"share_rate"`
	SentimentScore float64   `db:"sentiment_score"`
	ViralityScore  float64   `db:"virality_score"`
	ContentType    string    `db:"content_type"`
	Hashtags       []byte    `db:"hashtags"`
	Mentions       []byte    `db:"mentions"`
	PostedAt       time.Time `db:"posted_at"`
	TrackedAt      time.Time `db:"tracked_at"`
}

// SavePostPerformance upserts one post measurement keyed by (post_id, platform).
func (r *PerformanceRepository) SavePostPerformance(ctx context.Context, record *models.PostPerformance) error {
	hashtags, err := json.Marshal(record.Hashtags)
	if err != nil {
		return fmt.Errorf("marshal hashtags: %w", err)
	}
	mentions, err := json.Marshal(record.Mentions)
	if err != nil {
		return fmt.Errorf("marshal mentions: %w", err)
	}

	query := `INSERT INTO post_performances
        (post_id, platform, likes, shares, replies, impressions, clicks, profile_visits, follows, reach,
         save_rate, share_rate, sentiment_score, virality_score, content_type, hashtags, mentions, posted_at, tracked_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
        ON CONFLICT (post_id, platform) DO UPDATE SET
        likes = EXCLUDED.likes, shares = EXCLUDED.shares, replies = EXCLUDED.replies,
        impressions = EXCLUDED.impressions, clicks = EXCLUDED.clicks,
        profile_visits = EXCLUDED.profile_visits, follows = EXCLUDED.follows, reach = EXCLUDED.reach,
        save_rate = EXCLUDED.save_rate, share_rate = EXCLUDED.share_rate,
        sentiment_score = EXCLUDED.sentiment_score, virality_score = EXCLUDED.virality_score,
        content_type = EXCLUDED.content_type, hashtags = EXCLUDED.hashtags, mentions = EXCLUDED.mentions,
        posted_at = EXCLUDED.posted_at, tracked_at = EXCLUDED.tracked_at`

	if _, err := r.db.ExecContext(ctx, query,
		record.PostID, string(record.Platform),
		record.Metrics.Likes, record.Metrics.Shares, record.Metrics.Replies,
		record.Metrics.Impressions, record.Metrics.Clicks, record.Metrics.ProfileVisits,
		record.Metrics.Follows, record.Metrics.Reach,
		record.Metrics.SaveRate, record.Metrics.ShareRate,
		record.SentimentScore, record.ViralityScore,
		string(record.ContentType), hashtags, mentions,
		record.PostedAt, record.TrackedAt,
	); err != nil {
		return fmt.Errorf("upsert post performance %s: %w", record.PostID, err)
	}
	return nil
}

// PostPerformancesByDate returns all post measurements whose posted_at falls
// on the given UTC calendar day.
func (r *PerformanceRepository) PostPerformancesByDate(ctx context.Context, date string, platform models.Platform) ([]models.PostPerformance, error) {
	query := `SELECT post_id, platform, likes, shares, replies, impressions, clicks, profile_visits, follows, reach,
        save_rate, share_rate, sentiment_score, virality_score, content_type, hashtags, mentions, posted_at, tracked_at
        FROM post_performances
        WHERE platform = $1 AND posted_at >= $2::date AND posted_at < $2::date + INTERVAL '1 day'
        ORDER BY posted_at ASC`

	var rows []postPerformanceRow
	if err := r.db.SelectContext(ctx, &rows, query, string(platform), date); err != nil {
		return nil, fmt.Errorf("query post performances for %s: %w", date, err)
	}

	records := make([]models.PostPerformance, 0, len(rows))
	for _, row := range rows {
		record, err := row.toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (row postPerformanceRow) toModel() (models.PostPerformance, error) {
	record := models.PostPerformance{
		PostID:   row.PostID,
		Platform: models.Platform(row.Platform),
		Metrics: models.EngagementMetrics{
			Likes:         row.Likes,
			Shares:        row.Shares,
			Replies:       row.Replies,
			Impressions:   row.Impressions,
			Clicks:        row.Clicks,
			ProfileVisits: row.ProfileVisits,
			Follows:       row.Follows,
			Reach:         row.Reach,
			SaveRate:      row.SaveRate,
			ShareRate:     row.ShareRate,
		},
		ContentType:    models.ContentType(row.ContentType),
		PostedAt:       row.PostedAt,
		TrackedAt:      row.TrackedAt,
		SentimentScore: row.SentimentScore,
		ViralityScore:  row.ViralityScore,
	}
	if len(row.Hashtags) > 0 {
		if err := json.Unmarshal(row.Hashtags, &record.Hashtags); err != nil {
			return models.PostPerformance{}, fmt.Errorf("decode hashtags for %s: %w", row.PostID, err)
		}
	}
	if len(row.Mentions) > 0 {
		if err := json.Unmarshal(row.Mentions, &record.Mentions); err != nil {
			return models.PostPerformance{}, fmt.Errorf("decode mentions for %s: %w", row.PostID, err)
		}
	}
	return record, nil
}

type engagementSessionRow struct {
	SessionID       string    `db:"session_id"`
	ActivityType    string    `db:"activity_type"`
	StartedAt       time.Time `db:"started_at"`
	EndedAt         time.Time `db:"ended_at"`
	DurationMinutes float64   `db:"duration_minutes"`
	Interactions    []byte    `db:"interactions"`
	AccountsEngaged []byte    `db:"accounts_engaged"`
	Topics          []byte    `db:"topics"`
	QualityScore    float64   `db:"quality_score"`
}

// SaveEngagementSession upserts one finalised engagement session.
func (r *PerformanceRepository) SaveEngagementSession(ctx context.Context, record *models.EngagementSession) error {
	interactions, err := json.Marshal(record.Interactions)
	if err != nil {
		return fmt.Errorf("marshal interactions: %w", err)
	}
	accounts, err := json.Marshal(record.AccountsEngaged)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	topics, err := json.Marshal(record.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}

	query := `INSERT INTO engagement_sessions
        (session_id, activity_type, started_at, ended_at, duration_minutes, interactions, accounts_engaged, topics, quality_score)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (session_id) DO UPDATE SET
        activity_type = EXCLUDED.activity_type, started_at = EXCLUDED.started_at, ended_at = EXCLUDED.ended_at,
        duration_minutes = EXCLUDED.duration_minutes, interactions = EXCLUDED.interactions,
        accounts_engaged = EXCLUDED.accounts_engaged, topics = EXCLUDED.topics, quality_score = EXCLUDED.quality_score`

	if _, err := r.db.ExecContext(ctx, query,
		record.SessionID, string(record.ActivityType), record.StartedAt, record.EndedAt,
		record.DurationMinutes, interactions, accounts, topics, record.QualityScore,
	); err != nil {
		return fmt.Errorf("upsert engagement session %s: %w", record.SessionID, err)
	}
	return nil
}

// SessionsByDate returns all sessions that started on the given UTC calendar day.
func (r *PerformanceRepository) SessionsByDate(ctx context.Context, date string) ([]models.EngagementSession, error) {
	query := `SELECT session_id, activity_type, started_at, ended_at, duration_minutes, interactions, accounts_engaged, topics, quality_score
        FROM engagement_sessions
        WHERE started_at >= $1::date AND started_at < $1::date + INTERVAL '1 day'
        ORDER BY started_at ASC`
	return r.selectSessions(ctx, query, date)
}

// RecentEngagementSessions returns sessions started within the last N hours.
func (r *PerformanceRepository) RecentEngagementSessions(ctx context.Context, hours int) ([]models.EngagementSession, error) {
	query := `SELECT session_id, activity_type, started_at, ended_at, duration_minutes, interactions, accounts_engaged, topics, quality_score
        FROM engagement_sessions
        WHERE started_at >= NOW() - ($1 * INTERVAL '1 hour')
        ORDER BY started_at DESC`
	return r.selectSessions(ctx, query, hours)
}

func (r *PerformanceRepository) selectSessions(ctx context.Context, query string, args ...interface{}) ([]models.EngagementSession, error) {
	var rows []engagementSessionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query engagement sessions: %w", err)
	}

	records := make([]models.EngagementSession, 0, len(rows))
	for _, row := range rows {
		record := models.EngagementSession{
			SessionID:       row.SessionID,
			ActivityType:    models.ActivityType(row.ActivityType),
			StartedAt:       row.StartedAt,
			EndedAt:         row.EndedAt,
			DurationMinutes: row.DurationMinutes,
			QualityScore:    row.QualityScore,
		}
		if len(row.Interactions) > 0 {
			if err := json.Unmarshal(row.Interactions, &record.Interactions); err != nil {
				return nil, fmt.Errorf("decode interactions for %s: %w", row.SessionID, err)
			}
		}
		if len(row.AccountsEngaged) > 0 {
			if err := json.Unmarshal(row.AccountsEngaged, &record.AccountsEngaged); err != nil {
				return nil, fmt.Errorf("decode accounts for %s: %w", row.SessionID, err)
			}
		}
		if len(row.Topics) > 0 {
			if err := json.Unmarshal(row.Topics, &record.Topics); err != nil {
				return nil, fmt.Errorf("decode topics for %s: %w", row.SessionID, err)
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// SaveDailyAnalysis upserts one analysis keyed by (date, platform).
func (r *PerformanceRepository) SaveDailyAnalysis(ctx context.Context, record *models.DailyAnalysis) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal daily analysis: %w", err)
	}

	query := `INSERT INTO daily_analyses (date, platform, payload, performance_score, generated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (date, platform) DO UPDATE SET
        payload = EXCLUDED.payload, performance_score = EXCLUDED.performance_score, generated_at = EXCLUDED.generated_at`

	if _, err := r.db.ExecContext(ctx, query,
		record.Date, string(record.Platform), payload, record.PerformanceScore, record.GeneratedAt,
	); err != nil {
		return fmt.Errorf("upsert daily analysis %s/%s: %w", record.Platform, record.Date, err)
	}
	return nil
}

// DailyAnalysis loads one persisted analysis. Returns (nil, nil) when the day
// has never been analysed.
func (r *PerformanceRepository) DailyAnalysis(ctx context.Context, date string, platform models.Platform) (*models.DailyAnalysis, error) {
	var raw []byte
	query := `SELECT payload FROM daily_analyses WHERE date = $1 AND platform = $2`
	if err := r.db.GetContext(ctx, &raw, query, date, string(platform)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query daily analysis %s/%s: %w", platform, date, err)
	}

	record := &models.DailyAnalysis{}
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("decode daily analysis %s/%s: %w", platform, date, err)
	}
	return record, nil
}
