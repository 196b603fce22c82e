package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smm-analytics-api/internal/models"
)

func newPerformanceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSavePostPerformance(t *testing.T) {
	db, mock, cleanup := newPerformanceMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	mock.ExpectExec("INSERT INTO post_performances").
		WithArgs("post-1", "twitter", 30, 10, 10, 1000, 50, 0, 5, 400,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"image", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.PostPerformance{
		PostID:   "post-1",
		Platform: models.PlatformTwitter,
		Metrics: models.EngagementMetrics{
			Likes: 30, Shares: 10, Replies: 10, Impressions: 1000,
			Clicks: 50, Follows: 5, Reach: 400,
		},
		ContentType: models.ContentImage,
		Hashtags:    []string{"golang"},
		PostedAt:    time.Now().UTC(),
		TrackedAt:   time.Now().UTC(),
	}
	err := repo.SavePostPerformance(context.Background(), record)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPerformancesByDate(t *testing.T) {
	db, mock, cleanup := newPerformanceMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	postedAt := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"post_id", "platform", "likes", "shares", "replies", "impressions",
		"clicks", "profile_visits", "follows", "reach", "save_rate", "share_rate",
		"sentiment_score", "virality_score", "content_type", "hashtags", "mentions", "posted_at", "tracked_at"}).
		AddRow("post-1", "twitter", 30, 10, 10, 1000, 50, 0, 5, 400, 0.05, 0.05, 0.8, 0.3,
			"image", []byte(`["golang"]`), []byte(`[]`), postedAt, postedAt)

	mock.ExpectQuery("FROM post_performances").
		WithArgs("twitter", "2026-08-15").
		WillReturnRows(rows)

	records, err := repo.PostPerformancesByDate(context.Background(), "2026-08-15", models.PlatformTwitter)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "post-1", records[0].PostID)
	assert.Equal(t, []string{"golang"}, records[0].Hashtags)
	assert.Equal(t, 10, records[0].Metrics.Shares)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEngagementSession(t *testing.T) {
	db, mock, cleanup := newPerformanceMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	mock.ExpectExec("INSERT INTO engagement_sessions").
		WithArgs("session-1", "like_sweep", sqlmock.AnyArg(), sqlmock.AnyArg(), 10.0,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 0.7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.EngagementSession{
		SessionID:       "session-1",
		ActivityType:    models.ActivityLikeSweep,
		StartedAt:       time.Now().UTC(),
		EndedAt:         time.Now().UTC(),
		DurationMinutes: 10,
		Interactions:    map[string]int{"likes": 15},
		AccountsEngaged: []string{"a1"},
		QualityScore:    0.7,
	}
	err := repo.SaveEngagementSession(context.Background(), record)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionsByDate(t *testing.T) {
	db, mock, cleanup := newPerformanceMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	startedAt := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"session_id", "activity_type", "started_at", "ended_at",
		"duration_minutes", "interactions", "accounts_engaged", "topics", "quality_score"}).
		AddRow("session-1", "like_sweep", startedAt, startedAt.Add(10*time.Minute), 10.0,
			[]byte(`{"likes":15}`), []byte(`["a1","a2"]`), []byte(`["golang"]`), 0.7)

	mock.ExpectQuery("FROM engagement_sessions").
		WithArgs("2026-08-15").
		WillReturnRows(rows)

	records, err := repo.SessionsByDate(context.Background(), "2026-08-15")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 15, records[0].Interactions["likes"])
	assert.Equal(t, []string{"a1", "a2"}, records[0].AccountsEngaged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentEngagementSessions(t *testing.T) {
	db, mock, cleanup := newPerformanceMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	startedAt := time.Now().UTC().Add(-30 * time.Minute)
	rows := sqlmock.NewRows([]string{"session_id", "activity_type", "started_at", "ended_at",
		"duration_minutes", "interactions", "accounts_engaged", "topics", "quality_score"}).
		AddRow("session-2", "reply_guy", startedAt, startedAt.Add(15*time.Minute), 15.0,
			[]byte(`{"replies":8}`), []byte(`["a3"]`), []byte(`[]`), 0.5)

	mock.ExpectQuery("FROM engagement_sessions").
		WithArgs(6).
		WillReturnRows(rows)

	records, err := repo.RecentEngagementSessions(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "session-2", records[0].SessionID)
	assert.Equal(t, 8, records[0].Interactions["replies"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDailyAnalysis(t *testing.T) {
	db, mock, cleanup := newPerformanceMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	mock.ExpectExec("INSERT INTO daily_analyses").
		WithArgs("2026-08-15", "twitter", sqlmock.AnyArg(), 0.42, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.DailyAnalysis{
		Date:             "2026-08-15",
		Platform:         models.PlatformTwitter,
		Metrics:          map[string]float64{models.MetricEngagementRate: 0.04},
		PerformanceScore: 0.42,
		GeneratedAt:      time.Now().UTC(),
	}
	err := repo.SaveDailyAnalysis(context.Background(), record)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyAnalysisFound(t *testing.T) {
	db, mock, cleanup := newPerformanceMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	payload := []byte(`{"date":"2026-08-15","platform":"twitter","metrics":{"engagement_rate":0.04}}`)
	mock.ExpectQuery("SELECT payload FROM daily_analyses").
		WithArgs("2026-08-15", "twitter").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	record, err := repo.DailyAnalysis(context.Background(), "2026-08-15", models.PlatformTwitter)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.InDelta(t, 0.04, record.Metrics[models.MetricEngagementRate], 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyAnalysisNotFound(t *testing.T) {
	db, mock, cleanup := newPerformanceMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	mock.ExpectQuery("SELECT payload FROM daily_analyses").
		WithArgs("2026-08-15", "twitter").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	record, err := repo.DailyAnalysis(context.Background(), "2026-08-15", models.PlatformTwitter)
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}
