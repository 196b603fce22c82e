package dto

// RawMetricsPayload carries the loosely-shaped engagement numbers scraped
// upstream. Missing keys default to zero; unknown keys are ignored by the
// JSON binder and never carried past deserialisation.
type RawMetricsPayload struct {
	Likes         int `json:"likes" binding:"min=0"`
	Retweets      int `json:"retweets" binding:"min=0"`
	Replies       int `json:"replies" binding:"min=0"`
	Impressions   int `json:"impressions" binding:"min=0"`
	Clicks        int `json:"clicks" binding:"min=0"`
	ProfileVisits int `json:"profile_visits" binding:"min=0"`
	Follows       int `json:"follows" binding:"min=0"`
	Reach         int `json:"reach" binding:"min=0"`
}

// LinkedInMetricsPayload mirrors LinkedIn's field naming for the dedicated
// ingestion endpoint.
type LinkedInMetricsPayload struct {
	Likes         int `json:"likes" binding:"min=0"`
	Shares        int `json:"shares" binding:"min=0"`
	Comments      int `json:"comments" binding:"min=0"`
	Impressions   int `json:"impressions" binding:"min=0"`
	Clicks        int `json:"clicks" binding:"min=0"`
	ProfileVisits int `json:"profile_visits" binding:"min=0"`
	Follows       int `json:"follows" binding:"min=0"`
	Reach         int `json:"reach" binding:"min=0"`
}

// ContentPayload is the optional content metadata attached to a measurement.
type ContentPayload struct {
	ContentType string   `json:"content_type" binding:"omitempty,oneof=text image video thread poll"`
	Hashtags    []string `json:"hashtags"`
	Mentions    []string `json:"mentions"`
	PostedAt    *string  `json:"posted_at"`
}

// TrackPostRequest ingests one measurement of a published post.
type TrackPostRequest struct {
	PostID   string            `json:"post_id" binding:"required"`
	Platform string            `json:"platform" binding:"omitempty,oneof=twitter linkedin facebook instagram"`
	Metrics  RawMetricsPayload `json:"metrics"`
	Content  *ContentPayload   `json:"content"`
}

// TrackLinkedInPostRequest ingests one LinkedIn measurement.
type TrackLinkedInPostRequest struct {
	PostID  string                 `json:"post_id" binding:"required"`
	Metrics LinkedInMetricsPayload `json:"metrics"`
	Content *ContentPayload        `json:"content"`
}

// TrackSessionRequest finalises one engagement sweep.
type TrackSessionRequest struct {
	SessionID       string         `json:"session_id"`
	ActivityType    string         `json:"activity_type"`
	Interactions    map[string]int `json:"interactions"`
	AccountsEngaged []string       `json:"accounts_engaged"`
	DurationMinutes float64        `json:"duration_minutes" binding:"min=0"`
	Topics          []string       `json:"topics"`
}

// TrackResponse reports whether a measurement was recorded. Tracking never
// fails a request outright; a false value with HTTP 200 mirrors the tracker's
// swallow-and-report contract.
type TrackResponse struct {
	Tracked   bool   `json:"tracked"`
	PostID    string `json:"post_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}
