package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMM Analytics API",
        "description": "Performance tracking and trend analysis for social media automation",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Tracking", "description": "Ingestion of post measurements and engagement sessions"},
        {"name": "Analytics", "description": "Daily analyses, trend reports and exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/v1/track/posts": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Ingest one post performance measurement",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TrackPostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/track/posts/linkedin": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Ingest one LinkedIn post measurement",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TrackLinkedInPostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/track/sessions": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Ingest one finished engagement session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TrackSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/analytics/daily": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Daily analysis for one date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "platform", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/analytics/daily/run": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Recompute the daily analysis for one date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "platform", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/analytics/daily/export": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Export a daily analysis as CSV or PDF",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "platform", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/api/v1/analytics/trends": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Trend report over a trailing window",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"},
                    {"name": "platform", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/analytics/sessions/recent": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Engagement sessions tracked within a trailing window",
                "parameters": [
                    {"name": "hours", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/analytics/system": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Aggregated system metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RawMetricsPayload": {
            "type": "object",
            "properties": {
                "likes": {"type": "integer"},
                "retweets": {"type": "integer"},
                "replies": {"type": "integer"},
                "impressions": {"type": "integer"},
                "clicks": {"type": "integer"},
                "profile_visits": {"type": "integer"},
                "follows": {"type": "integer"},
                "reach": {"type": "integer"}
            }
        },
        "LinkedInMetricsPayload": {
            "type": "object",
            "properties": {
                "likes": {"type": "integer"},
                "shares": {"type": "integer"},
                "comments": {"type": "integer"},
                "impressions": {"type": "integer"},
                "clicks": {"type": "integer"},
                "profile_visits": {"type": "integer"},
                "follows": {"type": "integer"},
                "reach": {"type": "integer"}
            }
        },
        "ContentPayload": {
            "type": "object",
            "properties": {
                "content_type": {"type": "string"},
                "hashtags": {"type": "array", "items": {"type": "string"}},
                "mentions": {"type": "array", "items": {"type": "string"}},
                "posted_at": {"type": "string"}
            }
        },
        "TrackPostRequest": {
            "type": "object",
            "properties": {
                "post_id": {"type": "string"},
                "platform": {"type": "string"},
                "metrics": {"$ref": "#/definitions/RawMetricsPayload"},
                "content": {"$ref": "#/definitions/ContentPayload"}
            },
            "required": ["post_id"]
        },
        "TrackLinkedInPostRequest": {
            "type": "object",
            "properties": {
                "post_id": {"type": "string"},
                "metrics": {"$ref": "#/definitions/LinkedInMetricsPayload"},
                "content": {"$ref": "#/definitions/ContentPayload"}
            },
            "required": ["post_id"]
        },
        "TrackSessionRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "activity_type": {"type": "string"},
                "interactions": {"type": "object"},
                "accounts_engaged": {"type": "array", "items": {"type": "string"}},
                "duration_minutes": {"type": "number"},
                "topics": {"type": "array", "items": {"type": "string"}}
            }
        },
        "TrackResponse": {
            "type": "object",
            "properties": {
                "tracked": {"type": "boolean"},
                "post_id": {"type": "string"},
                "session_id": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
