package dto

import (
	"time"

	"github.com/google/uuid"
)

type KeywordListResponse struct {
	Keywords []string `json:"keywords"`
}

type ModerationCaseResponse struct {
	Id            uuid.UUID              `json:"id"`
	Source        string                 `json:"source"`
	FlaggedUserId string                 `json:"flagged_user_id"`
	Subcategory   string                 `json:"subcategory"`
	Priority      string                 `json:"priority"`
	Score         float64                `json:"score"`
	Resolution    string                 `json:"resolution,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// AlertPush is the payload streamed to moderator dashboards over websocket.
type AlertPush struct {
	Title       string  `json:"title"`
	FlaggedUser string  `json:"flagged_user"`
	Content     string  `json:"content"`
	Subcategory string  `json:"subcategory"`
	Priority    string  `json:"priority"`
	Score       float64 `json:"score"`
	Source      string  `json:"source"`
}
