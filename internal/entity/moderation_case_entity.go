package entity

import (
	"time"

	"github.com/google/uuid"
)

// Case sources.
const (
	CaseSourceAuto       = "auto_detection"
	CaseSourceUserReport = "user_report"
	CaseSourceCommittee  = "committee"
)

type ModerationCase struct {
	Id              uuid.UUID
	Source          string
	FlaggedUserId   string
	FlaggedUserName string
	Content         string
	Subcategory     string
	Priority        string
	Score           float64
	Resolution      string
	Details         map[string]interface{}
	CreatedAt       time.Time
}
