package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ModerationCase struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Source          string    `gorm:"type:varchar(32);not null;index"`
	FlaggedUserId   string    `gorm:"type:varchar(64);index"`
	FlaggedUserName string    `gorm:"type:varchar(255)"`
	Content         string    `gorm:"type:text"`
	Subcategory     string    `gorm:"type:varchar(64)"`
	Priority        string    `gorm:"type:varchar(16)"`
	Score           float64
	Resolution      string         `gorm:"type:varchar(255)"`
	Details         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time
}

func (ModerationCase) TableName() string {
	return "moderation_cases"
}
