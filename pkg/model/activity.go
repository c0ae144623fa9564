package model

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is an append-only audit record. Writes are fire and
// forget: a failed insert never blocks the request that triggered it.
type ActivityLog struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UserID     *uint          `json:"user_id"`
	Action     string         `json:"action"`
	EntityType *string        `json:"entity_type"`
	EntityID   *string        `json:"entity_id"`
	Metadata   datatypes.JSON `json:"metadata"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}

// ActivityLogRow is a listing row joined with the actor's display name.
type ActivityLogRow struct {
	ID          uint           `json:"id"`
	UserID      *uint          `json:"user_id"`
	DisplayName *string        `json:"display_name"`
	Action      string         `json:"action"`
	EntityType  *string        `json:"entity_type"`
	EntityID    *string        `json:"entity_id"`
	Metadata    datatypes.JSON `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}
