package model

import "time"

// Base replaces gorm.Model: the schema tracks row lifecycle in
// date_created/date_updated and rows are removed for real, so that the
// unique indexes on reviews and favorites stay enforceable.
type Base struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	DateCreated time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
	DateUpdated time.Time `gorm:"column:date_updated;autoUpdateTime" json:"date_updated"`
}
