package models

import (
	"time"
)

// PageVisit is the number of times a page was rendered on one day.
type PageVisit struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Deployment string    `gorm:"type:varchar(64);uniqueIndex:idx_page_visits_key,priority:1" json:"deployment"`
	Page       string    `gorm:"type:varchar(64);uniqueIndex:idx_page_visits_key,priority:2" json:"page"`
	Day        time.Time `gorm:"type:date;uniqueIndex:idx_page_visits_key,priority:3" json:"day"`
	Count      int64     `gorm:"not null;default:0" json:"count"`
}
