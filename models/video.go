package models

import "time"

type Video struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChapterID   uint      `gorm:"not null;index" json:"chapter_id"`
	Chapter     Chapter   `gorm:"foreignKey:ChapterID" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	URL         string    `gorm:"type:text;not null" json:"url"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:1" json:"sort_order"` // Thứ tự video trong chương (1-based)
	DurationSec *int      `json:"duration_sec,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
