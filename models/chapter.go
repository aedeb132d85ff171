package models

import "time"

type Chapter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Course    Course    `gorm:"foreignKey:CourseID" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	SortOrder int       `gorm:"column:sort_order;not null;default:1" json:"sort_order"` // Thứ tự chương (1-based)
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Videos []Video `gorm:"foreignKey:ChapterID" json:"videos,omitempty"`
}
