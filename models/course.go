package models

import "time"

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseExpired   CourseStatus = "expired" // dành cho cơ chế hết hạn tự động, chưa có thao tác nào chuyển vào
)

type Course struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Thumbnail   string       `gorm:"type:text" json:"thumbnail"`
	Slug        string       `gorm:"size:255;index" json:"slug"` // slug cho URL thân thiện
	AuthorID    uint         `gorm:"not null;index" json:"author_id"`
	Author      User         `gorm:"foreignKey:AuthorID" json:"-"`
	Status      CourseStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	Chapters    []Chapter          `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
	Enrollments []CourseEnrollment `gorm:"foreignKey:CourseID" json:"-"`
}
