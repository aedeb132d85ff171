package models

import "time"

// Ghi danh của học viên vào khóa học. Portal tác giả chỉ đếm,
// không thao tác gì thêm trên bảng này.
type CourseEnrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_course_student" json:"course_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_course_student" json:"student_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Course  Course `gorm:"foreignKey:CourseID" json:"-"`
	Student User   `gorm:"foreignKey:StudentID" json:"-"`
}
