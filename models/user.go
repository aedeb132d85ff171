package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"   // Quản trị hệ thống
	RoleAuthor  UserRole = "author"  // Tác giả (quản trị khóa học của mình)
	RoleStudent UserRole = "student" // Học viên
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      UserRole  `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	Courses     []Course           `gorm:"foreignKey:AuthorID" json:"courses,omitempty"`
	Enrollments []CourseEnrollment `gorm:"foreignKey:StudentID" json:"-"`
}

// IsAuthor kiểm tra user có quyền quản trị nội dung hay không
func (u *User) IsAuthor() bool {
	return u.Role == RoleAuthor || u.Role == RoleAdmin
}
