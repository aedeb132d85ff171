package utils

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/lms-portal-backend/models"
)

// Cookie phiên cục bộ. Giá trị là JWT ký bởi server chứ không còn là user id thô.
const SessionCookieName = "lms_user_id"

// SyncProviderUser đồng bộ user từ phiên provider ngoài (Google) vào DB theo email.
// Upsert dưới unique constraint: hai request đua nhau cùng tạo một email thì
// bên thua vẫn thành công và đọc lại row đã có.
func SyncProviderUser(db *gorm.DB, email, name, subject string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("provider không trả về email")
	}
	if name == "" {
		name = "Author"
	}

	user := models.User{
		Email:    email,
		Name:     name,
		Password: subject, // subject của provider làm placeholder, không phải hash mật khẩu
		Role:     models.RoleAuthor,
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&user).Error; err != nil {
		return nil, err
	}

	// Đọc lại theo email: row vừa tạo hoặc row đã tồn tại trước đó
	var synced models.User
	if err := db.Where("email = ?", email).First(&synced).Error; err != nil {
		return nil, err
	}
	return &synced, nil
}
