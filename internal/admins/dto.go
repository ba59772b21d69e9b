package admins

import "github.com/hengonghuat/cafe-backend/pkg/db/models"

// LoginInput carries staff credentials.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on a successful staff login.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// AdminInput carries a create or update request for a staff account.
type AdminInput struct {
	Username string `json:"username" validate:"required,min=3,max=40"`
	Password string `json:"password" validate:"required,min=8"`
}

// AdminDTO is the list view of a staff account. Hashes never leave the
// service.
type AdminDTO struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

func toAdminDTO(admin *models.AdminUser) AdminDTO {
	return AdminDTO{UserID: admin.ID, Username: admin.Username}
}
