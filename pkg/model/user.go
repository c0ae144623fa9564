package model

const (
	RoleBasic = "basic"
	RoleAdmin = "admin"
)

type User struct {
	Base
	Email           string  `gorm:"uniqueIndex" json:"email"`
	Password        string  `json:"-"`
	DisplayName     string  `gorm:"uniqueIndex" json:"display_name"`
	Role            string  `gorm:"default:basic" json:"role"`
	ProfileImgURL   *string `json:"profile_img_url"`
	PresentLocation string  `json:"present_location"`
	Introduction    string  `json:"introduction"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
