package models

import "gorm.io/gorm"

// Roles assignable to a user account.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a storefront account. Password holds the bcrypt hash and is
// never serialised.
type User struct {
	gorm.Model
	FullName    string  `gorm:"size:255;not null"            json:"fullName"`
	UserName    string  `gorm:"uniqueIndex;size:100;not null" json:"userName"`
	Email       string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone       string  `gorm:"uniqueIndex;size:30;not null"  json:"phone"`
	Password    string  `gorm:"size:255;not null"            json:"-"`
	Address     string  `gorm:"size:500"                     json:"address"`
	KYCCard     string  `gorm:"size:100"                     json:"kycCard"`
	Role        string  `gorm:"size:20;default:USER"         json:"role"`
	KYCVerified bool    `gorm:"default:false"                json:"kycVerified"`
	CreditBal   float64 `gorm:"default:0"                    json:"creditBal"`
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
