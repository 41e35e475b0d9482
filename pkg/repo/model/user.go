package model

import "github.com/scienceol/labmate/pkg/common"

type User struct {
	BaseModel
	Name        string             `gorm:"type:varchar(100);not null;index:idx_user_name" json:"name"`
	Role        common.Role        `gorm:"type:varchar(50);not null" json:"role"`
	Institution string             `gorm:"type:varchar(200)" json:"institution"`
	UserType    common.UserType    `gorm:"type:varchar(50);not null;default:'researcher'" json:"user_type"`
	AccessLevel common.AccessLevel `gorm:"not null;default:3" json:"access_level"`
}

func (*User) TableName() string { return "users" }

func (u *User) HasAccess(level common.AccessLevel) bool {
	return u != nil && u.AccessLevel >= level
}
