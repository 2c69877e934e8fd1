package entity

import "github.com/th3void/lotus-routine/pkg/enum"

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RoleUser       = enum.New(GlobalRole("user"))
)

// GlobalAdminRoles can manage users and moderate every group.
var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}

type User struct {
	Base
	Name        string `gorm:"unique"`
	Email       string `gorm:"index"`
	Password    string
	Role        GlobalRole `gorm:"default:user"`
	AvatarURL   string
	AvatarColor string
	Bio         string
	IsBanned    bool
	IsNewUser   bool
}
