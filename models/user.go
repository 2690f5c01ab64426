package models

import "time"

// 身份认证由外部网关负责，这里只保存论坛侧需要的最小用户信息
type User struct {
	ID       int64     `gorm:"primaryKey" json:"id,string"`
	UserName string    `gorm:"type:varchar(64);not null;unique" json:"username"`
	Email    string    `gorm:"type:varchar(64);not null;unique" json:"email"`
	Created  time.Time `gorm:"autoCreateTime" json:"created"`
}

// 论坛侧用户资料，user_id 一对一
type Profile struct {
	UserID        int64  `gorm:"primaryKey" json:"user_id,string"`
	Signature     string `gorm:"type:varchar(1024)" json:"signature"`
	Autosubscribe bool   `gorm:"not null;default:true" json:"autosubscribe"`

	// 冗余计数，发帖/删帖后按 COUNT(posts by user) 重算
	PostCount int `gorm:"not null;default:0" json:"post_count"`
}

// 首次创建用户时授予的能力，(user, codename) 唯一
type UserPermission struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	UserID   int64  `gorm:"not null;uniqueIndex:idx_up_user_codename" json:"user_id"`
	Codename string `gorm:"type:varchar(64);not null;uniqueIndex:idx_up_user_codename" json:"codename"`
}

const (
	PermCreatePost  = "create_post"
	PermCreateTopic = "create_topic"
)
