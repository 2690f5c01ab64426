package models

import "time"

type Category struct {
	ID       int64  `gorm:"primaryKey" json:"id,string"`
	Name     string `gorm:"type:varchar(80);not null" json:"name" binding:"required"`
	Position int    `gorm:"not null;default:0" json:"position"`
	Hidden   bool   `gorm:"not null;default:false" json:"hidden"` // 仅对管理员可见
}

type Forum struct {
	ID          int64      `gorm:"primaryKey" json:"id,string"`
	CategoryID  int64      `gorm:"index;not null" json:"category_id,string" binding:"required"`
	ParentID    *int64     `gorm:"index" json:"parent_id,omitempty"` // 支持子版块
	Name        string     `gorm:"type:varchar(80);not null" json:"name" binding:"required"`
	Position    int        `gorm:"not null;default:0" json:"position"`
	Description string     `gorm:"type:text" json:"description"`
	Hidden      bool       `gorm:"not null;default:false" json:"hidden"`
	Headline    string     `gorm:"type:text" json:"headline"`

	// 冗余计数，真实来源永远是 topics / posts 表，由 logic.RecomputeForumCounters 维护
	PostCount  int        `gorm:"not null;default:0" json:"post_count"`
	TopicCount int        `gorm:"not null;default:0" json:"topic_count"`
	Updated    *time.Time `json:"updated,omitempty"` // 版块下最新帖子的时间，没有帖子时为 null
}

// 版主，多对多
type ForumModerator struct {
	ID      int64 `gorm:"primaryKey" json:"id"`
	ForumID int64 `gorm:"not null;uniqueIndex:idx_fm_forum_user" json:"forum_id"`
	UserID  int64 `gorm:"not null;uniqueIndex:idx_fm_forum_user" json:"user_id"`
}

type ForumDTO struct {
	ForumID     int64      `json:"forum_id,string"`
	CategoryID  int64      `json:"category_id,string"`
	ParentID    *int64     `json:"parent_id,omitempty"`
	Name        string     `json:"name"`
	Position    int        `json:"position"`
	Description string     `json:"description"`
	Headline    string     `json:"headline"`
	PostCount   int        `json:"post_count"`
	TopicCount  int        `json:"topic_count"`
	Updated     *time.Time `json:"updated,omitempty"`
	LastPostID  int64      `json:"last_post_id,string,omitempty"`
}

type CategoryDTO struct {
	CategoryID int64       `json:"category_id,string"`
	Name       string      `json:"name"`
	Position   int         `json:"position"`
	Forums     []*ForumDTO `json:"forums"`
}
