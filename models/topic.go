package models

import "time"

// 投票类型
const (
	PollTypeNone int8 = iota
	PollTypeSingle
	PollTypeMultiple
)

type Topic struct {
	ID           int64      `gorm:"primaryKey" json:"id,string"`
	ForumID      int64      `gorm:"index;not null" json:"forum_id,string"`
	UserID       int64      `gorm:"index;not null" json:"user_id,string"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Created      time.Time  `gorm:"index" json:"created"`
	Updated      *time.Time `json:"updated,omitempty"` // 主题下最新帖子的时间
	Views        int        `gorm:"not null;default:0" json:"views"`
	Sticky       bool       `gorm:"not null;default:false" json:"sticky"`
	Closed       bool       `gorm:"not null;default:false" json:"closed"`
	OnModeration bool       `gorm:"not null;default:false" json:"on_moderation"`

	// 冗余计数，由 logic.RecomputeTopicCounters 维护
	PostCount int `gorm:"not null;default:0" json:"post_count"`

	PollType     int8   `gorm:"not null;default:0" json:"poll_type"`
	PollQuestion string `gorm:"type:text" json:"poll_question"`
}

// 订阅关系（autosubscribe 或手动订阅）
type TopicSubscription struct {
	ID      int64 `gorm:"primaryKey" json:"id"`
	TopicID int64 `gorm:"not null;uniqueIndex:idx_ts_topic_user" json:"topic_id"`
	UserID  int64 `gorm:"not null;uniqueIndex:idx_ts_topic_user" json:"user_id"`
}

type TopicDTO struct {
	TopicID      int64      `json:"topic_id,string"`
	ForumID      int64      `json:"forum_id,string"`
	UserID       int64      `json:"user_id,string"`
	Name         string     `json:"name"`
	Created      time.Time  `json:"created"`
	Updated      *time.Time `json:"updated,omitempty"`
	Views        int        `json:"views"`
	Sticky       bool       `json:"sticky"`
	Closed       bool       `json:"closed"`
	PostCount    int        `json:"post_count"`
	PollType     int8       `json:"poll_type"`
	PollQuestion string     `json:"poll_question,omitempty"`
	Posts        []*PostDTO `json:"posts,omitempty"`
}
