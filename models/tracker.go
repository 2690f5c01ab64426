package models

import "time"

// 阅读进度：记录某个用户最后一次查看某个主题/版块的时间
// (user, target) 上有唯一索引，保证一对至多一行

type TopicReadTracker struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_trt_user_topic" json:"user_id"`
	TopicID   int64     `gorm:"not null;uniqueIndex:idx_trt_user_topic" json:"topic_id"`
	TimeStamp time.Time `gorm:"autoUpdateTime" json:"time_stamp"`
}

type ForumReadTracker struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_frt_user_forum" json:"user_id"`
	ForumID   int64     `gorm:"not null;uniqueIndex:idx_frt_user_forum" json:"forum_id"`
	TimeStamp time.Time `gorm:"autoUpdateTime" json:"time_stamp"`
}
