package models

import (
	"fmt"
	"time"
)

type Post struct {
	ID      int64  `gorm:"primaryKey" json:"id,string"`
	TopicID int64  `gorm:"index;not null" json:"topic_id,string"`
	UserID  int64  `gorm:"index;not null" json:"user_id,string"`

	// body 为原始内容，body_html / body_text 由 markup.Render 派生，不允许手工修改
	Body     string `gorm:"type:longtext;not null" json:"body"`
	BodyHTML string `gorm:"type:longtext" json:"body_html"`
	BodyText string `gorm:"type:longtext" json:"body_text"`

	Created      time.Time  `gorm:"index" json:"created"`
	Updated      *time.Time `json:"updated,omitempty"`
	UserIP       string     `gorm:"type:varchar(45);not null;default:'0.0.0.0'" json:"user_ip"`
	OnModeration bool       `gorm:"not null;default:false" json:"on_moderation"`
}

const summaryLimit = 50

// Summary 返回帖子开头的摘要，用于列表展示和日志
func (p *Post) Summary() string {
	runes := []rune(p.Body)
	if len(runes) <= summaryLimit {
		return p.Body
	}
	return string(runes[:summaryLimit]) + "..."
}

// 附件只保存元信息，文件本体由外部对象存储负责
type Attachment struct {
	ID     int64  `gorm:"primaryKey" json:"id,string"`
	PostID int64  `gorm:"index;not null" json:"post_id,string"`
	Size   int64  `gorm:"not null" json:"size"`
	Path   string `gorm:"type:varchar(255);not null" json:"path"`
}

func (a *Attachment) SizeDisplay() string {
	size := a.Size
	switch {
	case size < 1024:
		return fmt.Sprintf("%db", size)
	case size < 1024*1024:
		return fmt.Sprintf("%dKb", size/1024)
	default:
		return fmt.Sprintf("%.2fMb", float64(size)/float64(1024*1024))
	}
}

type AttachmentDTO struct {
	AttachmentID int64  `json:"attachment_id,string"`
	PostID       int64  `json:"post_id,string"`
	Size         int64  `json:"size"`
	SizeDisplay  string `json:"size_display"`
	Path         string `json:"path"`
}

type PostDTO struct {
	PostID       int64      `json:"post_id,string"`
	TopicID      int64      `json:"topic_id,string"`
	UserID       int64      `json:"user_id,string"`
	BodyHTML     string     `json:"body_html"`
	BodyText     string     `json:"body_text"`
	Created      time.Time  `json:"created"`
	Updated      *time.Time `json:"updated,omitempty"`
	OnModeration bool       `json:"on_moderation"`
}
