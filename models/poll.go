package models

import "time"

type PollAnswer struct {
	ID      int64  `gorm:"primaryKey" json:"id,string"`
	TopicID int64  `gorm:"index;not null" json:"topic_id,string"`
	Text    string `gorm:"type:varchar(255);not null" json:"text"`
}

// 记录一个选项有哪些用户投过票，(answer, user) 唯一
type PollAnswerUser struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	PollAnswerID int64     `gorm:"not null;uniqueIndex:idx_pau_answer_user" json:"poll_answer_id"`
	UserID       int64     `gorm:"not null;uniqueIndex:idx_pau_answer_user" json:"user_id"`
	Timestamp    time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

type PollAnswerDTO struct {
	AnswerID     int64   `json:"answer_id,string"`
	Text         string  `json:"text"`
	Votes        int     `json:"votes"`
	VotesPercent float64 `json:"votes_percent"`
}

type PollDTO struct {
	Question   string          `json:"question"`
	Type       int8            `json:"type"`
	TotalVotes int             `json:"total_votes"`
	Answers    []PollAnswerDTO `json:"answers"`
}
