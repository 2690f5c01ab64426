package models

/*
	存放所有有关请求参数的结构体
*/

/* User */
type ParamUserCreate struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=64"`
}

/* Forum */
type ParamCategoryCreate struct {
	Name     string `json:"name" binding:"required,min=1,max=80"`
	Position int    `json:"position"`
}

type ParamForumCreate struct {
	CategoryID  int64  `json:"category_id,string" binding:"required"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	Name        string `json:"name" binding:"required,min=1,max=80"`
	Description string `json:"description" binding:"max=65536"`
	Position    int    `json:"position"`
}

/* Topic */
type ParamTopicCreate struct {
	ForumID      int64    `json:"forum_id,string" binding:"required"`
	Name         string   `json:"name" binding:"required,min=1,max=255"`
	Body         string   `json:"body" binding:"required,max=65536"` // 首帖内容
	PollType     int8     `json:"poll_type" binding:"oneof=0 1 2"`
	PollQuestion string   `json:"poll_question" binding:"max=1024"`
	PollAnswers  []string `json:"poll_answers" binding:"max=16,dive,min=1,max=255"`
}

type ParamTopicMove struct {
	TopicID int64 `json:"topic_id,string" binding:"required"`
	ForumID int64 `json:"forum_id,string" binding:"required"` // 目标版块
}

type ParamTopicList struct {
	ForumID  int64 `form:"forum_id" binding:"required"`
	PageNum  int64 `form:"page" binding:"gt=0" example:"1"`
	PageSize int64 `form:"size" binding:"gt=0" example:"10"`
}

/* Post */
type ParamPostCreate struct {
	TopicID int64  `json:"topic_id,string" binding:"required"`
	Body    string `json:"body" binding:"required,max=65536"`
}

type ParamPostEdit struct {
	PostID int64  `json:"post_id,string" binding:"required"`
	Body   string `json:"body" binding:"required,max=65536"`
}

/* Poll */
type ParamPollVote struct {
	TopicID   int64   `json:"topic_id,string" binding:"required"`
	AnswerIDs []int64 `json:"answer_ids" binding:"required,min=1,max=16"`
}

/* Attachment */
type ParamAttachmentAdd struct {
	PostID int64  `json:"post_id,string" binding:"required"`
	Size   int64  `json:"size" binding:"required,gt=0"`
	Path   string `json:"path" binding:"required,max=255"`
}
