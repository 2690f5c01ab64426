package pybbm

import "github.com/pkg/errors"

var (
	// user
	ErrUserExist    = errors.New("用户已经存在")
	ErrUserNotExist = errors.New("用户不存在")

	// common
	ErrInvalidParam = errors.New("无效参数")
	ErrTimeout      = errors.New("操作超时")
	ErrForbidden    = errors.New("没有权限")

	// forum
	ErrNoSuchCategory = errors.New("没有该分区")
	ErrNoSuchForum    = errors.New("没有该版块")

	// topic / post
	ErrNoSuchTopic     = errors.New("没有该主题")
	ErrNoSuchPost      = errors.New("没有该帖子")
	ErrTopicClosed     = errors.New("主题已关闭")
	ErrTopicHasNoPosts = errors.New("主题下没有任何帖子") // 不变量：主题存在期间至少有一个帖子

	// poll
	ErrNoPoll       = errors.New("该主题没有投票")
	ErrNoSuchAnswer = errors.New("没有该选项")
	ErrAlreadyVoted = errors.New("已经投过票")
)
