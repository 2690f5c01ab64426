package controller

type Code uint

const (
	CodeSuccess Code = iota + 1000
	CodeInternalErr
	CodeServerBusy
	CodeInvalidParam
	CodeNeedLogin
	CodeForbidden

	CodeUserExist
	CodeUserNotExist

	CodeNoSuchCategory
	CodeNoSuchForum
	CodeNoSuchTopic
	CodeNoSuchPost
	CodeTopicClosed

	CodeNoPoll
	CodeNoSuchAnswer
	CodeAlreadyVoted
)

var codeMsgMap = map[Code]string{
	CodeSuccess:      "成功",
	CodeInternalErr:  "服务繁忙",
	CodeServerBusy:   "触发限流",
	CodeInvalidParam: "无效参数",
	CodeNeedLogin:    "需要登录",
	CodeForbidden:    "没有操作权限",

	CodeUserExist:    "用户已存在",
	CodeUserNotExist: "用户不存在",

	CodeNoSuchCategory: "没有该分类",
	CodeNoSuchForum:    "没有该版块",
	CodeNoSuchTopic:    "没有该主题",
	CodeNoSuchPost:     "没有该帖子",
	CodeTopicClosed:    "主题已关闭",

	CodeNoPoll:       "主题没有投票",
	CodeNoSuchAnswer: "没有该投票选项",
	CodeAlreadyVoted: "已经投过票",
}

func (c Code) getMsg() string {
	msg, ok := codeMsgMap[c]
	if !ok {
		return "无效错误码"
	}
	return msg
}
