package controller

import (
	common "pybbm/controller/Common"
	pybbm "pybbm/errors"
	"pybbm/internal/utils"
	"pybbm/logger"
	"pybbm/logic"
	"pybbm/models"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	DefaultPageNum  = 1
	DefaultPageSize = 10
)

// TopicCreateHandler 创建主题接口（主题 + 首帖，可选投票）
func TopicCreateHandler(ctx *gin.Context) {
	param := new(models.ParamTopicCreate)
	if err := ctx.ShouldBindJSON(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}
	if param.PollType != models.PollTypeNone && len(param.PollAnswers) < 2 {
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, "投票至少需要两个选项")
		return
	}

	userID, ok := getCtxUserID(ctx)
	if !ok {
		return
	}

	allowed, err := logic.HasPermission(userID, models.PermCreateTopic)
	if err != nil {
		common.ResponseError(ctx, common.CodeInternalErr)
		logger.ErrorWithStack(err)
		return
	}
	if !allowed {
		common.ResponseError(ctx, common.CodeForbidden)
		return
	}

	topic, err := logic.CreateTopic(param, userID, ctx.ClientIP(), false)
	if err != nil {
		if errors.Is(err, pybbm.ErrNoSuchForum) {
			common.ResponseError(ctx, common.CodeNoSuchForum)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, topic)
}

// TopicDetailHandler 主题详情接口，浏览数 +1
func TopicDetailHandler(ctx *gin.Context) {
	topicID, ok := parseQueryInt64(ctx, "topic_id")
	if !ok {
		return
	}

	detail, err := logic.GetTopicDetail(topicID, true)
	if err != nil {
		if errors.Is(err, pybbm.ErrNoSuchTopic) {
			common.ResponseError(ctx, common.CodeNoSuchTopic)
		} else if errors.Is(err, pybbm.ErrTimeout) {
			common.ResponseError(ctx, common.CodeServerBusy)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	// 登录用户顺手记录阅读进度
	if value, exists := ctx.Get("user_id"); exists {
		if userID, ok := value.(int64); ok {
			if err := logic.MarkTopicRead(userID, topicID); err != nil {
				logger.Warnf("controller:TopicDetailHandler: MarkTopicRead failed, reason: %v", err.Error())
			}
		}
	}

	common.ResponseSuccess(ctx, detail)
}

// TopicListHandler 版块下的主题列表接口
func TopicListHandler(ctx *gin.Context) {
	param := &models.ParamTopicList{
		PageNum:  DefaultPageNum,
		PageSize: DefaultPageSize,
	}
	if err := ctx.ShouldBindQuery(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}

	topics, err := logic.GetTopicList(param)
	if err != nil {
		if errors.Is(err, pybbm.ErrInvalidParam) {
			common.ResponseError(ctx, common.CodeInvalidParam)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, topics)
}

// TopicMoveHandler 移动主题接口（版主操作）
func TopicMoveHandler(ctx *gin.Context) {
	param := new(models.ParamTopicMove)
	if err := ctx.ShouldBindJSON(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}

	if err := logic.MoveTopic(param.TopicID, param.ForumID); err != nil {
		if errors.Is(err, pybbm.ErrNoSuchTopic) {
			common.ResponseError(ctx, common.CodeNoSuchTopic)
		} else if errors.Is(err, pybbm.ErrNoSuchForum) {
			common.ResponseError(ctx, common.CodeNoSuchForum)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, nil)
}

// TopicDeleteHandler 删除主题接口（版主操作）
func TopicDeleteHandler(ctx *gin.Context) {
	topicID, ok := parseQueryInt64(ctx, "topic_id")
	if !ok {
		return
	}

	if err := logic.RemoveTopic(topicID); err != nil {
		if errors.Is(err, pybbm.ErrNoSuchTopic) {
			common.ResponseError(ctx, common.CodeNoSuchTopic)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, nil)
}
