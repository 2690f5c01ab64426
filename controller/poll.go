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

// PollDetailHandler 投票详情接口：选项、票数、占比
func PollDetailHandler(ctx *gin.Context) {
	topicID, ok := parseQueryInt64(ctx, "topic_id")
	if !ok {
		return
	}

	poll, err := logic.GetTopicPoll(topicID)
	if err != nil {
		if errors.Is(err, pybbm.ErrNoSuchTopic) {
			common.ResponseError(ctx, common.CodeNoSuchTopic)
		} else if errors.Is(err, pybbm.ErrNoPoll) {
			common.ResponseError(ctx, common.CodeNoPoll)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, poll)
}

// PollVoteHandler 投票接口
func PollVoteHandler(ctx *gin.Context) {
	param := new(models.ParamPollVote)
	if err := ctx.ShouldBindJSON(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}

	userID, ok := getCtxUserID(ctx)
	if !ok {
		return
	}

	if err := logic.CastPollVote(userID, param); err != nil {
		switch {
		case errors.Is(err, pybbm.ErrNoSuchTopic):
			common.ResponseError(ctx, common.CodeNoSuchTopic)
		case errors.Is(err, pybbm.ErrNoPoll):
			common.ResponseError(ctx, common.CodeNoPoll)
		case errors.Is(err, pybbm.ErrTopicClosed):
			common.ResponseError(ctx, common.CodeTopicClosed)
		case errors.Is(err, pybbm.ErrNoSuchAnswer):
			common.ResponseError(ctx, common.CodeNoSuchAnswer)
		case errors.Is(err, pybbm.ErrAlreadyVoted):
			common.ResponseError(ctx, common.CodeAlreadyVoted)
		case errors.Is(err, pybbm.ErrInvalidParam):
			common.ResponseError(ctx, common.CodeInvalidParam)
		default:
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, nil)
}
