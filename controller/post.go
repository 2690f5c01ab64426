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

// PostCreateHandler 回帖接口
func PostCreateHandler(ctx *gin.Context) {
	param := new(models.ParamPostCreate)
	if err := ctx.ShouldBindJSON(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}

	userID, ok := getCtxUserID(ctx)
	if !ok {
		return
	}

	allowed, err := logic.HasPermission(userID, models.PermCreatePost)
	if err != nil {
		common.ResponseError(ctx, common.CodeInternalErr)
		logger.ErrorWithStack(err)
		return
	}
	if !allowed {
		common.ResponseError(ctx, common.CodeForbidden)
		return
	}

	post, err := logic.CreatePost(param, userID, ctx.ClientIP(), false)
	if err != nil {
		if errors.Is(err, pybbm.ErrNoSuchTopic) {
			common.ResponseError(ctx, common.CodeNoSuchTopic)
		} else if errors.Is(err, pybbm.ErrTopicClosed) {
			common.ResponseError(ctx, common.CodeTopicClosed)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, post)
}

// PostEditHandler 编辑帖子接口，只允许作者本人编辑
func PostEditHandler(ctx *gin.Context) {
	param := new(models.ParamPostEdit)
	if err := ctx.ShouldBindJSON(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}

	userID, ok := getCtxUserID(ctx)
	if !ok {
		return
	}

	post, err := logic.EditPost(param, userID)
	if err != nil {
		if errors.Is(err, pybbm.ErrNoSuchPost) {
			common.ResponseError(ctx, common.CodeNoSuchPost)
		} else if errors.Is(err, pybbm.ErrForbidden) {
			common.ResponseError(ctx, common.CodeForbidden)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, post)
}

// PostDeleteHandler 删除帖子接口
// 删除的是首帖时，整个主题级联删除
func PostDeleteHandler(ctx *gin.Context) {
	postID, ok := parseQueryInt64(ctx, "post_id")
	if !ok {
		return
	}

	userID, ok := getCtxUserID(ctx)
	if !ok {
		return
	}

	post, err := logic.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, pybbm.ErrNoSuchPost) {
			common.ResponseError(ctx, common.CodeNoSuchPost)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}
	if post.UserID != userID {
		common.ResponseError(ctx, common.CodeForbidden)
		return
	}

	if err := logic.RemovePost(postID); err != nil {
		common.ResponseError(ctx, common.CodeInternalErr)
		logger.ErrorWithStack(err)
		return
	}

	common.ResponseSuccess(ctx, nil)
}

// AttachmentAddHandler 登记帖子附件元信息接口，文件本体在外部对象存储
func AttachmentAddHandler(ctx *gin.Context) {
	param := new(models.ParamAttachmentAdd)
	if err := ctx.ShouldBindJSON(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}

	attachment, err := logic.AddAttachment(param)
	if err != nil {
		if errors.Is(err, pybbm.ErrNoSuchPost) {
			common.ResponseError(ctx, common.CodeNoSuchPost)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, &models.AttachmentDTO{
		AttachmentID: attachment.ID,
		PostID:       attachment.PostID,
		Size:         attachment.Size,
		SizeDisplay:  attachment.SizeDisplay(),
		Path:         attachment.Path,
	})
}
