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

// CategoryCreateHandler 建分类接口（管理操作）
func CategoryCreateHandler(ctx *gin.Context) {
	param := new(models.ParamCategoryCreate)
	if err := ctx.ShouldBindJSON(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}

	category, err := logic.CreateCategory(param.Name, param.Position)
	if err != nil {
		common.ResponseError(ctx, common.CodeInternalErr)
		logger.ErrorWithStack(err)
		return
	}
	common.ResponseSuccess(ctx, category)
}

// ForumCreateHandler 在分类下建版块接口（管理操作）
func ForumCreateHandler(ctx *gin.Context) {
	param := new(models.ParamForumCreate)
	if err := ctx.ShouldBindJSON(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}

	forum, err := logic.CreateForum(param.CategoryID, param.ParentID, param.Name, param.Description, param.Position)
	if err != nil {
		if errors.Is(err, pybbm.ErrNoSuchCategory) {
			common.ResponseError(ctx, common.CodeNoSuchCategory)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}
	common.ResponseSuccess(ctx, forum)
}

// CategoryTreeHandler 首页结构接口：分类列表，每个分类下挂版块
func CategoryTreeHandler(ctx *gin.Context) {
	tree, err := logic.GetCategoryTree()
	if err != nil {
		common.ResponseError(ctx, common.CodeInternalErr)
		logger.ErrorWithStack(err)
		return
	}
	common.ResponseSuccess(ctx, tree)
}

// ForumDetailHandler 版块详情接口
func ForumDetailHandler(ctx *gin.Context) {
	forumID, ok := parseQueryInt64(ctx, "forum_id")
	if !ok {
		return
	}

	detail, err := logic.GetForumDetail(forumID)
	if err != nil {
		if errors.Is(err, pybbm.ErrNoSuchForum) {
			common.ResponseError(ctx, common.CodeNoSuchForum)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	// 登录用户顺手记录阅读进度，失败不影响详情返回
	if value, exists := ctx.Get("user_id"); exists {
		if userID, ok := value.(int64); ok {
			if err := logic.MarkForumRead(userID, forumID); err != nil {
				logger.Warnf("controller:ForumDetailHandler: MarkForumRead failed, reason: %v", err.Error())
			}
		}
	}

	common.ResponseSuccess(ctx, detail)
}
