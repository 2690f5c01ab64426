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

// UserCreateHandler 创建用户接口
// 身份认证在外部网关，这里只建论坛侧的用户数据（默认 profile + 基础权限）
func UserCreateHandler(ctx *gin.Context) {
	param := new(models.ParamUserCreate)
	// 使用 validator 在解析数据的同时做参数校验
	if err := ctx.ShouldBindJSON(param); err != nil {
		msg := utils.ParseToValidationError(err)
		common.ResponseErrorWithMsg(ctx, common.CodeInvalidParam, msg)
		return
	}

	user, err := logic.CreateUser(param)
	if err != nil {
		if errors.Is(err, pybbm.ErrUserExist) {
			common.ResponseError(ctx, common.CodeUserExist)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	common.ResponseSuccess(ctx, user)
}

// ProfileHandler 查用户资料接口
func ProfileHandler(ctx *gin.Context) {
	userID, ok := parseQueryInt64(ctx, "user_id")
	if !ok {
		return
	}

	if _, err := logic.GetUserByID(userID); err != nil {
		if errors.Is(err, pybbm.ErrUserNotExist) {
			common.ResponseError(ctx, common.CodeUserNotExist)
		} else {
			common.ResponseError(ctx, common.CodeInternalErr)
			logger.ErrorWithStack(err)
		}
		return
	}

	profile, err := logic.GetProfile(userID)
	if err != nil {
		common.ResponseError(ctx, common.CodeInternalErr)
		logger.ErrorWithStack(err)
		return
	}

	common.ResponseSuccess(ctx, profile)
}
