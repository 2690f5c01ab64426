package controller

import (
	common "pybbm/controller/Common"
	"pybbm/logger"
	"strconv"

	"github.com/gin-gonic/gin"
)

// 从 context 取出 Auth 中间件写入的 user_id
func getCtxUserID(ctx *gin.Context) (int64, bool) {
	value, exists := ctx.Get("user_id")
	if !exists {
		common.ResponseError(ctx, common.CodeInternalErr)
		logger.Errorf("controller:getCtxUserID: get user_id from context failed")
		return 0, false
	}
	userID, ok := value.(int64)
	if !ok {
		common.ResponseError(ctx, common.CodeInternalErr)
		logger.Errorf("controller:getCtxUserID: convert user_id from context to int64 failed")
		return 0, false
	}
	return userID, true
}

// 解析 query 里的 int64 参数
func parseQueryInt64(ctx *gin.Context, name string) (int64, bool) {
	raw, exists := ctx.GetQuery(name)
	if !exists {
		common.ResponseError(ctx, common.CodeInvalidParam)
		return 0, false
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		common.ResponseError(ctx, common.CodeInvalidParam)
		return 0, false
	}
	return val, true
}
