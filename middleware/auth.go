package middleware

import (
	"strconv"

	controller "pybbm/controller/Common"

	"github.com/gin-gonic/gin"
)

// 身份认证由外部网关完成，网关校验通过后把用户 id 写进 X-User-ID 头
// 这里只做取值和类型转换，缺头视为未登录
func Auth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.Request.Header.Get("X-User-ID")
		if len(header) == 0 {
			controller.ResponseError(ctx, controller.CodeNeedLogin)
			ctx.Abort()
			return
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			controller.ResponseError(ctx, controller.CodeNeedLogin)
			ctx.Abort()
			return
		}

		ctx.Set("user_id", userID)
		ctx.Next()
	}
}

// 游客也能访问的接口用这个：有合法的 X-User-ID 就带上，没有也放行
func AuthOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.Request.Header.Get("X-User-ID")
		if userID, err := strconv.ParseInt(header, 10, 64); err == nil && userID > 0 {
			ctx.Set("user_id", userID)
		}
		ctx.Next()
	}
}
