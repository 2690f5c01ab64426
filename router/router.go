package router

import (
	"fmt"
	"net/http"

	"pybbm/controller"
	"pybbm/logger"
	"pybbm/middleware"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

var router *gin.Engine

func Init() {
	if !viper.GetBool("server.develop_mode") {
		gin.SetMode(gin.ReleaseMode)
	}

	router = gin.New()
	router.Use(logger.GinLogger(), logger.GinRecovery(true), middleware.RateLimit(0.6, 5000)) // 全局限流

	// 写接口额外匀速限流，超速的请求排队而不是拒绝
	writeLimit := middleware.RateLimit2(viper.GetInt("service.rps"))

	v1 := router.Group("/api/v1")

	/* User */
	usrGrp := v1.Group("/user")
	usrGrp.POST("/create", writeLimit, controller.UserCreateHandler)
	usrGrp.GET("/profile", controller.ProfileHandler)

	/* Forum */
	forumGrp := v1.Group("/forum")
	forumGrp.GET("/index", middleware.AuthOptional(), controller.CategoryTreeHandler)
	forumGrp.GET("/detail", middleware.AuthOptional(), controller.ForumDetailHandler)
	forumGrp.POST("/create", middleware.Auth(), writeLimit, controller.ForumCreateHandler)

	v1.POST("/category/create", middleware.Auth(), writeLimit, controller.CategoryCreateHandler)

	/* Topic */
	topicGrp := v1.Group("/topic")
	topicGrp.Use(middleware.Auth(), writeLimit)
	topicGrp.POST("/create", controller.TopicCreateHandler)
	topicGrp.POST("/move", controller.TopicMoveHandler)
	topicGrp.DELETE("/delete", controller.TopicDeleteHandler)

	v1.GET("/topic/detail", middleware.AuthOptional(), controller.TopicDetailHandler)
	v1.GET("/topic/list", controller.TopicListHandler)

	/* Post */
	postGrp := v1.Group("/post")
	postGrp.Use(middleware.Auth(), writeLimit)
	postGrp.POST("/create", controller.PostCreateHandler)
	postGrp.POST("/edit", controller.PostEditHandler)
	postGrp.DELETE("/delete", controller.PostDeleteHandler)
	postGrp.POST("/attachment", controller.AttachmentAddHandler)

	/* Poll */
	v1.GET("/poll/detail", controller.PollDetailHandler)
	v1.POST("/poll/vote", middleware.Auth(), writeLimit, controller.PollVoteHandler)
}

func GetServer() *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", viper.GetString("server.ip"), viper.GetInt("server.port")),
		Handler: router,
	}
}
