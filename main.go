package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"pybbm/dao/kafka"
	"pybbm/dao/localcache"
	"pybbm/dao/mysql"
	"pybbm/dao/redis"
	"pybbm/internal/utils"
	"pybbm/logger"
	"pybbm/markup"
	"pybbm/router"
	"pybbm/settings"
	"pybbm/workers"

	"github.com/spf13/viper"
)

func init() {
	path := flag.String("c", "./config/config.json", "config path(file must be named 'config.json')")
	flag.Parse()

	settings.InitSettings(*path)

	logger.InitLogger()

	utils.InitSnowflake()
	utils.InitTrans()

	markup.InitMarkup()

	mysql.InitMySQL()
	logger.Infof("Initializing MySQL successfully")

	redis.InitRedis()
	logger.Infof("Initializing Redis successfully")

	if viper.GetBool("kafka.enable") {
		kafka.InitKafka()
		logger.Infof("Initializing Kafka successfully")
	}

	localcache.InitLocalCache()
	logger.Infof("Initializing Localcache successfully")

	router.Init()
	logger.Infof("Initializing router successfully")

	workers.InitWorkers() // 后台任务
}

func main() {
	srv := router.GetServer()

	idleConnsClosed := make(chan interface{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint // 阻塞，直到 SIGINT 信号产生

		// 收到中断信号后优雅退出，等待存量请求处理完，超时强制关闭
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*time.Duration(viper.GetInt64("server.shutdown_waitting_time")))
		defer cancel()
		logger.Infof("Shutting down HTTP Server(wait for all connections to be closed)...")

		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("pybbm server shutdown: %v", err)
		}
		logger.Infof("Http server closed successfully")
		close(idleConnsClosed)
	}()

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logger.Errorf("HTTP server ListenAndServe: %v", err)
	}

	<-idleConnsClosed // 直到 close 后，主线程才会退出
	logger.Infof("Waitting for all background tasks to complete...")
	workers.Wait() // 等待所有后台任务结束才退出
	logger.Infof("Done.\n\npybbm server closed successfully")
}
