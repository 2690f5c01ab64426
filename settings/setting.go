package settings

import "github.com/spf13/viper"

func InitSettings(confPath string) {
	viper.SetDefault("server.ip", "")
	viper.SetDefault("server.port", 1917)
	viper.SetDefault("server.start_time", "2024-03-02")   // 项目开始时间，snowflake 纪元
	viper.SetDefault("server.machine_id", 1)              // 节点默认编号
	viper.SetDefault("server.develop_mode", false)
	viper.SetDefault("server.lang", "zh") // 参数校验错误信息的语言
	viper.SetDefault("server.shutdown_waitting_time", 30) // 收到 SIGINT 信号后，超过 30s，服务器将强制退出

	viper.SetDefault("mysql.host", "127.0.0.1")
	viper.SetDefault("mysql.port", 3306)
	viper.SetDefault("mysql.username", "root")
	viper.SetDefault("mysql.password", "123456")
	viper.SetDefault("mysql.database", "pybbm")
	viper.SetDefault("mysql.charset", "utf8mb4")
	viper.SetDefault("mysql.debug", false)

	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.poolsize", 10)
	viper.SetDefault("redis.max_oper_time", 3)

	viper.SetDefault("kafka.enable", false)
	viper.SetDefault("kafka.addr", []string{"127.0.0.1:9092"})
	viper.SetDefault("kafka.partition.notify", 2)
	viper.SetDefault("kafka.replication_factor.notify", 1)
	viper.SetDefault("kafka.retry.producer", 5)

	viper.SetDefault("logger.level", 0)
	viper.SetDefault("logger.path", "./logs/pybbm.log")
	viper.SetDefault("logger.max_size", 16)
	viper.SetDefault("logger.max_backups", 5)
	viper.SetDefault("logger.compress", false)
	viper.SetDefault("logger.console", true)

	viper.SetDefault("localcache.size", 1024)
	viper.SetDefault("localcache.expire_seconds", 60)

	viper.SetDefault("service.timeout", 3)
	viper.SetDefault("service.rps", 100)
	viper.SetDefault("service.markup.engine", "markdown")
	viper.SetDefault("service.topic.page_size_max", 100)
	viper.SetDefault("service.views.persistence_interval", 60)   // 秒
	viper.SetDefault("service.counters.reconcile_interval", 3600) // 秒，后台全量重算周期
	viper.SetDefault("service.workers.pool_size", 4)

	viper.SetConfigFile(confPath)

	if err := viper.ReadInConfig(); err != nil {
		panic(err.Error())
	}
}
