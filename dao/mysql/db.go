package mysql

import (
	"fmt"

	"pybbm/models"

	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func InitMySQL() {
	dbHost := viper.Get("mysql.host")
	dbPort := viper.GetInt("mysql.port")
	userName := viper.Get("mysql.username")
	password := viper.Get("mysql.password")
	database := viper.Get("mysql.database")
	charset := viper.Get("mysql.charset")
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local", userName, password, dbHost, dbPort, database, charset)
	debug := viper.GetBool("mysql.debug")

	config := &gorm.Config{TranslateError: true} // 统一把唯一键冲突翻译成 gorm.ErrDuplicatedKey
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	gormDB, err := gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		panic(fmt.Sprintf("mysql: %s", err.Error()))
	}
	Init(gormDB)
}

// Init 注入连接并建表，测试用 sqlite 连接也走这里
func Init(database *gorm.DB) {
	db = database
	initTables()
}

func initTables() {
	db.AutoMigrate(&models.User{})
	db.AutoMigrate(&models.Profile{})
	db.AutoMigrate(&models.UserPermission{})
	db.AutoMigrate(&models.Category{})
	db.AutoMigrate(&models.Forum{})
	db.AutoMigrate(&models.ForumModerator{})
	db.AutoMigrate(&models.Topic{})
	db.AutoMigrate(&models.TopicSubscription{})
	db.AutoMigrate(&models.Post{})
	db.AutoMigrate(&models.Attachment{})
	db.AutoMigrate(&models.TopicReadTracker{})
	db.AutoMigrate(&models.ForumReadTracker{})
	db.AutoMigrate(&models.PollAnswer{})
	db.AutoMigrate(&models.PollAnswerUser{})
}

func GetDB() *gorm.DB {
	return db
}

// 传入事务则在事务内执行，否则直接用全局连接
func getUseDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
