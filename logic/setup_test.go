package logic

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"pybbm/dao/localcache"
	"pybbm/dao/mysql"
	"pybbm/internal/utils"
	"pybbm/logger"
	"pybbm/markup"
	"pybbm/models"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	viper.Set("server.start_time", "2024-03-02")
	viper.Set("server.machine_id", 1)
	viper.Set("logger.path", filepath.Join(os.TempDir(), "pybbm_test.log"))
	viper.Set("logger.level", 2) // 只输出 error 以上
	viper.Set("logger.console", false)
	viper.Set("localcache.size", 1024)
	viper.Set("localcache.expire_seconds", 60)
	viper.Set("service.markup.engine", "markdown")
	viper.Set("service.timeout", 3)
	viper.Set("service.rps", 100)
	viper.Set("service.topic.page_size_max", 100)
	viper.Set("kafka.enable", false)

	logger.InitLogger()
	utils.InitSnowflake()
	markup.InitMarkup()
	localcache.InitLocalCache()

	os.Exit(m.Run())
}

var testDBSeq int64

// 每个测试一个独立的内存库
// cache=shared + 单连接：连接池里的所有连接看到同一个库，并发用例串行执行
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:logic_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	mysql.Init(db)
}

func mustCreateUser(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := CreateUser(&models.ParamUserCreate{
		Username: name,
		Email:    name + "@example.com",
	})
	require.NoError(t, err)
	return user
}

func mustCreateForum(t *testing.T) *models.Forum {
	t.Helper()
	category, err := CreateCategory("综合讨论", 0)
	require.NoError(t, err)
	forum, err := CreateForum(category.ID, nil, "水区", "随便聊聊", 0)
	require.NoError(t, err)
	return forum
}

func mustCreateTopic(t *testing.T, forumID, userID int64, name, body string) *models.Topic {
	t.Helper()
	topic, err := CreateTopic(&models.ParamTopicCreate{
		ForumID: forumID,
		Name:    name,
		Body:    body,
	}, userID, "127.0.0.1", false)
	require.NoError(t, err)
	return topic
}

func mustCreatePost(t *testing.T, topicID, userID int64, body string) *models.Post {
	t.Helper()
	post, err := CreatePost(&models.ParamPostCreate{
		TopicID: topicID,
		Body:    body,
	}, userID, "127.0.0.1", false)
	require.NoError(t, err)
	return post
}
