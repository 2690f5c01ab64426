package mysql

import (
	"time"

	"pybbm/models"

	driver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func CreateTopicReadTracker(tx *gorm.DB, tracker *models.TopicReadTracker) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&tracker)
	return errors.Wrap(res.Error, "mysql:CreateTopicReadTracker")
}

func SelectTopicReadTracker(tx *gorm.DB, userID, topicID int64) (*models.TopicReadTracker, error) {
	useDB := getUseDB(tx)
	tracker := new(models.TopicReadTracker)
	res := useDB.First(tracker, "user_id = ? AND topic_id = ?", userID, topicID)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectTopicReadTracker")
	}
	return tracker, nil
}

// 把已有记录的 time_stamp 顶到当前时间
func TouchTopicReadTracker(tx *gorm.DB, userID, topicID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Model(&models.TopicReadTracker{}).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Update("time_stamp", time.Now())
	return errors.Wrap(res.Error, "mysql:TouchTopicReadTracker")
}

func CreateForumReadTracker(tx *gorm.DB, tracker *models.ForumReadTracker) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&tracker)
	return errors.Wrap(res.Error, "mysql:CreateForumReadTracker")
}

func SelectForumReadTracker(tx *gorm.DB, userID, forumID int64) (*models.ForumReadTracker, error) {
	useDB := getUseDB(tx)
	tracker := new(models.ForumReadTracker)
	res := useDB.First(tracker, "user_id = ? AND forum_id = ?", userID, forumID)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectForumReadTracker")
	}
	return tracker, nil
}

func TouchForumReadTracker(tx *gorm.DB, userID, forumID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Model(&models.ForumReadTracker{}).
		Where("user_id = ? AND forum_id = ?", userID, forumID).
		Update("time_stamp", time.Now())
	return errors.Wrap(res.Error, "mysql:TouchForumReadTracker")
}

// IsDuplicateKeyErr 判断是不是唯一键冲突
// TranslateError 打开后 gorm 会翻译，这里再兜一层 MySQL 1062，防止翻译前的原始错误漏网
func IsDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var rawErr *driver.MySQLError
	if errors.As(err, &rawErr) && rawErr.Number == 1062 {
		return true
	}
	return false
}
