package mysql

import (
	"time"

	"pybbm/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func CreateTopic(tx *gorm.DB, topic *models.Topic) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&topic)
	return errors.Wrap(res.Error, "mysql:CreateTopic")
}

func SelectTopicByID(tx *gorm.DB, topicID int64) (*models.Topic, error) {
	useDB := getUseDB(tx)
	topic := new(models.Topic)
	res := useDB.First(topic, "id = ?", topicID)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectTopicByID")
	}
	return topic, nil
}

func SelectTopicsByForumID(forumID int64, start, size int) ([]models.Topic, error) {
	topics := make([]models.Topic, 0, size)
	res := db.Where("forum_id = ?", forumID).
		Order("sticky DESC, created DESC").
		Limit(size).Offset(start).
		Find(&topics)
	return topics, errors.Wrap(res.Error, "mysql:SelectTopicsByForumID")
}

func UpdateTopic(tx *gorm.DB, topic *models.Topic) error {
	useDB := getUseDB(tx)
	res := useDB.Save(topic)
	return errors.Wrap(res.Error, "mysql:UpdateTopic")
}

func UpdateTopicCounters(tx *gorm.DB, topicID int64, postCount int, updated time.Time) error {
	useDB := getUseDB(tx)
	res := useDB.Model(&models.Topic{}).Where("id = ?", topicID).
		Updates(map[string]any{"post_count": postCount, "updated": updated})
	return errors.Wrap(res.Error, "mysql:UpdateTopicCounters")
}

func UpdateTopicOnModeration(tx *gorm.DB, topicID int64, onModeration bool) error {
	useDB := getUseDB(tx)
	res := useDB.Model(&models.Topic{}).Where("id = ?", topicID).Update("on_moderation", onModeration)
	return errors.Wrap(res.Error, "mysql:UpdateTopicOnModeration")
}

func IncrTopicViews(tx *gorm.DB, topicID int64, offset int) error {
	if offset == 0 {
		return nil
	}
	useDB := getUseDB(tx)
	res := useDB.Model(&models.Topic{}).Where("id = ?", topicID).
		Update("views", gorm.Expr("views + ?", offset))
	return errors.Wrap(res.Error, "mysql:IncrTopicViews")
}

// 删除主题本身，其下的帖子、订阅、阅读记录、投票由 logic 在同一事务里级联删除
func DeleteTopicByID(tx *gorm.DB, topicID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Delete(&models.Topic{}, "id = ?", topicID)
	return errors.Wrap(res.Error, "mysql:DeleteTopicByID")
}

func DeletePostsByTopicID(tx *gorm.DB, topicID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Delete(&models.Post{}, "topic_id = ?", topicID)
	return errors.Wrap(res.Error, "mysql:DeletePostsByTopicID")
}

func DeleteAttachmentsByTopicID(tx *gorm.DB, topicID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Exec(`DELETE FROM attachments WHERE post_id IN (SELECT id FROM posts WHERE topic_id = ?)`, topicID)
	return errors.Wrap(res.Error, "mysql:DeleteAttachmentsByTopicID")
}

func DeleteTopicSubscriptionsByTopicID(tx *gorm.DB, topicID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Delete(&models.TopicSubscription{}, "topic_id = ?", topicID)
	return errors.Wrap(res.Error, "mysql:DeleteTopicSubscriptionsByTopicID")
}

func DeleteTopicReadTrackersByTopicID(tx *gorm.DB, topicID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Delete(&models.TopicReadTracker{}, "topic_id = ?", topicID)
	return errors.Wrap(res.Error, "mysql:DeleteTopicReadTrackersByTopicID")
}

// 主题被删时，该主题发帖人集合，用于重算这些人的 profile.post_count
func SelectTopicPosterIDs(tx *gorm.DB, topicID int64) ([]int64, error) {
	useDB := getUseDB(tx)
	userIDs := make([]int64, 0)
	res := useDB.Model(&models.Post{}).Distinct("user_id").Where("topic_id = ?", topicID).Scan(&userIDs)
	return userIDs, errors.Wrap(res.Error, "mysql:SelectTopicPosterIDs")
}
