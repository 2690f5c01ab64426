package mysql

import (
	"pybbm/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func CreatePost(tx *gorm.DB, post *models.Post) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&post)
	return errors.Wrap(res.Error, "mysql:CreatePost")
}

func SelectPostByID(tx *gorm.DB, postID int64) (*models.Post, error) {
	useDB := getUseDB(tx)
	post := new(models.Post)
	res := useDB.First(post, "id = ?", postID)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectPostByID")
	}
	return post, nil
}

func SelectPostsByTopicID(tx *gorm.DB, topicID int64) ([]models.Post, error) {
	useDB := getUseDB(tx)
	posts := make([]models.Post, 0)
	res := useDB.Where("topic_id = ?", topicID).Order("created, id").Find(&posts)
	return posts, errors.Wrap(res.Error, "mysql:SelectPostsByTopicID")
}

func UpdatePost(tx *gorm.DB, post *models.Post) error {
	useDB := getUseDB(tx)
	res := useDB.Save(post)
	return errors.Wrap(res.Error, "mysql:UpdatePost")
}

func DeletePostByID(tx *gorm.DB, postID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Delete(&models.Post{}, "id = ?", postID)
	return errors.Wrap(res.Error, "mysql:DeletePostByID")
}

func DeleteAttachmentsByPostID(tx *gorm.DB, postID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Delete(&models.Attachment{}, "post_id = ?", postID)
	return errors.Wrap(res.Error, "mysql:DeleteAttachmentsByPostID")
}

// 首帖：主题内按 (created, id) 升序的第一个帖子
// 没有帖子时返回 gorm.ErrRecordNotFound，由调用方决定是不变量破坏还是可容忍的空态
func SelectTopicHeadPost(tx *gorm.DB, topicID int64) (*models.Post, error) {
	useDB := getUseDB(tx)
	post := new(models.Post)
	res := useDB.Where("topic_id = ?", topicID).Order("created, id").First(post)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectTopicHeadPost")
	}
	return post, nil
}

func SelectTopicLastPost(tx *gorm.DB, topicID int64) (*models.Post, error) {
	useDB := getUseDB(tx)
	post := new(models.Post)
	res := useDB.Where("topic_id = ?", topicID).Order("created DESC, id DESC").First(post)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectTopicLastPost")
	}
	return post, nil
}

func SelectTopicPostCount(tx *gorm.DB, topicID int64) (int, error) {
	useDB := getUseDB(tx)
	var count int
	res := useDB.Model(&models.Post{}).Select("count(*)").Where("topic_id = ?", topicID).Scan(&count)
	return count, errors.Wrap(res.Error, "mysql:SelectTopicPostCount")
}

func SelectPostCountByUserID(tx *gorm.DB, userID int64) (int, error) {
	useDB := getUseDB(tx)
	var count int
	res := useDB.Model(&models.Post{}).Select("count(*)").Where("user_id = ?", userID).Scan(&count)
	return count, errors.Wrap(res.Error, "mysql:SelectPostCountByUserID")
}

func CreateAttachment(attachment *models.Attachment) error {
	res := db.Create(&attachment)
	return errors.Wrap(res.Error, "mysql:CreateAttachment")
}

func SelectAttachmentsByPostID(postID int64) ([]models.Attachment, error) {
	attachments := make([]models.Attachment, 0)
	res := db.Where("post_id = ?", postID).Find(&attachments)
	return attachments, errors.Wrap(res.Error, "mysql:SelectAttachmentsByPostID")
}
