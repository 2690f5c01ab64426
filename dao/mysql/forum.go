package mysql

import (
	"time"

	"pybbm/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func CreateCategory(category *models.Category) error {
	res := db.Create(&category)
	return errors.Wrap(res.Error, "mysql:CreateCategory")
}

func SelectCategoryByID(tx *gorm.DB, categoryID int64) (*models.Category, error) {
	useDB := getUseDB(tx)
	category := new(models.Category)
	res := useDB.First(category, "id = ?", categoryID)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectCategoryByID")
	}
	return category, nil
}

func SelectCategories() ([]models.Category, error) {
	categories := make([]models.Category, 0)
	res := db.Where("hidden = ?", false).Order("position").Find(&categories)
	return categories, errors.Wrap(res.Error, "mysql:SelectCategories")
}

func CreateForum(forum *models.Forum) error {
	res := db.Create(&forum)
	return errors.Wrap(res.Error, "mysql:CreateForum")
}

func SelectForumByID(tx *gorm.DB, forumID int64) (*models.Forum, error) {
	useDB := getUseDB(tx)
	forum := new(models.Forum)
	res := useDB.First(forum, "id = ?", forumID)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectForumByID")
	}
	return forum, nil
}

func SelectForumsByCategoryID(categoryID int64) ([]models.Forum, error) {
	forums := make([]models.Forum, 0)
	res := db.Where("category_id = ? AND hidden = ?", categoryID, false).Order("position").Find(&forums)
	return forums, errors.Wrap(res.Error, "mysql:SelectForumsByCategoryID")
}

func SelectForumIDs(tx *gorm.DB) ([]int64, error) {
	useDB := getUseDB(tx)
	forumIDs := make([]int64, 0)
	res := useDB.Model(&models.Forum{}).Select("id").Scan(&forumIDs)
	return forumIDs, errors.Wrap(res.Error, "mysql:SelectForumIDs")
}

// 版块下的帖子数，穿过 topics 表统计，帖子行才是真实来源
func SelectForumPostCount(tx *gorm.DB, forumID int64) (int, error) {
	useDB := getUseDB(tx)
	var count int
	res := useDB.Raw(`SELECT count(*) FROM posts p JOIN topics t ON p.topic_id = t.id WHERE t.forum_id = ?`, forumID).Scan(&count)
	return count, errors.Wrap(res.Error, "mysql:SelectForumPostCount")
}

func SelectForumTopicCount(tx *gorm.DB, forumID int64) (int, error) {
	useDB := getUseDB(tx)
	var count int
	res := useDB.Model(&models.Topic{}).Select("count(*)").Where("forum_id = ?", forumID).Scan(&count)
	return count, errors.Wrap(res.Error, "mysql:SelectForumTopicCount")
}

// 版块下最新的帖子，按 (created, id) 降序，id 作为同一时刻的平局决胜
func SelectForumLastPost(tx *gorm.DB, forumID int64) (*models.Post, error) {
	useDB := getUseDB(tx)
	post := new(models.Post)
	res := useDB.Raw(`SELECT p.* FROM posts p JOIN topics t ON p.topic_id = t.id
		WHERE t.forum_id = ? ORDER BY p.created DESC, p.id DESC LIMIT 1`, forumID).Scan(post)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectForumLastPost")
	}
	if res.RowsAffected == 0 {
		return nil, errors.Wrap(gorm.ErrRecordNotFound, "mysql:SelectForumLastPost")
	}
	return post, nil
}

func UpdateForumCounters(tx *gorm.DB, forumID int64, postCount, topicCount int, updated *time.Time) error {
	useDB := getUseDB(tx)
	values := map[string]any{
		"post_count":  postCount,
		"topic_count": topicCount,
	}
	if updated != nil {
		values["updated"] = *updated
	}
	res := useDB.Model(&models.Forum{}).Where("id = ?", forumID).Updates(values)
	return errors.Wrap(res.Error, "mysql:UpdateForumCounters")
}
