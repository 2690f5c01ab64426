package logic

import (
	"time"

	"pybbm/dao/localcache"
	"pybbm/dao/mysql"
	pybbm "pybbm/errors"
	"pybbm/internal/utils"
	"pybbm/logger"
	"pybbm/models"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const keyCategoryTree = "category_tree"

// CreateCategory 建分类
func CreateCategory(name string, position int) (*models.Category, error) {
	category := &models.Category{
		ID:       utils.GenSnowflakeID(),
		Name:     name,
		Position: position,
	}
	if err := mysql.CreateCategory(category); err != nil {
		return nil, errors.Wrap(err, "logic:CreateCategory: CreateCategory")
	}
	localcache.GetLocalCache().Remove(keyCategoryTree)
	return category, nil
}

// CreateForum 在分类下建版块，parentID 非空时为子版块
func CreateForum(categoryID int64, parentID *int64, name, description string, position int) (*models.Forum, error) {
	if _, err := mysql.SelectCategoryByID(nil, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrNoSuchCategory
		}
		return nil, errors.Wrap(err, "logic:CreateForum: SelectCategoryByID")
	}

	forum := &models.Forum{
		ID:          utils.GenSnowflakeID(),
		CategoryID:  categoryID,
		ParentID:    parentID,
		Name:        name,
		Description: description,
		Position:    position,
	}
	if err := mysql.CreateForum(forum); err != nil {
		return nil, errors.Wrap(err, "logic:CreateForum: CreateForum")
	}
	localcache.GetLocalCache().Remove(keyCategoryTree)
	return forum, nil
}

// GetCategoryTree 首页结构：分类按 position 排序，每个分类挂自己的版块
// 结构变化低频，走本地缓存，建分类/版块时失效
func GetCategoryTree() ([]*models.CategoryDTO, error) {
	if cached, err := localcache.GetLocalCache().Get(keyCategoryTree); err == nil {
		return cached.([]*models.CategoryDTO), nil
	}

	categories, err := mysql.SelectCategories()
	if err != nil {
		return nil, errors.Wrap(err, "logic:GetCategoryTree: SelectCategories")
	}

	tree := make([]*models.CategoryDTO, 0, len(categories))
	for i := range categories {
		forums, err := mysql.SelectForumsByCategoryID(categories[i].ID)
		if err != nil {
			return nil, errors.Wrap(err, "logic:GetCategoryTree: SelectForumsByCategoryID")
		}
		dto := &models.CategoryDTO{
			CategoryID: categories[i].ID,
			Name:       categories[i].Name,
			Position:   categories[i].Position,
			Forums:     make([]*models.ForumDTO, 0, len(forums)),
		}
		for j := range forums {
			dto.Forums = append(dto.Forums, forumToDTO(&forums[j]))
		}
		tree = append(tree, dto)
	}

	expire := time.Second * time.Duration(viper.GetInt("localcache.expire_seconds"))
	if err := localcache.GetLocalCache().SetWithExpire(keyCategoryTree, tree, expire); err != nil {
		logger.Warnf("logic:GetCategoryTree: SetWithExpire failed, reason: %v", err.Error())
	}
	return tree, nil
}

// GetForumDetail 版块详情，带最新一帖
func GetForumDetail(forumID int64) (*models.ForumDTO, error) {
	forum, err := mysql.SelectForumByID(nil, forumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrNoSuchForum
		}
		return nil, errors.Wrap(err, "logic:GetForumDetail: SelectForumByID")
	}

	dto := forumToDTO(forum)
	lastPost, err := mysql.SelectForumLastPost(nil, forumID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(err, "logic:GetForumDetail: SelectForumLastPost")
		}
	} else {
		dto.LastPostID = lastPost.ID
	}
	return dto, nil
}

func forumToDTO(forum *models.Forum) *models.ForumDTO {
	return &models.ForumDTO{
		ForumID:     forum.ID,
		CategoryID:  forum.CategoryID,
		ParentID:    forum.ParentID,
		Name:        forum.Name,
		Position:    forum.Position,
		Description: forum.Description,
		Headline:    forum.Headline,
		PostCount:   forum.PostCount,
		TopicCount:  forum.TopicCount,
		Updated:     forum.Updated,
	}
}
