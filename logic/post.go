package logic

import (
	"time"

	"pybbm/dao/mysql"
	pybbm "pybbm/errors"
	"pybbm/internal/utils"
	"pybbm/markup"
	"pybbm/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SavePost 创建或编辑帖子
//
// 一次调用就是一个事务边界：持久化帖子、审核放行、计数重算要么全部可见，要么全部回滚。
// 提交成功后再按顺序执行副作用钩子（通知订阅者、自动订阅、重算作者发帖数），
// 钩子失败不回滚帖子。
func SavePost(post *models.Post) error {
	tx := mysql.GetDB().Begin()

	created, err := savePostWithTx(tx, post)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "logic:SavePost")
	}
	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "logic:SavePost: Commit")
	}

	postSavedHooks(post, created)
	return nil
}

// 在调用方的事务里持久化帖子并维护派生状态（审核放行、计数重算）
func savePostWithTx(tx *gorm.DB, post *models.Post) (created bool, err error) {
	now := time.Now()
	created = post.ID == 0
	if created {
		post.ID = utils.GenSnowflakeID()
	}
	if post.Created.IsZero() { // 只在首次保存时写 created
		post.Created = now
	} else if !created {
		post.Updated = &now
	}

	// 渲染失败（引擎配置错误）在 markup.InitMarkup 就已经 panic，
	// 到这里 Render 一定能给出派生字段，帖子不会以空 body_html 入库
	post.BodyHTML, post.BodyText = markup.Render(post.Body)

	topicChanged := false
	var oldTopicID int64

	if created {
		if err := mysql.CreatePost(tx, post); err != nil {
			return false, errors.Wrap(err, "CreatePost")
		}
	} else {
		oldPost, err := mysql.SelectPostByID(tx, post.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, pybbm.ErrNoSuchPost
			}
			return false, errors.Wrap(err, "SelectPostByID")
		}
		if oldPost.TopicID != post.TopicID { // 帖子被移动到了别的主题
			topicChanged = true
			oldTopicID = oldPost.TopicID
		}
		if err := mysql.UpdatePost(tx, post); err != nil {
			return false, errors.Wrap(err, "UpdatePost")
		}
	}

	topic, err := mysql.SelectTopicByID(tx, post.TopicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pybbm.ErrNoSuchTopic
		}
		return false, errors.Wrap(err, "SelectTopicByID")
	}

	// 首帖过审后主题自动解除待审状态
	// 首帖永远现查（MIN(created, id)），并发发帖随时可能改变它，不能缓存
	head, err := mysql.SelectTopicHeadPost(tx, post.TopicID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, errors.Wrap(err, "SelectTopicHeadPost")
	}
	if err == nil && head.ID == post.ID && !post.OnModeration && topic.OnModeration {
		if err := mysql.UpdateTopicOnModeration(tx, topic.ID, false); err != nil {
			return false, errors.Wrap(err, "UpdateTopicOnModeration")
		}
	}

	// 先算子再算父
	if err := RecomputeTopicCounters(tx, post.TopicID); err != nil {
		return false, errors.Wrap(err, "RecomputeTopicCounters")
	}
	if err := RecomputeForumCounters(tx, topic.ForumID); err != nil {
		return false, errors.Wrap(err, "RecomputeForumCounters")
	}

	// 帖子换了主题，原主题/原版块的计数同样要重算
	if topicChanged {
		oldTopic, err := mysql.SelectTopicByID(tx, oldTopicID)
		if err != nil {
			return false, errors.Wrap(err, "SelectTopicByID(old)")
		}
		if err := RecomputeTopicCounters(tx, oldTopicID); err != nil {
			return false, errors.Wrap(err, "RecomputeTopicCounters(old)")
		}
		if err := RecomputeForumCounters(tx, oldTopic.ForumID); err != nil {
			return false, errors.Wrap(err, "RecomputeForumCounters(old)")
		}
	}

	return created, nil
}

// RemovePost 删除帖子
//
// 删除的如果是首帖，整个主题连同其余帖子一起级联删除——主题的生命周期绑定在首帖上。
// 主题下已经没有帖子时，级联规则视为已满足，按普通删除处理。
func RemovePost(postID int64) error {
	tx := mysql.GetDB().Begin()

	post, err := mysql.SelectPostByID(tx, postID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pybbm.ErrNoSuchPost
		}
		return errors.Wrap(err, "logic:RemovePost: SelectPostByID")
	}

	head, err := mysql.SelectTopicHeadPost(tx, post.TopicID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return errors.Wrap(err, "logic:RemovePost: SelectTopicHeadPost")
	}

	if err == nil && head.ID == post.ID {
		posterIDs, err := removeTopicWithTx(tx, post.TopicID)
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "logic:RemovePost: removeTopicWithTx")
		}
		if err := tx.Commit().Error; err != nil {
			return errors.Wrap(err, "logic:RemovePost: Commit")
		}
		refreshUserPostCounts(posterIDs)
		return nil
	}

	if err := mysql.DeleteAttachmentsByPostID(tx, postID); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "logic:RemovePost: DeleteAttachmentsByPostID")
	}
	if err := mysql.DeletePostByID(tx, postID); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "logic:RemovePost: DeletePostByID")
	}

	topic, err := mysql.SelectTopicByID(tx, post.TopicID)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "logic:RemovePost: SelectTopicByID")
	}
	if err := RecomputeTopicCounters(tx, post.TopicID); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "logic:RemovePost: RecomputeTopicCounters")
	}
	if err := RecomputeForumCounters(tx, topic.ForumID); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "logic:RemovePost: RecomputeForumCounters")
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "logic:RemovePost: Commit")
	}

	refreshUserPostCounts([]int64{post.UserID})
	return nil
}

// CreatePost 在主题下回帖，关闭的主题不再接受新帖
func CreatePost(param *models.ParamPostCreate, userID int64, userIP string, onModeration bool) (*models.Post, error) {
	topic, err := mysql.SelectTopicByID(nil, param.TopicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrNoSuchTopic
		}
		return nil, errors.Wrap(err, "logic:CreatePost: SelectTopicByID")
	}
	if topic.Closed {
		return nil, pybbm.ErrTopicClosed
	}

	post := &models.Post{
		TopicID:      topic.ID,
		UserID:       userID,
		Body:         param.Body,
		UserIP:       userIP,
		OnModeration: onModeration,
	}
	if err := SavePost(post); err != nil {
		return nil, errors.Wrap(err, "logic:CreatePost: SavePost")
	}
	return post, nil
}

// EditPost 编辑帖子内容，body_html / body_text 随之重新派生
func EditPost(param *models.ParamPostEdit, userID int64) (*models.Post, error) {
	post, err := GetPostByID(param.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, pybbm.ErrForbidden
	}

	post.Body = param.Body
	if err := SavePost(post); err != nil {
		return nil, errors.Wrap(err, "logic:EditPost: SavePost")
	}
	return post, nil
}

func GetPostByID(postID int64) (*models.Post, error) {
	post, err := mysql.SelectPostByID(nil, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrNoSuchPost
		}
		return nil, errors.Wrap(err, "logic:GetPostByID")
	}
	return post, nil
}

// AddAttachment 只登记元信息，文件本体由外部对象存储保存
func AddAttachment(param *models.ParamAttachmentAdd) (*models.Attachment, error) {
	if _, err := GetPostByID(param.PostID); err != nil {
		return nil, err
	}
	attachment := &models.Attachment{
		ID:     utils.GenSnowflakeID(),
		PostID: param.PostID,
		Size:   param.Size,
		Path:   param.Path,
	}
	if err := mysql.CreateAttachment(attachment); err != nil {
		return nil, errors.Wrap(err, "logic:AddAttachment: CreateAttachment")
	}
	return attachment, nil
}
