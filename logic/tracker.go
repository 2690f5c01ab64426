package logic

import (
	"pybbm/dao/mysql"
	"pybbm/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

/*
	阅读进度的 get-or-create

	在 REPEATABLE READ 下，先查后插的写法有竞态：两个请求同时没查到，
	一个插入成功，另一个撞唯一键直接报错。
	这里改成乐观插入：先插，撞唯一键说明并发请求已经建好了行，
	回滚到保存点（不中断外层事务），再把现成的行读出来返回。
	唯一键冲突本身就证明存在一条已提交或正在提交的重复行，
	冲突后的兜底读在新的读视图下一定能看到它。
*/

const trackerSavePoint = "sp_tracker"

// GetOrCreateTopicTracker 并发安全地取出或创建 (user, topic) 的阅读记录
// 恰好一个并发调用方拿到 created=true，其余拿到同一行和 created=false
func GetOrCreateTopicTracker(userID, topicID int64) (tracker *models.TopicReadTracker, created bool, err error) {
	tx := mysql.GetDB().Begin()
	if tx.Error != nil {
		return nil, false, errors.Wrap(tx.Error, "logic:GetOrCreateTopicTracker: Begin")
	}

	if err := tx.SavePoint(trackerSavePoint).Error; err != nil {
		tx.Rollback()
		return nil, false, errors.Wrap(err, "logic:GetOrCreateTopicTracker: SavePoint")
	}

	tracker = &models.TopicReadTracker{UserID: userID, TopicID: topicID}
	insErr := mysql.CreateTopicReadTracker(tx, tracker)
	if insErr == nil {
		if err := tx.Commit().Error; err != nil {
			return nil, false, errors.Wrap(err, "logic:GetOrCreateTopicTracker: Commit")
		}
		return tracker, true, nil
	}

	if !mysql.IsDuplicateKeyErr(insErr) { // 其它错误不在恢复范围内，照常上抛
		tx.Rollback()
		return nil, false, errors.Wrap(insErr, "logic:GetOrCreateTopicTracker: CreateTopicReadTracker")
	}

	if err := tx.RollbackTo(trackerSavePoint).Error; err != nil {
		tx.Rollback()
		return nil, false, errors.Wrap(err, "logic:GetOrCreateTopicTracker: RollbackTo")
	}

	existing, err := mysql.SelectTopicReadTracker(tx, userID, topicID)
	if err != nil {
		tx.Rollback()
		return nil, false, errors.Wrap(err, "logic:GetOrCreateTopicTracker: SelectTopicReadTracker")
	}
	if err := tx.Commit().Error; err != nil {
		return nil, false, errors.Wrap(err, "logic:GetOrCreateTopicTracker: Commit")
	}
	return existing, false, nil
}

// GetOrCreateForumTracker 同上，(user, forum) 维度
func GetOrCreateForumTracker(userID, forumID int64) (tracker *models.ForumReadTracker, created bool, err error) {
	tx := mysql.GetDB().Begin()
	if tx.Error != nil {
		return nil, false, errors.Wrap(tx.Error, "logic:GetOrCreateForumTracker: Begin")
	}

	if err := tx.SavePoint(trackerSavePoint).Error; err != nil {
		tx.Rollback()
		return nil, false, errors.Wrap(err, "logic:GetOrCreateForumTracker: SavePoint")
	}

	tracker = &models.ForumReadTracker{UserID: userID, ForumID: forumID}
	insErr := mysql.CreateForumReadTracker(tx, tracker)
	if insErr == nil {
		if err := tx.Commit().Error; err != nil {
			return nil, false, errors.Wrap(err, "logic:GetOrCreateForumTracker: Commit")
		}
		return tracker, true, nil
	}

	if !mysql.IsDuplicateKeyErr(insErr) {
		tx.Rollback()
		return nil, false, errors.Wrap(insErr, "logic:GetOrCreateForumTracker: CreateForumReadTracker")
	}

	if err := tx.RollbackTo(trackerSavePoint).Error; err != nil {
		tx.Rollback()
		return nil, false, errors.Wrap(err, "logic:GetOrCreateForumTracker: RollbackTo")
	}

	existing, err := mysql.SelectForumReadTracker(tx, userID, forumID)
	if err != nil {
		tx.Rollback()
		return nil, false, errors.Wrap(err, "logic:GetOrCreateForumTracker: SelectForumReadTracker")
	}
	if err := tx.Commit().Error; err != nil {
		return nil, false, errors.Wrap(err, "logic:GetOrCreateForumTracker: Commit")
	}
	return existing, false, nil
}

// MarkTopicRead 用户查看主题时调用：没有记录就建一条，有就把 time_stamp 顶到现在
func MarkTopicRead(userID, topicID int64) error {
	_, created, err := GetOrCreateTopicTracker(userID, topicID)
	if err != nil {
		return errors.Wrap(err, "logic:MarkTopicRead")
	}
	if !created {
		if err := mysql.TouchTopicReadTracker(nil, userID, topicID); err != nil {
			return errors.Wrap(err, "logic:MarkTopicRead: TouchTopicReadTracker")
		}
	}
	return nil
}

// MarkForumRead 用户查看版块时调用
func MarkForumRead(userID, forumID int64) error {
	_, created, err := GetOrCreateForumTracker(userID, forumID)
	if err != nil {
		return errors.Wrap(err, "logic:MarkForumRead")
	}
	if !created {
		if err := mysql.TouchForumReadTracker(nil, userID, forumID); err != nil {
			return errors.Wrap(err, "logic:MarkForumRead: TouchForumReadTracker")
		}
	}
	return nil
}

// 某用户是否已读：tracker 的 time_stamp 不早于主题最新帖子的时间
// 展示层比较逻辑在这之上，这里只暴露原始数据
func GetTopicTracker(userID, topicID int64) (*models.TopicReadTracker, error) {
	tracker, err := mysql.SelectTopicReadTracker(nil, userID, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 没看过，不算错误
		}
		return nil, errors.Wrap(err, "logic:GetTopicTracker")
	}
	return tracker, nil
}
