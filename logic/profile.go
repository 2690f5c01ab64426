package logic

import (
	"pybbm/dao/kafka"
	"pybbm/dao/mysql"
	"pybbm/logger"
	"pybbm/models"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

/*
	帖子提交后的副作用钩子，执行顺序固定：
	1. 通知订阅者（kafka，发出去就不管，失败只打日志）
	2. 作者开了 autosubscribe 的话，订阅该主题
	3. 作者是新发帖时，按 COUNT(posts by user) 重算 profile.post_count
	钩子在事务提交之后执行，失败不回滚帖子本身。
*/

func postSavedHooks(post *models.Post, created bool) {
	if viper.GetBool("kafka.enable") {
		event := kafka.PostSavedEvent{
			PostID:  post.ID,
			TopicID: post.TopicID,
			UserID:  post.UserID,
			Summary: post.Summary(),
		}
		if err := kafka.NotifyPostSaved(event); err != nil {
			logger.Warnf("logic:postSavedHooks: NotifyPostSaved failed, reason: %v", err.Error())
		}
	}

	profile, err := GetProfile(post.UserID)
	if err != nil {
		logger.Warnf("logic:postSavedHooks: GetProfile failed, reason: %v", err.Error())
		return
	}
	if profile.Autosubscribe {
		if err := mysql.CreateTopicSubscription(nil, post.TopicID, post.UserID); err != nil {
			logger.Warnf("logic:postSavedHooks: CreateTopicSubscription failed, reason: %v", err.Error())
		}
	}

	if created {
		refreshUserPostCounts([]int64{post.UserID})
	}
}

// 按帖子行重算这批用户的 profile.post_count
func refreshUserPostCounts(userIDs []int64) {
	for _, userID := range userIDs {
		count, err := mysql.SelectPostCountByUserID(nil, userID)
		if err != nil {
			logger.Warnf("logic:refreshUserPostCounts: SelectPostCountByUserID failed, reason: %v", err.Error())
			continue
		}
		if err := mysql.UpdateProfilePostCount(nil, userID, count); err != nil {
			logger.Warnf("logic:refreshUserPostCounts: UpdateProfilePostCount failed, reason: %v", err.Error())
		}
	}
}

func GetProfile(userID int64) (*models.Profile, error) {
	profile, err := mysql.SelectProfileByUserID(nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 老用户可能没走过 bootstrap，缺 profile 时按默认值补建
			profile = &models.Profile{UserID: userID, Autosubscribe: true}
			if err := mysql.CreateProfile(nil, profile); err != nil && !mysql.IsDuplicateKeyErr(err) {
				return nil, errors.Wrap(err, "logic:GetProfile: CreateProfile")
			}
			return profile, nil
		}
		return nil, errors.Wrap(err, "logic:GetProfile: SelectProfileByUserID")
	}
	return profile, nil
}

func GetTopicSubscriberIDs(topicID int64) ([]int64, error) {
	userIDs, err := mysql.SelectTopicSubscriberIDs(nil, topicID)
	return userIDs, errors.Wrap(err, "logic:GetTopicSubscriberIDs")
}
