package logic

import (
	"fmt"
	"strconv"
	"time"

	"pybbm/dao/mysql"
	"pybbm/dao/redis"
	pybbm "pybbm/errors"
	"pybbm/internal/utils"
	"pybbm/logger"
	"pybbm/models"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var topicDetailGrp singleflight.Group

// 浏览增量的读取入口，测试里替换成假数据源
var topicViewDelta = redis.GetTopicViewDelta

// SaveTopic 创建或编辑主题
//
// 新建主题不重算任何计数：空主题的计数就是 0，等首帖保存时一起建立。
// 编辑时如果 forum_id 和库里的不一致，视为移动，移动后重算新旧两个版块。
// 主题自身的 post_count / updated 不受移动影响。
func SaveTopic(topic *models.Topic) error {
	tx := mysql.GetDB().Begin()

	if err := saveTopicWithTx(tx, topic); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "logic:SaveTopic")
	}
	return errors.Wrap(tx.Commit().Error, "logic:SaveTopic: Commit")
}

// 在调用方的事务里创建或编辑主题
func saveTopicWithTx(tx *gorm.DB, topic *models.Topic) error {
	isNew := topic.ID == 0
	if isNew {
		topic.ID = utils.GenSnowflakeID()
	}
	if topic.Created.IsZero() {
		topic.Created = time.Now()
	}

	forumChanged := false
	var oldForumID int64

	if isNew {
		if err := mysql.CreateTopic(tx, topic); err != nil {
			return errors.Wrap(err, "CreateTopic")
		}
	} else {
		oldTopic, err := mysql.SelectTopicByID(tx, topic.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pybbm.ErrNoSuchTopic
			}
			return errors.Wrap(err, "SelectTopicByID")
		}
		if oldTopic.ForumID != topic.ForumID {
			forumChanged = true
			oldForumID = oldTopic.ForumID
		}
		if err := mysql.UpdateTopic(tx, topic); err != nil {
			return errors.Wrap(err, "UpdateTopic")
		}
	}

	if forumChanged {
		if err := RecomputeForumCounters(tx, oldForumID); err != nil {
			return errors.Wrap(err, "RecomputeForumCounters(old)")
		}
		if err := RecomputeForumCounters(tx, topic.ForumID); err != nil {
			return errors.Wrap(err, "RecomputeForumCounters(new)")
		}
	}

	return nil
}

// CreateTopic 建主题 + 首帖（+ 投票选项），整体一个事务：
// 首帖保存失败时主题和投票选项一起回滚，不会留下没有任何帖子的主题
func CreateTopic(param *models.ParamTopicCreate, userID int64, userIP string, onModeration bool) (*models.Topic, error) {
	forum, err := mysql.SelectForumByID(nil, param.ForumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrNoSuchForum
		}
		return nil, errors.Wrap(err, "logic:CreateTopic: SelectForumByID")
	}

	topic := &models.Topic{
		ForumID:      forum.ID,
		UserID:       userID,
		Name:         param.Name,
		OnModeration: onModeration,
		PollType:     param.PollType,
		PollQuestion: param.PollQuestion,
	}

	tx := mysql.GetDB().Begin()

	if err := saveTopicWithTx(tx, topic); err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "logic:CreateTopic: saveTopicWithTx")
	}

	if topic.PollType != models.PollTypeNone {
		for _, text := range param.PollAnswers {
			answer := &models.PollAnswer{
				ID:      utils.GenSnowflakeID(),
				TopicID: topic.ID,
				Text:    text,
			}
			if err := mysql.CreatePollAnswer(tx, answer); err != nil {
				tx.Rollback()
				return nil, errors.Wrap(err, "logic:CreateTopic: CreatePollAnswer")
			}
		}
	}

	headPost := &models.Post{
		TopicID:      topic.ID,
		UserID:       userID,
		Body:         param.Body,
		UserIP:       userIP,
		OnModeration: onModeration,
	}
	created, err := savePostWithTx(tx, headPost)
	if err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "logic:CreateTopic: savePostWithTx(head)")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.Wrap(err, "logic:CreateTopic: Commit")
	}

	postSavedHooks(headPost, created)
	return topic, nil
}

// MoveTopic 把主题移到目标版块
func MoveTopic(topicID, forumID int64) error {
	topic, err := mysql.SelectTopicByID(nil, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pybbm.ErrNoSuchTopic
		}
		return errors.Wrap(err, "logic:MoveTopic: SelectTopicByID")
	}
	if _, err := mysql.SelectForumByID(nil, forumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pybbm.ErrNoSuchForum
		}
		return errors.Wrap(err, "logic:MoveTopic: SelectForumByID")
	}

	topic.ForumID = forumID
	return errors.Wrap(SaveTopic(topic), "logic:MoveTopic: SaveTopic")
}

// RemoveTopic 删除主题及其下所有帖子，然后重算所在版块
func RemoveTopic(topicID int64) error {
	tx := mysql.GetDB().Begin()

	posterIDs, err := removeTopicWithTx(tx, topicID)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "logic:RemoveTopic: removeTopicWithTx")
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "logic:RemoveTopic: Commit")
	}

	refreshUserPostCounts(posterIDs)
	return nil
}

// 在调用方的事务里级联删除主题，返回受影响的发帖人（用于提交后重算 profile.post_count）
func removeTopicWithTx(tx *gorm.DB, topicID int64) ([]int64, error) {
	topic, err := mysql.SelectTopicByID(tx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrNoSuchTopic
		}
		return nil, errors.Wrap(err, "SelectTopicByID")
	}

	posterIDs, err := mysql.SelectTopicPosterIDs(tx, topicID)
	if err != nil {
		return nil, errors.Wrap(err, "SelectTopicPosterIDs")
	}

	if err := mysql.DeleteAttachmentsByTopicID(tx, topicID); err != nil {
		return nil, errors.Wrap(err, "DeleteAttachmentsByTopicID")
	}
	if err := mysql.DeletePostsByTopicID(tx, topicID); err != nil {
		return nil, errors.Wrap(err, "DeletePostsByTopicID")
	}
	if err := mysql.DeletePollAnswerUsersByTopicID(tx, topicID); err != nil {
		return nil, errors.Wrap(err, "DeletePollAnswerUsersByTopicID")
	}
	if err := mysql.DeletePollAnswersByTopicID(tx, topicID); err != nil {
		return nil, errors.Wrap(err, "DeletePollAnswersByTopicID")
	}
	if err := mysql.DeleteTopicSubscriptionsByTopicID(tx, topicID); err != nil {
		return nil, errors.Wrap(err, "DeleteTopicSubscriptionsByTopicID")
	}
	if err := mysql.DeleteTopicReadTrackersByTopicID(tx, topicID); err != nil {
		return nil, errors.Wrap(err, "DeleteTopicReadTrackersByTopicID")
	}
	if err := mysql.DeleteTopicByID(tx, topicID); err != nil {
		return nil, errors.Wrap(err, "DeleteTopicByID")
	}

	if err := RecomputeForumCounters(tx, topic.ForumID); err != nil {
		return nil, errors.Wrap(err, "RecomputeForumCounters")
	}

	return posterIDs, nil
}

// GetTopicDetail 查主题详情和帖子列表
// needIncrView 时浏览数先进 redis，由后台 worker 批量落库
func GetTopicDetail(topicID int64, needIncrView bool) (*models.TopicDTO, error) {
	if needIncrView {
		if err := redis.IncrTopicView(topicID); err != nil {
			logger.Warnf("logic:GetTopicDetail: IncrTopicView failed, reason: %v", err.Error())
		}
	}

	timeout := time.Second * time.Duration(viper.GetInt("service.timeout"))
	rps := viper.GetInt("service.rps")
	interval := time.Second / time.Duration(rps)
	key := strconv.FormatInt(topicID, 10)

	_detail, err := utils.SfDoWithTimeout(&topicDetailGrp, key, timeout, interval, func() (any, error) {
		topic, err := mysql.SelectTopicByID(nil, topicID)
		if err != nil {
			return nil, err
		}
		posts, err := mysql.SelectPostsByTopicID(nil, topicID)
		if err != nil {
			return nil, err
		}

		dto := &models.TopicDTO{
			TopicID:      topic.ID,
			ForumID:      topic.ForumID,
			UserID:       topic.UserID,
			Name:         topic.Name,
			Created:      topic.Created,
			Updated:      topic.Updated,
			Views:        topic.Views,
			Sticky:       topic.Sticky,
			Closed:       topic.Closed,
			PostCount:    topic.PostCount,
			PollType:     topic.PollType,
			PollQuestion: topic.PollQuestion,
			Posts:        make([]*models.PostDTO, 0, len(posts)),
		}
		for i := range posts {
			dto.Posts = append(dto.Posts, &models.PostDTO{
				PostID:       posts[i].ID,
				TopicID:      posts[i].TopicID,
				UserID:       posts[i].UserID,
				BodyHTML:     posts[i].BodyHTML,
				BodyText:     posts[i].BodyText,
				Created:      posts[i].Created,
				Updated:      posts[i].Updated,
				OnModeration: posts[i].OnModeration,
			})
		}
		return dto, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrNoSuchTopic
		}
		return nil, errors.Wrap(err, "logic:GetTopicDetail")
	}

	// 同一航班里的所有调用方拿到的是同一个指针，
	// 合并增量前先拷贝，不能写共享结构
	detail := *_detail.(*models.TopicDTO)

	// 合并 redis 里还没落库的浏览增量
	if delta, err := topicViewDelta(topicID); err == nil {
		detail.Views += int(delta)
	}

	return &detail, nil
}

func GetTopicList(param *models.ParamTopicList) ([]models.Topic, error) {
	maxSize := viper.GetInt64("service.topic.page_size_max")
	if param.PageSize > maxSize {
		return nil, errors.Wrap(pybbm.ErrInvalidParam, fmt.Sprintf("logic:GetTopicList: page size > %d", maxSize))
	}
	start := int((param.PageNum - 1) * param.PageSize)
	topics, err := mysql.SelectTopicsByForumID(param.ForumID, start, int(param.PageSize))
	return topics, errors.Wrap(err, "logic:GetTopicList")
}
