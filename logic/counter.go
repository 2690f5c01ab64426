package logic

import (
	"time"

	"pybbm/dao/mysql"
	pybbm "pybbm/errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

/*
	计数维护引擎

	forum.post_count / topic_count / updated 和 topic.post_count / updated 都是冗余字段，
	每次结构性变更后从子表全量重算，而不是增量加减：
	增量在并发结构变更（移动主题、级联删除）和部分失败下会漂移，
	重算是幂等的，不管怎样交错执行，最终都会收敛到子表的真实状态。

	调用约定：必须在触发写入的同一个事务内执行，且先算子（topic）再算父（forum）。
*/

// RecomputeTopicCounters 按主题下的帖子行重算 post_count 和 updated
// 主题存在期间至少要有一个帖子，查不到最新帖子说明不变量已被破坏
func RecomputeTopicCounters(tx *gorm.DB, topicID int64) error {
	count, err := mysql.SelectTopicPostCount(tx, topicID)
	if err != nil {
		return errors.Wrap(err, "logic:RecomputeTopicCounters: SelectTopicPostCount")
	}

	lastPost, err := mysql.SelectTopicLastPost(tx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(pybbm.ErrTopicHasNoPosts, "logic:RecomputeTopicCounters")
		}
		return errors.Wrap(err, "logic:RecomputeTopicCounters: SelectTopicLastPost")
	}

	updated := lastPost.Created
	if lastPost.Updated != nil {
		updated = *lastPost.Updated
	}

	err = mysql.UpdateTopicCounters(tx, topicID, count, updated)
	return errors.Wrap(err, "logic:RecomputeTopicCounters: UpdateTopicCounters")
}

// RecomputeForumCounters 按版块下的主题/帖子行重算三个冗余字段
// 版块允许暂时没有任何帖子（比如刚建好），此时 updated 保持原值
func RecomputeForumCounters(tx *gorm.DB, forumID int64) error {
	postCount, err := mysql.SelectForumPostCount(tx, forumID)
	if err != nil {
		return errors.Wrap(err, "logic:RecomputeForumCounters: SelectForumPostCount")
	}

	topicCount, err := mysql.SelectForumTopicCount(tx, forumID)
	if err != nil {
		return errors.Wrap(err, "logic:RecomputeForumCounters: SelectForumTopicCount")
	}

	var updated *time.Time
	lastPost, err := mysql.SelectForumLastPost(tx, forumID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(err, "logic:RecomputeForumCounters: SelectForumLastPost")
	}
	if err == nil {
		t := lastPost.Created
		if lastPost.Updated != nil {
			t = *lastPost.Updated
		}
		updated = &t
	}

	err = mysql.UpdateForumCounters(tx, forumID, postCount, topicCount, updated)
	return errors.Wrap(err, "logic:RecomputeForumCounters: UpdateForumCounters")
}
