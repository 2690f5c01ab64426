package logic

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"pybbm/dao/mysql"
	"pybbm/dao/redis"
	pybbm "pybbm/errors"
	"pybbm/models"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 移动主题后，新旧版块的计数都重算
func TestMoveTopicRecomputesBothForums(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	category, err := CreateCategory("综合讨论", 0)
	require.NoError(t, err)
	src, err := CreateForum(category.ID, nil, "水区", "", 0)
	require.NoError(t, err)
	dst, err := CreateForum(category.ID, nil, "技术区", "", 1)
	require.NoError(t, err)

	topic := mustCreateTopic(t, src.ID, user.ID, "主题", "首帖")
	mustCreatePost(t, topic.ID, user.ID, "回帖")

	require.NoError(t, MoveTopic(topic.ID, dst.ID))

	gotSrc, err := mysql.SelectForumByID(nil, src.ID)
	require.NoError(t, err)
	assert.Zero(t, gotSrc.TopicCount)
	assert.Zero(t, gotSrc.PostCount)

	gotDst, err := mysql.SelectForumByID(nil, dst.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotDst.TopicCount)
	assert.Equal(t, 2, gotDst.PostCount)

	// 主题自身的计数不受移动影响
	gotTopic, err := mysql.SelectTopicByID(nil, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotTopic.PostCount)
}

// 移动到当前所在版块等价于什么都不做
func TestMoveTopicToSameForum(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")

	require.NoError(t, MoveTopic(topic.ID, forum.ID))

	got, err := mysql.SelectForumByID(nil, forum.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TopicCount)
	assert.Equal(t, 1, got.PostCount)
}

func TestMoveTopicToMissingForum(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")

	err := MoveTopic(topic.ID, 424242)
	assert.True(t, errors.Is(err, pybbm.ErrNoSuchForum))
}

// 删除主题时，帖子、附件、订阅、阅读记录、投票数据一起清掉
func TestRemoveTopicCascades(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)

	topic, err := CreateTopic(&models.ParamTopicCreate{
		ForumID:      forum.ID,
		Name:         "带投票的主题",
		Body:         "首帖",
		PollType:     models.PollTypeSingle,
		PollQuestion: "选哪个",
		PollAnswers:  []string{"A", "B"},
	}, user.ID, "127.0.0.1", false)
	require.NoError(t, err)

	answers, err := mysql.SelectPollAnswersByTopicID(nil, topic.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	require.NoError(t, CastPollVote(user.ID, &models.ParamPollVote{
		TopicID:   topic.ID,
		AnswerIDs: []int64{answers[0].ID},
	}))

	_, _, err = GetOrCreateTopicTracker(user.ID, topic.ID)
	require.NoError(t, err)

	post, err := mysql.SelectTopicHeadPost(nil, topic.ID)
	require.NoError(t, err)
	_, err = AddAttachment(&models.ParamAttachmentAdd{PostID: post.ID, Size: 1024, Path: "a/b.png"})
	require.NoError(t, err)

	require.NoError(t, RemoveTopic(topic.ID))

	_, err = mysql.SelectTopicByID(nil, topic.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	answers, err = mysql.SelectPollAnswersByTopicID(nil, topic.ID)
	require.NoError(t, err)
	assert.Empty(t, answers)

	tracker, err := GetTopicTracker(user.ID, topic.ID)
	require.NoError(t, err)
	assert.Nil(t, tracker)

	subscriberIDs, err := GetTopicSubscriberIDs(topic.ID)
	require.NoError(t, err)
	assert.Empty(t, subscriberIDs)

	attachments, err := mysql.SelectAttachmentsByPostID(post.ID)
	require.NoError(t, err)
	assert.Empty(t, attachments)
}

func TestGetTopicDetail(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")
	mustCreatePost(t, topic.ID, user.ID, "二楼")

	topicViewDelta = func(topicID int64) (int64, error) { return 7, nil }
	defer func() { topicViewDelta = redis.GetTopicViewDelta }()

	detail, err := GetTopicDetail(topic.ID, false)
	require.NoError(t, err)
	assert.Equal(t, topic.ID, detail.TopicID)
	assert.Equal(t, forum.ID, detail.ForumID)
	require.Len(t, detail.Posts, 2)
	assert.Contains(t, detail.Posts[0].BodyText, "首帖")
	assert.Contains(t, detail.Posts[1].BodyText, "二楼")
	// 落库的 views 是 0，读出来的是 0 + redis 增量
	assert.Equal(t, 7, detail.Views)

	// 重复读增量不累加
	detail, err = GetTopicDetail(topic.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 7, detail.Views)

	_, err = GetTopicDetail(424242, false)
	assert.True(t, errors.Is(err, pybbm.ErrNoSuchTopic))
}

// 并发读合并到同一个航班时，每个调用方各自合并增量，不污染共享结果
func TestGetTopicDetailSharedFlight(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")

	topicViewDelta = func(topicID int64) (int64, error) { return 5, nil }
	defer func() { topicViewDelta = redis.GetTopicViewDelta }()

	// 压低 rps 拉长航班的 forget 间隔，保证所有调用方都并入同一个航班
	viper.Set("service.rps", 1)
	defer viper.Set("service.rps", 100)

	// 先占住航班并阻塞，让并发调用方全部挂到同一个结果上
	shared := &models.TopicDTO{TopicID: topic.ID, Views: 100}
	release := make(chan struct{})
	topicDetailGrp.DoChan(strconv.FormatInt(topic.ID, 10), func() (any, error) {
		<-release
		return shared, nil
	})

	const callers = 4
	results := make([]*models.TopicDTO, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			detail, err := GetTopicDetail(topic.ID, false)
			if assert.NoError(t, err) {
				results[i] = detail
			}
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NotNil(t, results[i])
		assert.Equal(t, 105, results[i].Views)
	}
	// 航班内的共享结果保持原样
	assert.Equal(t, 100, shared.Views)
}

// 首帖保存失败时，主题和投票选项一起回滚
func TestCreateTopicRollsBackAsOneUnit(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)

	// 弄掉帖子表，让首帖插入必然失败
	require.NoError(t, mysql.GetDB().Migrator().DropTable(&models.Post{}))

	_, err := CreateTopic(&models.ParamTopicCreate{
		ForumID:      forum.ID,
		Name:         "保存不下去的主题",
		Body:         "首帖",
		PollType:     models.PollTypeSingle,
		PollQuestion: "选哪个",
		PollAnswers:  []string{"A", "B"},
	}, user.ID, "127.0.0.1", false)
	require.Error(t, err)

	var topicCount int64
	require.NoError(t, mysql.GetDB().Model(&models.Topic{}).Count(&topicCount).Error)
	assert.Zero(t, topicCount)

	var answerCount int64
	require.NoError(t, mysql.GetDB().Model(&models.PollAnswer{}).Count(&answerCount).Error)
	assert.Zero(t, answerCount)
}

func TestGetTopicList(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	for i := 0; i < 3; i++ {
		mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")
	}

	topics, err := GetTopicList(&models.ParamTopicList{ForumID: forum.ID, PageNum: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, topics, 2)

	topics, err = GetTopicList(&models.ParamTopicList{ForumID: forum.ID, PageNum: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, topics, 1)

	_, err = GetTopicList(&models.ParamTopicList{ForumID: forum.ID, PageNum: 1, PageSize: 1000})
	assert.True(t, errors.Is(err, pybbm.ErrInvalidParam))
}
