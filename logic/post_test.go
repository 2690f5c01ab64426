package logic

import (
	"testing"

	"pybbm/dao/mysql"
	pybbm "pybbm/errors"
	"pybbm/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 删除首帖时整个主题级联删除
func TestRemoveHeadPostCascadesTopic(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")
	mustCreatePost(t, topic.ID, user.ID, "二楼")
	mustCreatePost(t, topic.ID, user.ID, "三楼")

	head, err := mysql.SelectTopicHeadPost(nil, topic.ID)
	require.NoError(t, err)

	require.NoError(t, RemovePost(head.ID))

	_, err = mysql.SelectTopicByID(nil, topic.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	count, err := mysql.SelectTopicPostCount(nil, topic.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	gotForum, err := mysql.SelectForumByID(nil, forum.ID)
	require.NoError(t, err)
	assert.Zero(t, gotForum.TopicCount)
	assert.Zero(t, gotForum.PostCount)
}

// 删除普通回帖只影响计数，主题保留
func TestRemoveReplyPostKeepsTopic(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")
	reply := mustCreatePost(t, topic.ID, user.ID, "二楼")

	require.NoError(t, RemovePost(reply.ID))

	gotTopic, err := mysql.SelectTopicByID(nil, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotTopic.PostCount)

	gotForum, err := mysql.SelectForumByID(nil, forum.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotForum.TopicCount)
	assert.Equal(t, 1, gotForum.PostCount)
}

// 首帖过审后主题自动解除待审
func TestHeadPostApprovalClearsTopicModeration(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)

	topic, err := CreateTopic(&models.ParamTopicCreate{
		ForumID: forum.ID,
		Name:    "待审主题",
		Body:    "待审首帖",
	}, user.ID, "127.0.0.1", true)
	require.NoError(t, err)

	got, err := mysql.SelectTopicByID(nil, topic.ID)
	require.NoError(t, err)
	require.True(t, got.OnModeration)

	head, err := mysql.SelectTopicHeadPost(nil, topic.ID)
	require.NoError(t, err)
	require.True(t, head.OnModeration)

	head.OnModeration = false
	require.NoError(t, SavePost(head))

	got, err = mysql.SelectTopicByID(nil, topic.ID)
	require.NoError(t, err)
	assert.False(t, got.OnModeration)
}

// 非首帖过审不影响主题的待审状态
func TestReplyApprovalDoesNotClearTopicModeration(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)

	topic, err := CreateTopic(&models.ParamTopicCreate{
		ForumID: forum.ID,
		Name:    "待审主题",
		Body:    "待审首帖",
	}, user.ID, "127.0.0.1", true)
	require.NoError(t, err)

	reply, err := CreatePost(&models.ParamPostCreate{TopicID: topic.ID, Body: "待审回帖"}, user.ID, "127.0.0.1", true)
	require.NoError(t, err)

	reply.OnModeration = false
	require.NoError(t, SavePost(reply))

	got, err := mysql.SelectTopicByID(nil, topic.ID)
	require.NoError(t, err)
	assert.True(t, got.OnModeration)
}

// 编辑后 body_html / body_text 重新派生，updated 被写入
func TestEditPostRerendersBody(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")
	post := mustCreatePost(t, topic.ID, user.ID, "原始内容")

	edited, err := EditPost(&models.ParamPostEdit{PostID: post.ID, Body: "**加粗**内容"}, user.ID)
	require.NoError(t, err)
	assert.Contains(t, edited.BodyHTML, "<strong>加粗</strong>")
	assert.Contains(t, edited.BodyText, "加粗内容")
	assert.NotNil(t, edited.Updated)
}

func TestEditPostForbiddenForOthers(t *testing.T) {
	setupTestDB(t)
	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, alice.ID, "主题", "首帖")
	post := mustCreatePost(t, topic.ID, alice.ID, "内容")

	_, err := EditPost(&models.ParamPostEdit{PostID: post.ID, Body: "篡改"}, bob.ID)
	assert.True(t, errors.Is(err, pybbm.ErrForbidden))
}

func TestCreatePostOnClosedTopicFails(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")

	got, err := mysql.SelectTopicByID(nil, topic.ID)
	require.NoError(t, err)
	got.Closed = true
	require.NoError(t, SaveTopic(got))

	_, err = CreatePost(&models.ParamPostCreate{TopicID: topic.ID, Body: "晚到的回帖"}, user.ID, "127.0.0.1", false)
	assert.True(t, errors.Is(err, pybbm.ErrTopicClosed))
}

// 开了 autosubscribe 的作者发帖后自动订阅主题，发帖数重算
func TestPostSavedHooks(t *testing.T) {
	setupTestDB(t)
	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, alice.ID, "主题", "首帖")

	mustCreatePost(t, topic.ID, bob.ID, "bob 的回帖")

	subscriberIDs, err := GetTopicSubscriberIDs(topic.ID)
	require.NoError(t, err)
	assert.Contains(t, subscriberIDs, alice.ID)
	assert.Contains(t, subscriberIDs, bob.ID)

	profile, err := GetProfile(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.PostCount)
}

// 删除主题后，发帖人的 profile.post_count 同步归零
func TestRemoveTopicRefreshesPosterCounts(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")
	mustCreatePost(t, topic.ID, user.ID, "二楼")

	profile, err := GetProfile(user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, profile.PostCount)

	require.NoError(t, RemoveTopic(topic.ID))

	profile, err = GetProfile(user.ID)
	require.NoError(t, err)
	assert.Zero(t, profile.PostCount)
}
