package logic

import (
	"testing"

	pybbm "pybbm/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTree(t *testing.T) {
	setupTestDB(t)
	category, err := CreateCategory("综合讨论", 0)
	require.NoError(t, err)
	_, err = CreateForum(category.ID, nil, "水区", "随便聊聊", 1)
	require.NoError(t, err)
	front, err := CreateForum(category.ID, nil, "公告", "", 0)
	require.NoError(t, err)

	tree, err := GetCategoryTree()
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Forums, 2)
	assert.Equal(t, front.ID, tree[0].Forums[0].ForumID) // position 升序

	// 建新版块后缓存失效，再查能看到
	_, err = CreateForum(category.ID, nil, "技术区", "", 2)
	require.NoError(t, err)

	tree, err = GetCategoryTree()
	require.NoError(t, err)
	assert.Len(t, tree[0].Forums, 3)
}

func TestCreateForumMissingCategory(t *testing.T) {
	setupTestDB(t)
	_, err := CreateForum(424242, nil, "孤儿版块", "", 0)
	assert.True(t, errors.Is(err, pybbm.ErrNoSuchCategory))
}

func TestGetForumDetail(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")
	last := mustCreatePost(t, topic.ID, user.ID, "最新回帖")

	detail, err := GetForumDetail(forum.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.PostCount)
	assert.Equal(t, 1, detail.TopicCount)
	assert.Equal(t, last.ID, detail.LastPostID)
}

func TestGetForumDetailEmptyForum(t *testing.T) {
	setupTestDB(t)
	forum := mustCreateForum(t)

	detail, err := GetForumDetail(forum.ID)
	require.NoError(t, err)
	assert.Zero(t, detail.PostCount)
	assert.Zero(t, detail.LastPostID)
	assert.Nil(t, detail.Updated)
}

func TestGetForumDetailMissing(t *testing.T) {
	setupTestDB(t)
	_, err := GetForumDetail(424242)
	assert.True(t, errors.Is(err, pybbm.ErrNoSuchForum))
}
