package logic

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateTopicTracker(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")

	first, created, err := GetOrCreateTopicTracker(user.ID, topic.ID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := GetOrCreateTopicTracker(user.ID, topic.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

// 并发 get-or-create：恰好一个调用方创建成功，其余拿到同一行
func TestGetOrCreateTopicTrackerConcurrent(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")

	const callers = 16
	var createdCount int64
	ids := make([]int64, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tracker, created, err := GetOrCreateTopicTracker(user.ID, topic.ID)
			if !assert.NoError(t, err) {
				return
			}
			if created {
				atomic.AddInt64(&createdCount, 1)
			}
			ids[i] = tracker.ID
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), createdCount)
	for i := 1; i < callers; i++ {
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestGetOrCreateForumTracker(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)

	first, created, err := GetOrCreateForumTracker(user.ID, forum.ID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := GetOrCreateForumTracker(user.ID, forum.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

// 再次标记已读时，time_stamp 被顶到更晚的时间
func TestMarkTopicReadTouchesTimestamp(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "主题", "首帖")

	require.NoError(t, MarkTopicRead(user.ID, topic.ID))
	first, err := GetTopicTracker(user.ID, topic.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	time.Sleep(time.Millisecond * 10)
	require.NoError(t, MarkTopicRead(user.ID, topic.ID))

	second, err := GetTopicTracker(user.ID, topic.ID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.True(t, second.TimeStamp.After(first.TimeStamp))
}

func TestGetTopicTrackerMissing(t *testing.T) {
	setupTestDB(t)
	tracker, err := GetTopicTracker(42, 42)
	require.NoError(t, err)
	assert.Nil(t, tracker)
}
