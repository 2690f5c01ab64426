package logic

import (
	"testing"

	"pybbm/dao/mysql"
	pybbm "pybbm/errors"
	"pybbm/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVotesPercent(t *testing.T) {
	assert.InDelta(t, 75.0, VotesPercent(3, 4), 0.001)
	assert.InDelta(t, 25.0, VotesPercent(1, 4), 0.001)
	assert.Zero(t, VotesPercent(0, 0)) // 没有任何投票时不做除法
}

func createPollTopic(t *testing.T, pollType int8, userID, forumID int64) (*models.Topic, []models.PollAnswer) {
	t.Helper()
	topic, err := CreateTopic(&models.ParamTopicCreate{
		ForumID:      forumID,
		Name:         "投票主题",
		Body:         "首帖",
		PollType:     pollType,
		PollQuestion: "选哪个",
		PollAnswers:  []string{"A", "B", "C"},
	}, userID, "127.0.0.1", false)
	require.NoError(t, err)
	answers, err := mysql.SelectPollAnswersByTopicID(nil, topic.ID)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	return topic, answers
}

func TestGetTopicPollPercentages(t *testing.T) {
	setupTestDB(t)
	forum := mustCreateForum(t)
	voters := make([]*models.User, 4)
	names := []string{"alice", "bob", "carol", "dave"}
	for i := range voters {
		voters[i] = mustCreateUser(t, names[i])
	}
	topic, answers := createPollTopic(t, models.PollTypeSingle, voters[0].ID, forum.ID)

	for i := 0; i < 3; i++ {
		require.NoError(t, CastPollVote(voters[i].ID, &models.ParamPollVote{
			TopicID:   topic.ID,
			AnswerIDs: []int64{answers[0].ID},
		}))
	}
	require.NoError(t, CastPollVote(voters[3].ID, &models.ParamPollVote{
		TopicID:   topic.ID,
		AnswerIDs: []int64{answers[1].ID},
	}))

	poll, err := GetTopicPoll(topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, poll.TotalVotes)
	assert.InDelta(t, 75.0, poll.Answers[0].VotesPercent, 0.001)
	assert.InDelta(t, 25.0, poll.Answers[1].VotesPercent, 0.001)
	assert.Zero(t, poll.Answers[2].VotesPercent)
}

func TestGetTopicPollNoVotes(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic, _ := createPollTopic(t, models.PollTypeSingle, user.ID, forum.ID)

	poll, err := GetTopicPoll(topic.ID)
	require.NoError(t, err)
	assert.Zero(t, poll.TotalVotes)
	for _, answer := range poll.Answers {
		assert.Zero(t, answer.Votes)
		assert.Zero(t, answer.VotesPercent)
	}
}

func TestGetTopicPollOnPlainTopic(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic := mustCreateTopic(t, forum.ID, user.ID, "普通主题", "首帖")

	_, err := GetTopicPoll(topic.ID)
	assert.True(t, errors.Is(err, pybbm.ErrNoPoll))
}

func TestCastPollVoteSingleRejectsMultipleAnswers(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic, answers := createPollTopic(t, models.PollTypeSingle, user.ID, forum.ID)

	err := CastPollVote(user.ID, &models.ParamPollVote{
		TopicID:   topic.ID,
		AnswerIDs: []int64{answers[0].ID, answers[1].ID},
	})
	assert.True(t, errors.Is(err, pybbm.ErrInvalidParam))
}

func TestCastPollVoteMultiple(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic, answers := createPollTopic(t, models.PollTypeMultiple, user.ID, forum.ID)

	require.NoError(t, CastPollVote(user.ID, &models.ParamPollVote{
		TopicID:   topic.ID,
		AnswerIDs: []int64{answers[0].ID, answers[2].ID},
	}))

	poll, err := GetTopicPoll(topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, poll.TotalVotes)
	assert.Equal(t, 1, poll.Answers[0].Votes)
	assert.Equal(t, 1, poll.Answers[2].Votes)
}

func TestCastPollVoteDuplicate(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic, answers := createPollTopic(t, models.PollTypeSingle, user.ID, forum.ID)

	param := &models.ParamPollVote{TopicID: topic.ID, AnswerIDs: []int64{answers[0].ID}}
	require.NoError(t, CastPollVote(user.ID, param))
	err := CastPollVote(user.ID, param)
	assert.True(t, errors.Is(err, pybbm.ErrAlreadyVoted))
}

// 选项必须属于被投票的主题
func TestCastPollVoteForeignAnswer(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic1, _ := createPollTopic(t, models.PollTypeSingle, user.ID, forum.ID)
	_, answers2 := createPollTopic(t, models.PollTypeSingle, user.ID, forum.ID)

	err := CastPollVote(user.ID, &models.ParamPollVote{
		TopicID:   topic1.ID,
		AnswerIDs: []int64{answers2[0].ID},
	})
	assert.True(t, errors.Is(err, pybbm.ErrNoSuchAnswer))
}

func TestCastPollVoteClosedTopic(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic, answers := createPollTopic(t, models.PollTypeSingle, user.ID, forum.ID)

	got, err := mysql.SelectTopicByID(nil, topic.ID)
	require.NoError(t, err)
	got.Closed = true
	require.NoError(t, SaveTopic(got))

	err = CastPollVote(user.ID, &models.ParamPollVote{
		TopicID:   topic.ID,
		AnswerIDs: []int64{answers[0].ID},
	})
	assert.True(t, errors.Is(err, pybbm.ErrTopicClosed))
}

func TestAddPollAnswer(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice")
	forum := mustCreateForum(t)
	topic, _ := createPollTopic(t, models.PollTypeSingle, user.ID, forum.ID)

	_, err := AddPollAnswer(topic.ID, "D")
	require.NoError(t, err)

	answers, err := mysql.SelectPollAnswersByTopicID(nil, topic.ID)
	require.NoError(t, err)
	assert.Len(t, answers, 4)
}
