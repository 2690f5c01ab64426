package logic

import (
	"pybbm/dao/mysql"
	pybbm "pybbm/errors"
	"pybbm/internal/utils"
	"pybbm/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// VotesPercent 计算选项得票占比，总票数为 0 时返回 0
func VotesPercent(votes, totalVotes int) float64 {
	if totalVotes > 0 {
		return float64(votes) / float64(totalVotes) * 100
	}
	return 0
}

// GetTopicPoll 查主题的投票详情（选项、票数、占比）
func GetTopicPoll(topicID int64) (*models.PollDTO, error) {
	topic, err := mysql.SelectTopicByID(nil, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrNoSuchTopic
		}
		return nil, errors.Wrap(err, "logic:GetTopicPoll: SelectTopicByID")
	}
	if topic.PollType == models.PollTypeNone { // 调用方必须先确认主题带投票
		return nil, pybbm.ErrNoPoll
	}

	answers, err := mysql.SelectPollAnswersByTopicID(nil, topicID)
	if err != nil {
		return nil, errors.Wrap(err, "logic:GetTopicPoll: SelectPollAnswersByTopicID")
	}
	totalVotes, err := mysql.SelectTopicVoteCount(nil, topicID)
	if err != nil {
		return nil, errors.Wrap(err, "logic:GetTopicPoll: SelectTopicVoteCount")
	}

	dto := &models.PollDTO{
		Question:   topic.PollQuestion,
		Type:       topic.PollType,
		TotalVotes: totalVotes,
		Answers:    make([]models.PollAnswerDTO, 0, len(answers)),
	}
	for i := range answers {
		votes, err := mysql.SelectAnswerVoteCount(nil, answers[i].ID)
		if err != nil {
			return nil, errors.Wrap(err, "logic:GetTopicPoll: SelectAnswerVoteCount")
		}
		dto.Answers = append(dto.Answers, models.PollAnswerDTO{
			AnswerID:     answers[i].ID,
			Text:         answers[i].Text,
			Votes:        votes,
			VotesPercent: VotesPercent(votes, totalVotes),
		})
	}
	return dto, nil
}

// CastPollVote 投票
// 单选主题只接受一个选项；(answer, user) 的唯一键挡住对同一选项的重复投票
func CastPollVote(userID int64, param *models.ParamPollVote) error {
	topic, err := mysql.SelectTopicByID(nil, param.TopicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pybbm.ErrNoSuchTopic
		}
		return errors.Wrap(err, "logic:CastPollVote: SelectTopicByID")
	}
	if topic.PollType == models.PollTypeNone {
		return pybbm.ErrNoPoll
	}
	if topic.Closed {
		return pybbm.ErrTopicClosed
	}
	if topic.PollType == models.PollTypeSingle && len(param.AnswerIDs) != 1 {
		return errors.Wrap(pybbm.ErrInvalidParam, "logic:CastPollVote: single-answer poll")
	}

	tx := mysql.GetDB().Begin()
	for _, answerID := range param.AnswerIDs {
		answer, err := mysql.SelectPollAnswerByID(tx, answerID)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pybbm.ErrNoSuchAnswer
			}
			return errors.Wrap(err, "logic:CastPollVote: SelectPollAnswerByID")
		}
		if answer.TopicID != topic.ID {
			tx.Rollback()
			return pybbm.ErrNoSuchAnswer
		}

		vote := &models.PollAnswerUser{PollAnswerID: answerID, UserID: userID}
		if err := mysql.CreatePollAnswerUser(tx, vote); err != nil {
			tx.Rollback()
			if mysql.IsDuplicateKeyErr(err) {
				return pybbm.ErrAlreadyVoted
			}
			return errors.Wrap(err, "logic:CastPollVote: CreatePollAnswerUser")
		}
	}
	return errors.Wrap(tx.Commit().Error, "logic:CastPollVote: Commit")
}

// AddPollAnswer 给已有主题补选项（管理操作）
func AddPollAnswer(topicID int64, text string) (*models.PollAnswer, error) {
	topic, err := mysql.SelectTopicByID(nil, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrNoSuchTopic
		}
		return nil, errors.Wrap(err, "logic:AddPollAnswer: SelectTopicByID")
	}
	if topic.PollType == models.PollTypeNone {
		return nil, pybbm.ErrNoPoll
	}
	answer := &models.PollAnswer{
		ID:      utils.GenSnowflakeID(),
		TopicID: topicID,
		Text:    text,
	}
	if err := mysql.CreatePollAnswer(nil, answer); err != nil {
		return nil, errors.Wrap(err, "logic:AddPollAnswer: CreatePollAnswer")
	}
	return answer, nil
}
