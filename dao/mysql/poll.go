package mysql

import (
	"pybbm/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func CreatePollAnswer(tx *gorm.DB, answer *models.PollAnswer) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&answer)
	return errors.Wrap(res.Error, "mysql:CreatePollAnswer")
}

func SelectPollAnswerByID(tx *gorm.DB, answerID int64) (*models.PollAnswer, error) {
	useDB := getUseDB(tx)
	answer := new(models.PollAnswer)
	res := useDB.First(answer, "id = ?", answerID)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectPollAnswerByID")
	}
	return answer, nil
}

func SelectPollAnswersByTopicID(tx *gorm.DB, topicID int64) ([]models.PollAnswer, error) {
	useDB := getUseDB(tx)
	answers := make([]models.PollAnswer, 0)
	res := useDB.Where("topic_id = ?", topicID).Order("id").Find(&answers)
	return answers, errors.Wrap(res.Error, "mysql:SelectPollAnswersByTopicID")
}

func CreatePollAnswerUser(tx *gorm.DB, vote *models.PollAnswerUser) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&vote)
	return errors.Wrap(res.Error, "mysql:CreatePollAnswerUser")
}

func SelectAnswerVoteCount(tx *gorm.DB, answerID int64) (int, error) {
	useDB := getUseDB(tx)
	var count int
	res := useDB.Model(&models.PollAnswerUser{}).Select("count(*)").Where("poll_answer_id = ?", answerID).Scan(&count)
	return count, errors.Wrap(res.Error, "mysql:SelectAnswerVoteCount")
}

// 主题下所有选项的票数之和
func SelectTopicVoteCount(tx *gorm.DB, topicID int64) (int, error) {
	useDB := getUseDB(tx)
	var count int
	res := useDB.Raw(`SELECT count(*) FROM poll_answer_users u
		JOIN poll_answers a ON u.poll_answer_id = a.id WHERE a.topic_id = ?`, topicID).Scan(&count)
	return count, errors.Wrap(res.Error, "mysql:SelectTopicVoteCount")
}

func DeletePollAnswerUsersByTopicID(tx *gorm.DB, topicID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Exec(`DELETE FROM poll_answer_users WHERE poll_answer_id IN
		(SELECT id FROM poll_answers WHERE topic_id = ?)`, topicID)
	return errors.Wrap(res.Error, "mysql:DeletePollAnswerUsersByTopicID")
}

func DeletePollAnswersByTopicID(tx *gorm.DB, topicID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Delete(&models.PollAnswer{}, "topic_id = ?", topicID)
	return errors.Wrap(res.Error, "mysql:DeletePollAnswersByTopicID")
}
