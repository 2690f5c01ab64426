package mysql

import (
	"pybbm/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func InsertUser(tx *gorm.DB, usr *models.User) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&usr)
	return errors.Wrap(res.Error, "mysql:InsertUser")
}

func SelectUserByUserID(tx *gorm.DB, userID int64) (usr *models.User, err error) {
	useDB := getUseDB(tx)
	res := useDB.First(&usr, "id = ?", userID)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectUserByUserID")
	}
	return usr, nil
}

func CreateProfile(tx *gorm.DB, profile *models.Profile) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&profile)
	return errors.Wrap(res.Error, "mysql:CreateProfile")
}

func SelectProfileByUserID(tx *gorm.DB, userID int64) (*models.Profile, error) {
	useDB := getUseDB(tx)
	profile := new(models.Profile)
	res := useDB.First(profile, "user_id = ?", userID)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "mysql:SelectProfileByUserID")
	}
	return profile, nil
}

func UpdateProfilePostCount(tx *gorm.DB, userID int64, postCount int) error {
	useDB := getUseDB(tx)
	res := useDB.Model(&models.Profile{}).Where("user_id = ?", userID).Update("post_count", postCount)
	return errors.Wrap(res.Error, "mysql:UpdateProfilePostCount")
}

func CreateUserPermission(tx *gorm.DB, userID int64, codename string) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&models.UserPermission{UserID: userID, Codename: codename})
	return errors.Wrap(res.Error, "mysql:CreateUserPermission")
}

func SelectUserPermissionCount(tx *gorm.DB, userID int64, codename string) (int, error) {
	useDB := getUseDB(tx)
	var count int
	res := useDB.Model(&models.UserPermission{}).Select("count(*)").
		Where("user_id = ? AND codename = ?", userID, codename).Scan(&count)
	return count, errors.Wrap(res.Error, "mysql:SelectUserPermissionCount")
}

func CreateTopicSubscription(tx *gorm.DB, topicID, userID int64) error {
	useDB := getUseDB(tx)
	res := useDB.Create(&models.TopicSubscription{TopicID: topicID, UserID: userID})
	if res.Error != nil && !IsDuplicateKeyErr(res.Error) { // 重复订阅不算错误
		return errors.Wrap(res.Error, "mysql:CreateTopicSubscription")
	}
	return nil
}

func SelectTopicSubscriberIDs(tx *gorm.DB, topicID int64) ([]int64, error) {
	useDB := getUseDB(tx)
	userIDs := make([]int64, 0)
	res := useDB.Model(&models.TopicSubscription{}).Select("user_id").Where("topic_id = ?", topicID).Scan(&userIDs)
	return userIDs, errors.Wrap(res.Error, "mysql:SelectTopicSubscriberIDs")
}
