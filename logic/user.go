package logic

import (
	"pybbm/dao/mysql"
	pybbm "pybbm/errors"
	"pybbm/internal/utils"
	"pybbm/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateUser 创建用户并完成论坛侧引导：
// 默认 profile（autosubscribe 开）+ 基础发帖权限
func CreateUser(param *models.ParamUserCreate) (*models.User, error) {
	user := &models.User{
		ID:       utils.GenSnowflakeID(),
		UserName: param.Username,
		Email:    param.Email,
	}

	tx := mysql.GetDB().Begin()

	if err := mysql.InsertUser(tx, user); err != nil {
		tx.Rollback()
		if mysql.IsDuplicateKeyErr(err) {
			return nil, pybbm.ErrUserExist
		}
		return nil, errors.Wrap(err, "logic:CreateUser: InsertUser")
	}

	profile := &models.Profile{UserID: user.ID, Autosubscribe: true}
	if err := mysql.CreateProfile(tx, profile); err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "logic:CreateUser: CreateProfile")
	}

	for _, codename := range []string{models.PermCreatePost, models.PermCreateTopic} {
		if err := mysql.CreateUserPermission(tx, user.ID, codename); err != nil {
			tx.Rollback()
			return nil, errors.Wrap(err, "logic:CreateUser: CreateUserPermission")
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.Wrap(err, "logic:CreateUser: Commit")
	}
	return user, nil
}

func GetUserByID(userID int64) (*models.User, error) {
	user, err := mysql.SelectUserByUserID(nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pybbm.ErrUserNotExist
		}
		return nil, errors.Wrap(err, "logic:GetUserByID")
	}
	return user, nil
}

// HasPermission 用户是否持有某能力
func HasPermission(userID int64, codename string) (bool, error) {
	count, err := mysql.SelectUserPermissionCount(nil, userID, codename)
	if err != nil {
		return false, errors.Wrap(err, "logic:HasPermission")
	}
	return count > 0, nil
}
