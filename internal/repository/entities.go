package repository

import (
	"context"

	"gorm.io/gorm"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/query"
)

type (
	UserRepository       = Repository[model.User]
	StudentRepository    = Repository[model.Student]
	TeacherRepository    = Repository[model.Teacher]
	ModuleRepository     = Repository[model.Module]
	UnitRepository       = Repository[model.Unit]
	EvaluationRepository = Repository[model.Evaluation]
	AuthTokenRepository  = Repository[model.AuthToken]
)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return newRepository[model.User](db, UserDescriptor)
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return newRepository[model.Student](db, StudentDescriptor)
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return newRepository[model.Teacher](db, TeacherDescriptor)
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return newRepository[model.Module](db, ModuleDescriptor)
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return newRepository[model.Unit](db, UnitDescriptor)
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return newRepository[model.Evaluation](db, EvaluationDescriptor)
}

func NewAuthTokenRepository(db *gorm.DB) *AuthTokenRepository {
	return newRepository[model.AuthToken](db, AuthTokenDescriptor)
}

// EmailTaken 邮箱是否已被其他用户占用；exceptID 为 0 时检查所有用户
func EmailTaken(ctx context.Context, users *UserRepository, email string, exceptID uint) (bool, error) {
	existing, err := users.GetOne(ctx, query.Filters{"email": email})
	if err != nil {
		return false, err
	}
	return existing != nil && existing.ID != exceptID, nil
}

// DeleteUserCascade 删除用户及其档案，令牌由令牌存储负责；调用方负责开启事务
func DeleteUserCascade(ctx context.Context, tx *gorm.DB, userID uint) error {
	filters := query.Filters{"user_id": userID}
	if _, err := NewStudentRepository(tx).DeleteWhere(ctx, filters); err != nil {
		return err
	}
	if _, err := NewTeacherRepository(tx).DeleteWhere(ctx, filters); err != nil {
		return err
	}
	_, err := NewUserRepository(tx).Delete(ctx, userID)
	return err
}

// SaveProfile 更新用户的学生或教师档案；不存在时创建，名默认为用户名，姓默认为空
func SaveProfile[T any](ctx context.Context, profiles *Repository[T], user *model.User, firstName, lastName *string) (*T, error) {
	existing, err := profiles.GetOne(ctx, query.Filters{"user_id": user.ID})
	if err != nil {
		return nil, err
	}

	attrs := NameAttributes(firstName, lastName)
	if existing != nil {
		return profiles.Save(ctx, attrs, existing)
	}

	attrs["user_id"] = user.ID
	if firstName == nil {
		attrs["first_name"] = user.Name
	}
	if lastName == nil {
		attrs["last_name"] = ""
	}
	return profiles.Save(ctx, attrs, nil)
}

// NameAttributes 只包含提供了的姓名字段
func NameAttributes(firstName, lastName *string) Attributes {
	attrs := Attributes{}
	if firstName != nil {
		attrs["first_name"] = *firstName
	}
	if lastName != nil {
		attrs["last_name"] = *lastName
	}
	return attrs
}
