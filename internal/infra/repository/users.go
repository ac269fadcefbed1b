package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"journal_server/internal/domain"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) (*GormUserRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormUserRepository{db: db}, nil
}

func (r *GormUserRepository) CreateUser(ctx context.Context, user domain.User) error {
	model := toUserModel(user)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *GormUserRepository) GetUser(ctx context.Context, userID string) (domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}

	return r.withAccounts(ctx, model)
}

func (r *GormUserRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}

	return r.withAccounts(ctx, model)
}

func (r *GormUserRepository) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error) {
	assignments := map[string]interface{}{}
	if update.Name != nil {
		assignments["name"] = stringPointerOrNil(*update.Name)
	}
	if update.PhoneNumber != nil {
		assignments["phone_number"] = stringPointerOrNil(*update.PhoneNumber)
	}

	if len(assignments) > 0 {
		result := r.db.WithContext(ctx).
			Model(&UserModel{}).
			Where("id = ?", userID).
			Updates(assignments)
		if result.Error != nil {
			return domain.User{}, result.Error
		}
		if result.RowsAffected == 0 {
			return domain.User{}, domain.ErrUserNotFound
		}
	}

	return r.GetUser(ctx, userID)
}

func (r *GormUserRepository) SetSelectedAccount(ctx context.Context, userID, accountID string) error {
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", userID).
		Update("selected_account_id", stringPointerOrNil(accountID))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) withAccounts(ctx context.Context, model UserModel) (domain.User, error) {
	var accountModels []AccountModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", model.ID).
		Order("created_at ASC").
		Find(&accountModels).Error; err != nil {
		return domain.User{}, err
	}

	user := model.toDomain()
	user.Accounts = make([]domain.TradingAccount, len(accountModels))
	for i, accountModel := range accountModels {
		user.Accounts[i] = accountModel.toDomain()
	}

	return user, nil
}
