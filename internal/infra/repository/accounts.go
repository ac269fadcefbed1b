package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"journal_server/internal/domain"
)

type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) (*GormAccountRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormAccountRepository{db: db}, nil
}

func (r *GormAccountRepository) CreateAccount(ctx context.Context, account domain.TradingAccount) error {
	model := toAccountModel(account)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *GormAccountRepository) GetAccount(ctx context.Context, userID, accountID string) (domain.TradingAccount, error) {
	var model AccountModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TradingAccount{}, domain.ErrAccountNotFound
		}
		return domain.TradingAccount{}, err
	}

	return model.toDomain(), nil
}

func (r *GormAccountRepository) ListAccounts(ctx context.Context, userID string) ([]domain.TradingAccount, error) {
	var models []AccountModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	accounts := make([]domain.TradingAccount, len(models))
	for i, model := range models {
		accounts[i] = model.toDomain()
	}

	return accounts, nil
}

func (r *GormAccountRepository) ListAllAccounts(ctx context.Context) ([]domain.TradingAccount, error) {
	var models []AccountModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	accounts := make([]domain.TradingAccount, len(models))
	for i, model := range models {
		accounts[i] = model.toDomain()
	}

	return accounts, nil
}
