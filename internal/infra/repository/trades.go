package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"journal_server/internal/domain"
)

type GormTradeRepository struct {
	db *gorm.DB
}

func NewGormTradeRepository(db *gorm.DB) (*GormTradeRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormTradeRepository{db: db}, nil
}

// AddTradeAndReconcile inserts the trade and applies its P&L to the owning
// account inside one transaction, so the trade is never visible without its
// balance contribution.
func (r *GormTradeRepository) AddTradeAndReconcile(ctx context.Context, trade domain.Trade) (domain.TradingAccount, error) {
	var accountModel AccountModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := toTradeModel(trade)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		result := tx.Model(&AccountModel{}).
			Where("id = ? AND user_id = ?", trade.AccountID, trade.UserID).
			Update("balance", gorm.Expr("balance + ?", trade.PnL))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}

		return tx.Where("id = ?", trade.AccountID).First(&accountModel).Error
	})
	if err != nil {
		return domain.TradingAccount{}, err
	}

	return accountModel.toDomain(), nil
}

// UpdateTradePnL replaces the trade's P&L and moves the account balance by
// the difference between the new and old values. Repeating the edit with the
// same value leaves the balance untouched.
func (r *GormTradeRepository) UpdateTradePnL(ctx context.Context, userID, tradeID string, newPnL float64) (domain.Trade, domain.TradingAccount, error) {
	var tradeModel TradeModel
	var accountModel AccountModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", tradeID, userID).
			First(&tradeModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTradeNotFound
			}
			return err
		}

		delta := newPnL - tradeModel.PnL

		if err := tx.Model(&TradeModel{}).
			Where("id = ?", tradeID).
			Update("pnl", newPnL).Error; err != nil {
			return err
		}
		tradeModel.PnL = newPnL

		result := tx.Model(&AccountModel{}).
			Where("id = ? AND user_id = ?", tradeModel.AccountID, userID).
			Update("balance", gorm.Expr("balance + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}

		return tx.Where("id = ?", tradeModel.AccountID).First(&accountModel).Error
	})
	if err != nil {
		return domain.Trade{}, domain.TradingAccount{}, err
	}

	return tradeModel.toDomain(), accountModel.toDomain(), nil
}

func (r *GormTradeRepository) GetTrade(ctx context.Context, userID, tradeID string) (domain.Trade, error) {
	var model TradeModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tradeID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Trade{}, domain.ErrTradeNotFound
		}
		return domain.Trade{}, err
	}

	return model.toDomain(), nil
}

func (r *GormTradeRepository) ListTrades(ctx context.Context, userID, accountID string, limit int) ([]domain.Trade, error) {
	var models []TradeModel
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Order("trade_date ASC, created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	trades := make([]domain.Trade, len(models))
	for i, model := range models {
		trades[i] = model.toDomain()
	}

	return trades, nil
}

func (r *GormTradeRepository) SumPnL(ctx context.Context, accountID string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&TradeModel{}).
		Where("account_id = ?", accountID).
		Select("COALESCE(SUM(pnl), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
