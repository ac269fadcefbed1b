package repository

import (
	"time"

	"gorm.io/datatypes"

	"journal_server/internal/domain"
)

type UserModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	Email             string    `gorm:"column:email;uniqueIndex;not null"`
	Name              *string   `gorm:"column:name"`
	PhoneNumber       *string   `gorm:"column:phone_number"`
	PasswordHash      string    `gorm:"column:password_hash;not null"`
	SelectedAccountID *string   `gorm:"column:selected_account_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func toUserModel(user domain.User) UserModel {
	return UserModel{
		ID:                user.ID,
		Email:             user.Email,
		Name:              stringPointerOrNil(user.Name),
		PhoneNumber:       stringPointerOrNil(user.PhoneNumber),
		PasswordHash:      user.PasswordHash,
		SelectedAccountID: stringPointerOrNil(user.SelectedAccountID),
	}
}

func (m UserModel) toDomain() domain.User {
	return domain.User{
		ID:                m.ID,
		Email:             m.Email,
		Name:              stringValueOrEmpty(m.Name),
		PhoneNumber:       stringValueOrEmpty(m.PhoneNumber),
		PasswordHash:      m.PasswordHash,
		SelectedAccountID: stringValueOrEmpty(m.SelectedAccountID),
		JoinedAt:          m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

type AccountModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	UserID         string    `gorm:"column:user_id;index;not null"`
	Name           string    `gorm:"column:name;not null"`
	Balance        float64   `gorm:"column:balance"`
	InitialBalance float64   `gorm:"column:initial_balance"`
	Currency       string    `gorm:"column:currency;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (AccountModel) TableName() string {
	return "accounts"
}

func toAccountModel(account domain.TradingAccount) AccountModel {
	return AccountModel{
		ID:             account.ID,
		UserID:         account.UserID,
		Name:           account.Name,
		Balance:        account.Balance,
		InitialBalance: account.InitialBalance,
		Currency:       account.Currency,
	}
}

func (m AccountModel) toDomain() domain.TradingAccount {
	return domain.TradingAccount{
		ID:             m.ID,
		UserID:         m.UserID,
		Name:           m.Name,
		Balance:        m.Balance,
		InitialBalance: m.InitialBalance,
		Currency:       m.Currency,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type TradeModel struct {
	ID         string         `gorm:"column:id;primaryKey"`
	UserID     string         `gorm:"column:user_id;index;not null"`
	AccountID  string         `gorm:"column:account_id;index;not null"`
	TradeDate  string         `gorm:"column:trade_date;not null"`
	Pair       *string        `gorm:"column:pair"`
	EntryPrice float64        `gorm:"column:entry_price"`
	ExitPrice  float64        `gorm:"column:exit_price"`
	Position   string         `gorm:"column:position;not null"`
	PnL        float64        `gorm:"column:pnl"`
	Notes      *string        `gorm:"column:notes"`
	RawPayload datatypes.JSON `gorm:"column:raw_payload"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (TradeModel) TableName() string {
	return "trades"
}

func toTradeModel(trade domain.Trade) TradeModel {
	return TradeModel{
		ID:         trade.ID,
		UserID:     trade.UserID,
		AccountID:  trade.AccountID,
		TradeDate:  trade.Date,
		Pair:       stringPointerOrNil(trade.Pair),
		EntryPrice: trade.EntryPrice,
		ExitPrice:  trade.ExitPrice,
		Position:   string(trade.Position),
		PnL:        trade.PnL,
		Notes:      stringPointerOrNil(trade.Notes),
		RawPayload: jsonOrEmpty(trade.RawPayload),
	}
}

func (m TradeModel) toDomain() domain.Trade {
	return domain.Trade{
		ID:         m.ID,
		UserID:     m.UserID,
		AccountID:  m.AccountID,
		Date:       m.TradeDate,
		Pair:       stringValueOrEmpty(m.Pair),
		EntryPrice: m.EntryPrice,
		ExitPrice:  m.ExitPrice,
		Position:   domain.Position(m.Position),
		PnL:        m.PnL,
		Notes:      stringValueOrEmpty(m.Notes),
		RawPayload: copyJSON(m.RawPayload),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func stringPointerOrNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringValueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func jsonOrEmpty(data []byte) datatypes.JSON {
	if len(data) == 0 {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(append([]byte(nil), data...))
}

func copyJSON(data datatypes.JSON) []byte {
	if len(data) == 0 {
		return nil
	}
	cpy := make([]byte, len(data))
	copy(cpy, data)
	return cpy
}
