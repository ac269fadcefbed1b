package domain

import "context"

// ProfileUpdate carries a partial profile edit; nil fields are left as-is.
type ProfileUpdate struct {
	Name        *string
	PhoneNumber *string
}

type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error)
	SetSelectedAccount(ctx context.Context, userID, accountID string) error
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, account TradingAccount) error
	GetAccount(ctx context.Context, userID, accountID string) (TradingAccount, error)
	ListAccounts(ctx context.Context, userID string) ([]TradingAccount, error)
	ListAllAccounts(ctx context.Context) ([]TradingAccount, error)
}

type TradeRepository interface {
	// AddTradeAndReconcile inserts the trade and adds its P&L to the owning
	// account's balance as a single unit; no partial state is visible.
	AddTradeAndReconcile(ctx context.Context, trade Trade) (TradingAccount, error)

	// UpdateTradePnL replaces the trade's P&L and applies the difference to
	// the owning account's balance as a single unit.
	UpdateTradePnL(ctx context.Context, userID, tradeID string, newPnL float64) (Trade, TradingAccount, error)

	GetTrade(ctx context.Context, userID, tradeID string) (Trade, error)
	ListTrades(ctx context.Context, userID, accountID string, limit int) ([]Trade, error)
	SumPnL(ctx context.Context, accountID string) (float64, error)
}

// ProfileProvider abstracts an external identity collaborator that can
// resolve an email to a profile. Failures surface as
// ErrCollaboratorUnavailable and leave prior state untouched.
type ProfileProvider interface {
	FetchProfile(ctx context.Context, email string) (Profile, error)
}
