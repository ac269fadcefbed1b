package domain

import "time"

// DateLayout is the canonical date-only format for trade dates. Trades carry
// no time component; two trades on the same date always land in the same
// daily bucket.
const DateLayout = "2006-01-02"

type Position string

const (
	PositionLong  Position = "long"
	PositionShort Position = "short"
)

func (p Position) Valid() bool {
	return p == PositionLong || p == PositionShort
}

// TradingAccount is one ledger. Balance is mutated only through the journal
// service when a trade is added or its P&L is edited; InitialBalance is
// frozen at creation so the balance stays derivable from the trade history.
type TradingAccount struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Balance        float64   `json:"balance"`
	InitialBalance float64   `json:"initialBalance"`
	Currency       string    `json:"currency"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type User struct {
	ID                string           `json:"id"`
	Email             string           `json:"email"`
	Name              string           `json:"name"`
	PhoneNumber       string           `json:"phoneNumber"`
	PasswordHash      string           `json:"-"`
	SelectedAccountID string           `json:"selectedAccountId"`
	Accounts          []TradingAccount `json:"accounts"`
	JoinedAt          time.Time        `json:"joinedDate"`
	UpdatedAt         time.Time        `json:"-"`
}

// SelectedAccount returns the account referenced by SelectedAccountID, if any.
func (u User) SelectedAccount() (TradingAccount, bool) {
	for _, acc := range u.Accounts {
		if acc.ID == u.SelectedAccountID {
			return acc, true
		}
	}
	return TradingAccount{}, false
}

// Trade is one logged position. PnL is computed once at creation and is an
// independently editable field afterwards; editing it re-reconciles the
// owning account's balance by the difference.
type Trade struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	AccountID  string    `json:"accountId"`
	Date       string    `json:"date"`
	Pair       string    `json:"pair"`
	EntryPrice float64   `json:"entryPrice"`
	ExitPrice  float64   `json:"exitPrice"`
	Position   Position  `json:"position"`
	PnL        float64   `json:"pnl"`
	Notes      string    `json:"notes"`
	RawPayload []byte    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DailyPnL is a derived aggregate: the summed P&L of all trades on one
// calendar date for one account. It is recomputed from the trade collection
// on every read and never stored.
type DailyPnL struct {
	Date string  `json:"date"`
	PnL  float64 `json:"pnl"`
}

// Summary holds the dashboard statistics. DayCount counts distinct trading
// days, not individual trades.
type Summary struct {
	TotalPnL float64 `json:"totalPnl"`
	WinRate  float64 `json:"winRate"`
	DayCount int     `json:"dayCount"`
}

// CalendarDay is one cell of the month heat-map grid.
type CalendarDay struct {
	Date      string       `json:"date"`
	Day       int          `json:"day"`
	Weekday   time.Weekday `json:"weekday"`
	PnL       float64      `json:"pnl"`
	HasTrades bool         `json:"hasTrades"`
}

// BalancePoint is one point of the cumulative balance curve.
type BalancePoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// Profile is the record an external identity provider supplies for an email.
type Profile struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// BalanceDrift reports an account whose recorded balance disagrees with the
// balance derived by replaying its trade history.
type BalanceDrift struct {
	AccountID string  `json:"accountId"`
	UserID    string  `json:"userId"`
	Recorded  float64 `json:"recorded"`
	Derived   float64 `json:"derived"`
}
