package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"journal_server/internal/domain"
)

// JournalService is the trade accounting engine: it computes P&L at entry,
// keeps account balances reconciled with the trade history, and derives the
// daily series, summary statistics, calendar grid, and balance curve that
// the journal views render.
type JournalService struct {
	tradeRepo   domain.TradeRepository
	accountRepo domain.AccountRepository
	userRepo    domain.UserRepository
}

func NewJournalService(tradeRepo domain.TradeRepository, accountRepo domain.AccountRepository, userRepo domain.UserRepository) (*JournalService, error) {
	if tradeRepo == nil {
		return nil, errors.New("trade repository required")
	}
	if accountRepo == nil {
		return nil, errors.New("account repository required")
	}
	if userRepo == nil {
		return nil, errors.New("user repository required")
	}
	return &JournalService{
		tradeRepo:   tradeRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}, nil
}

// TradeInput carries one journal entry. When Magnitude is set the engine
// applies the direction-derived sign to it; otherwise the P&L is the plain
// price delta. The two derivations are reachable from different forms and
// stay distinct.
type TradeInput struct {
	AccountID  string
	Date       string
	Pair       string
	EntryPrice float64
	ExitPrice  float64
	Position   domain.Position
	Magnitude  *float64
	Notes      string
	RawPayload []byte
}

// AddTrade validates the entry, computes its P&L, assigns an identifier, and
// commits the trade together with the balance adjustment.
func (s *JournalService) AddTrade(ctx context.Context, userID string, input TradeInput) (domain.Trade, domain.TradingAccount, error) {
	if !input.Position.Valid() {
		return domain.Trade{}, domain.TradingAccount{}, fmt.Errorf("invalid position %q", input.Position)
	}
	if input.EntryPrice <= 0 || input.ExitPrice <= 0 {
		return domain.Trade{}, domain.TradingAccount{}, errors.New("entry and exit prices must be positive")
	}

	date, err := normalizeDate(input.Date)
	if err != nil {
		return domain.Trade{}, domain.TradingAccount{}, err
	}

	accountID, err := s.resolveAccount(ctx, userID, input.AccountID)
	if err != nil {
		return domain.Trade{}, domain.TradingAccount{}, err
	}

	var pnl float64
	if input.Magnitude != nil {
		pnl = domain.SignedPnL(input.EntryPrice, input.ExitPrice, *input.Magnitude, input.Position)
	} else {
		pnl = domain.DeltaPnL(input.EntryPrice, input.ExitPrice, input.Position)
	}

	trade := domain.Trade{
		ID:         uuid.NewString(),
		UserID:     userID,
		AccountID:  accountID,
		Date:       date,
		Pair:       input.Pair,
		EntryPrice: input.EntryPrice,
		ExitPrice:  input.ExitPrice,
		Position:   input.Position,
		PnL:        pnl,
		Notes:      input.Notes,
		RawPayload: input.RawPayload,
	}

	account, err := s.tradeRepo.AddTradeAndReconcile(ctx, trade)
	if err != nil {
		return domain.Trade{}, domain.TradingAccount{}, err
	}

	return trade, account, nil
}

// EditTradePnL replaces a trade's P&L and re-reconciles the owning account
// by the difference. The final balance depends only on the last value
// written, however many edits happen in between.
func (s *JournalService) EditTradePnL(ctx context.Context, userID, tradeID string, newPnL float64) (domain.Trade, domain.TradingAccount, error) {
	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return domain.Trade{}, domain.TradingAccount{}, err
	}
	if user.SelectedAccountID == "" {
		return domain.Trade{}, domain.TradingAccount{}, domain.ErrNoAccountSelected
	}

	return s.tradeRepo.UpdateTradePnL(ctx, userID, tradeID, newPnL)
}

// GetTrade returns one of the user's trades by id.
func (s *JournalService) GetTrade(ctx context.Context, userID, tradeID string) (domain.Trade, error) {
	return s.tradeRepo.GetTrade(ctx, userID, tradeID)
}

// ListTrades returns the trades of the user's selected account in date order.
func (s *JournalService) ListTrades(ctx context.Context, userID string, limit int) ([]domain.Trade, error) {
	if limit <= 0 {
		limit = 500
	}

	accountID, err := s.resolveAccount(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	return s.tradeRepo.ListTrades(ctx, userID, accountID, limit)
}

// DailySeries aggregates the selected account's trades into per-date P&L
// buckets, sorted by date ascending.
func (s *JournalService) DailySeries(ctx context.Context, userID string) ([]domain.DailyPnL, error) {
	trades, err := s.ListTrades(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return domain.SortDaily(domain.AggregateDaily(trades)), nil
}

// Summarize derives the dashboard statistics from the daily series.
func (s *JournalService) Summarize(ctx context.Context, userID string) (domain.Summary, error) {
	series, err := s.DailySeries(ctx, userID)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(series), nil
}

// CalendarMonth builds the heat-map grid for one month of the selected
// account's daily series.
func (s *JournalService) CalendarMonth(ctx context.Context, userID string, year int, month time.Month) ([]domain.CalendarDay, error) {
	series, err := s.DailySeries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.MonthGrid(year, month, series), nil
}

// BalanceCurve folds the daily series into the running balance, starting
// from the selected account's initial balance.
func (s *JournalService) BalanceCurve(ctx context.Context, userID string) ([]domain.BalancePoint, error) {
	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	account, ok := user.SelectedAccount()
	if !ok {
		return nil, domain.ErrNoAccountSelected
	}

	trades, err := s.tradeRepo.ListTrades(ctx, userID, account.ID, 0)
	if err != nil {
		return nil, err
	}

	series := domain.SortDaily(domain.AggregateDaily(trades))
	return domain.BalanceCurve(series, account.InitialBalance), nil
}

// AuditBalances recomputes every account's balance from its initial balance
// plus the summed trade P&L and reports the accounts that drifted. A clean
// ledger returns an empty slice.
func (s *JournalService) AuditBalances(ctx context.Context) ([]domain.BalanceDrift, error) {
	accounts, err := s.accountRepo.ListAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []domain.BalanceDrift
	for _, account := range accounts {
		sum, err := s.tradeRepo.SumPnL(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		derived := account.InitialBalance + sum
		if math.Abs(derived-account.Balance) > 1e-6 {
			drifts = append(drifts, domain.BalanceDrift{
				AccountID: account.ID,
				UserID:    account.UserID,
				Recorded:  account.Balance,
				Derived:   derived,
			})
		}
	}

	return drifts, nil
}

// resolveAccount picks the explicit account when given, otherwise the user's
// selected account. Explicit references are checked for ownership; the
// selected account is owned by construction.
func (s *JournalService) resolveAccount(ctx context.Context, userID, accountID string) (string, error) {
	if accountID != "" {
		if _, err := s.accountRepo.GetAccount(ctx, userID, accountID); err != nil {
			return "", err
		}
		return accountID, nil
	}

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	account, ok := user.SelectedAccount()
	if !ok {
		return "", domain.ErrNoAccountSelected
	}
	return account.ID, nil
}

func normalizeDate(date string) (string, error) {
	if date == "" {
		return time.Now().UTC().Format(domain.DateLayout), nil
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return "", fmt.Errorf("invalid date %q: expected %s", date, domain.DateLayout)
	}
	return date, nil
}
