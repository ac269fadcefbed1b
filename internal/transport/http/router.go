package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"journal_server/internal/auth"
	"journal_server/internal/domain"
	"journal_server/internal/usecase"
)

type IdentityService interface {
	Register(ctx context.Context, email, password, name string) (domain.User, string, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.TradingAccount, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error)
	AddAccount(ctx context.Context, userID, name string, balance float64, currency string) (domain.TradingAccount, error)
	SelectAccount(ctx context.Context, userID, accountID string) (domain.User, error)
}

type JournalService interface {
	AddTrade(ctx context.Context, userID string, input usecase.TradeInput) (domain.Trade, domain.TradingAccount, error)
	EditTradePnL(ctx context.Context, userID, tradeID string, newPnL float64) (domain.Trade, domain.TradingAccount, error)
	GetTrade(ctx context.Context, userID, tradeID string) (domain.Trade, error)
	ListTrades(ctx context.Context, userID string, limit int) ([]domain.Trade, error)
	DailySeries(ctx context.Context, userID string) ([]domain.DailyPnL, error)
	Summarize(ctx context.Context, userID string) (domain.Summary, error)
	CalendarMonth(ctx context.Context, userID string, year int, month time.Month) ([]domain.CalendarDay, error)
	BalanceCurve(ctx context.Context, userID string) ([]domain.BalancePoint, error)
}

type Router struct {
	app      *fiber.App
	identity IdentityService
	journal  JournalService
}

func New(identity IdentityService, journal JournalService, tokens *auth.TokenIssuer) *Router {
	app := fiber.New()

	r := &Router{
		app:      app,
		identity: identity,
		journal:  journal,
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Post("/auth/register", r.register)
	v1.Post("/auth/login", r.login)

	authed := v1.Group("", protected(tokens))
	authed.Get("/me", r.getProfile)
	authed.Patch("/me", r.updateProfile)
	authed.Post("/accounts", r.addAccount)
	authed.Get("/accounts", r.listAccounts)
	authed.Put("/accounts/selected", r.selectAccount)
	authed.Post("/trades", r.addTrade)
	authed.Get("/trades", r.listTrades)
	authed.Get("/trades/:trade_id", r.getTrade)
	authed.Patch("/trades/:trade_id/pnl", r.editTradePnL)
	authed.Get("/daily", r.dailySeries)
	authed.Get("/summary", r.summary)
	authed.Get("/calendar/:year/:month", r.calendarMonth)
	authed.Get("/balance-curve", r.balanceCurve)

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return r
}

func (r *Router) App() *fiber.App {
	return r.app
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// mapDomainError translates the engine's recoverable errors to HTTP status
// codes; anything unrecognized is a 500.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoAccountSelected):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUserExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTradeNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrCollaboratorUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type ProfileUpdateRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
}

type AccountRequest struct {
	Name     string  `json:"name"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

type SelectAccountRequest struct {
	AccountID string `json:"accountId"`
}

type TradeRequest struct {
	AccountID  string   `json:"accountId"`
	Date       string   `json:"date"`
	Pair       string   `json:"pair"`
	EntryPrice float64  `json:"entryPrice"`
	ExitPrice  float64  `json:"exitPrice"`
	Position   string   `json:"position"`
	Magnitude  *float64 `json:"magnitude,omitempty"`
	Notes      string   `json:"notes"`
}

type PnLRequest struct {
	PnL float64 `json:"pnl"`
}

type TradeResponse struct {
	Trade   domain.Trade          `json:"trade"`
	Account domain.TradingAccount `json:"account"`
}

// register godoc
// @Summary Register a user and seed the default trading account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (r *Router) register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	user, token, err := r.identity.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return mapDomainError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, User: user})
}

// login godoc
// @Summary Log in, fabricating a user for unknown emails
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (r *Router) login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	user, token, err := r.identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(AuthResponse{Token: token, User: user})
}

// getProfile godoc
// @Summary Return the caller's profile with owned accounts
// @Tags profile
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} map[string]string
// @Router /me [get]
func (r *Router) getProfile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	user, err := r.identity.GetUser(ctx, currentUserID(c))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(user)
}

// updateProfile godoc
// @Summary Partially update the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body ProfileUpdateRequest true "Fields to merge"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /me [patch]
func (r *Router) updateProfile(c *fiber.Ctx) error {
	var req ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	user, err := r.identity.UpdateProfile(ctx, currentUserID(c), domain.ProfileUpdate{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(user)
}

// addAccount godoc
// @Summary Create a trading account for the caller
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body AccountRequest true "Account payload"
// @Success 201 {object} domain.TradingAccount
// @Failure 400 {object} map[string]string
// @Router /accounts [post]
func (r *Router) addAccount(c *fiber.Ctx) error {
	var req AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "account name required")
	}
	if req.Balance < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "balance must be non-negative")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	account, err := r.identity.AddAccount(ctx, currentUserID(c), req.Name, req.Balance, req.Currency)
	if err != nil {
		return mapDomainError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

// listAccounts godoc
// @Summary List the caller's trading accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} domain.TradingAccount
// @Router /accounts [get]
func (r *Router) listAccounts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	accounts, err := r.identity.ListAccounts(ctx, currentUserID(c))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(accounts)
}

// selectAccount godoc
// @Summary Switch the caller's selected trading account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body SelectAccountRequest true "Account to select"
// @Success 200 {object} domain.User
// @Failure 404 {object} map[string]string
// @Router /accounts/selected [put]
func (r *Router) selectAccount(c *fiber.Ctx) error {
	var req SelectAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.AccountID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "accountId required")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	user, err := r.identity.SelectAccount(ctx, currentUserID(c), req.AccountID)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(user)
}

// addTrade godoc
// @Summary Log a trade and reconcile the account balance
// @Tags trades
// @Accept json
// @Produce json
// @Param request body TradeRequest true "Trade payload; magnitude selects the sign-derivation rule"
// @Success 201 {object} TradeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /trades [post]
func (r *Router) addTrade(c *fiber.Ctx) error {
	var req TradeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	raw := append([]byte(nil), c.Body()...)

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	trade, account, err := r.journal.AddTrade(ctx, currentUserID(c), usecase.TradeInput{
		AccountID:  req.AccountID,
		Date:       req.Date,
		Pair:       req.Pair,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Position:   domain.Position(req.Position),
		Magnitude:  req.Magnitude,
		Notes:      req.Notes,
		RawPayload: raw,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoAccountSelected) ||
			errors.Is(err, domain.ErrAccountNotFound) ||
			errors.Is(err, domain.ErrUserNotFound) {
			return mapDomainError(err)
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(TradeResponse{Trade: trade, Account: account})
}

// listTrades godoc
// @Summary List the selected account's trades in date order
// @Tags trades
// @Produce json
// @Param limit query int false "Maximum number of trades"
// @Success 200 {array} domain.Trade
// @Failure 409 {object} map[string]string
// @Router /trades [get]
func (r *Router) listTrades(c *fiber.Ctx) error {
	limit := 500
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	trades, err := r.journal.ListTrades(ctx, currentUserID(c), limit)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(trades)
}

// getTrade godoc
// @Summary Fetch one of the caller's trades
// @Tags trades
// @Produce json
// @Param trade_id path string true "Trade ID"
// @Success 200 {object} domain.Trade
// @Failure 404 {object} map[string]string
// @Router /trades/{trade_id} [get]
func (r *Router) getTrade(c *fiber.Ctx) error {
	tradeID := c.Params("trade_id")
	if tradeID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "trade_id required")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	trade, err := r.journal.GetTrade(ctx, currentUserID(c), tradeID)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(trade)
}

// editTradePnL godoc
// @Summary Edit a trade's P&L and re-reconcile the account balance
// @Tags trades
// @Accept json
// @Produce json
// @Param trade_id path string true "Trade ID"
// @Param request body PnLRequest true "New P&L value"
// @Success 200 {object} TradeResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /trades/{trade_id}/pnl [patch]
func (r *Router) editTradePnL(c *fiber.Ctx) error {
	tradeID := c.Params("trade_id")
	if tradeID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "trade_id required")
	}

	var req PnLRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	trade, account, err := r.journal.EditTradePnL(ctx, currentUserID(c), tradeID, req.PnL)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(TradeResponse{Trade: trade, Account: account})
}

// dailySeries godoc
// @Summary Aggregate the selected account's trades into daily P&L buckets
// @Tags analytics
// @Produce json
// @Success 200 {array} domain.DailyPnL
// @Failure 409 {object} map[string]string
// @Router /daily [get]
func (r *Router) dailySeries(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	series, err := r.journal.DailySeries(ctx, currentUserID(c))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(series)
}

// summary godoc
// @Summary Dashboard statistics for the selected account
// @Tags analytics
// @Produce json
// @Success 200 {object} domain.Summary
// @Failure 409 {object} map[string]string
// @Router /summary [get]
func (r *Router) summary(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	summary, err := r.journal.Summarize(ctx, currentUserID(c))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(summary)
}

// calendarMonth godoc
// @Summary Month heat-map grid of daily P&L
// @Tags analytics
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {array} domain.CalendarDay
// @Failure 400 {object} map[string]string
// @Router /calendar/{year}/{month} [get]
func (r *Router) calendarMonth(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 1970 || year > 9999 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid year")
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil || month < 1 || month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid month")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	grid, err := r.journal.CalendarMonth(ctx, currentUserID(c), year, time.Month(month))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(grid)
}

// balanceCurve godoc
// @Summary Cumulative balance curve for the selected account
// @Tags analytics
// @Produce json
// @Success 200 {array} domain.BalancePoint
// @Failure 409 {object} map[string]string
// @Router /balance-curve [get]
func (r *Router) balanceCurve(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	points, err := r.journal.BalanceCurve(ctx, currentUserID(c))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(points)
}
