package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"journal_server/internal/auth"
	"journal_server/internal/domain"
)

// DefaultAccount describes the ledger seeded for a user on first contact.
type DefaultAccount struct {
	Name     string
	Balance  float64
	Currency string
}

// IdentityService owns login, registration, profile edits, and account
// management. Authentication is deliberately a stub: any credentials resolve
// to a user record for the supplied email, with one seeded default account.
// An optional external profile provider enriches the fabricated record;
// when it is unreachable the stub proceeds with local data.
type IdentityService struct {
	userRepo    domain.UserRepository
	accountRepo domain.AccountRepository
	profiles    domain.ProfileProvider
	tokens      *auth.TokenIssuer
	seed        DefaultAccount
}

func NewIdentityService(
	userRepo domain.UserRepository,
	accountRepo domain.AccountRepository,
	tokens *auth.TokenIssuer,
	seed DefaultAccount,
	profiles domain.ProfileProvider,
) (*IdentityService, error) {
	if userRepo == nil {
		return nil, errors.New("user repository required")
	}
	if accountRepo == nil {
		return nil, errors.New("account repository required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer required")
	}
	if seed.Name == "" {
		seed.Name = "Main Trading Account"
	}
	if seed.Currency == "" {
		seed.Currency = "USD"
	}

	return &IdentityService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		profiles:    profiles,
		tokens:      tokens,
		seed:        seed,
	}, nil
}

// Register creates a user for the email and seeds the default account.
func (s *IdentityService) Register(ctx context.Context, email, password, name string) (domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, "", errors.New("email required")
	}

	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, "", domain.ErrUserExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", err
	}

	return s.createUser(ctx, email, password, name, "")
}

// Login resolves the email to a user. Unknown emails are fabricated on the
// spot, mirroring the stubbed provider the journal launched with; known
// users must present the password they first logged in with.
func (s *IdentityService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, "", errors.New("email required")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return s.createUser(ctx, email, password, "", "")
	}
	if err != nil {
		return domain.User{}, "", err
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", err
	}

	return user, token, nil
}

func (s *IdentityService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.userRepo.GetUser(ctx, userID)
}

// ListAccounts returns the user's accounts in creation order.
func (s *IdentityService) ListAccounts(ctx context.Context, userID string) ([]domain.TradingAccount, error) {
	return s.accountRepo.ListAccounts(ctx, userID)
}

// UpdateProfile merges the non-nil fields into the stored record.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error) {
	return s.userRepo.UpdateProfile(ctx, userID, update)
}

// AddAccount creates a ledger for the user. The first account a user owns
// becomes selected automatically.
func (s *IdentityService) AddAccount(ctx context.Context, userID, name string, balance float64, currency string) (domain.TradingAccount, error) {
	if name == "" {
		return domain.TradingAccount{}, errors.New("account name required")
	}
	if currency == "" {
		currency = s.seed.Currency
	}

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return domain.TradingAccount{}, err
	}

	account := domain.TradingAccount{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           name,
		Balance:        balance,
		InitialBalance: balance,
		Currency:       currency,
	}
	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		return domain.TradingAccount{}, err
	}

	if user.SelectedAccountID == "" {
		if err := s.userRepo.SetSelectedAccount(ctx, userID, account.ID); err != nil {
			return domain.TradingAccount{}, err
		}
	}

	return account, nil
}

// SelectAccount switches the user's current ledger. The target must belong
// to the user.
func (s *IdentityService) SelectAccount(ctx context.Context, userID, accountID string) (domain.User, error) {
	if _, err := s.accountRepo.GetAccount(ctx, userID, accountID); err != nil {
		return domain.User{}, err
	}
	if err := s.userRepo.SetSelectedAccount(ctx, userID, accountID); err != nil {
		return domain.User{}, err
	}
	return s.userRepo.GetUser(ctx, userID)
}

func (s *IdentityService) createUser(ctx context.Context, email, password, name, phone string) (domain.User, string, error) {
	if s.profiles != nil {
		profile, err := s.profiles.FetchProfile(ctx, email)
		if err == nil {
			if profile.Name != "" {
				name = profile.Name
			}
			if profile.PhoneNumber != "" {
				phone = profile.PhoneNumber
			}
		} else if !errors.Is(err, domain.ErrCollaboratorUnavailable) {
			return domain.User{}, "", err
		}
		// Unavailable collaborator: fall back to the local stub.
	}
	if name == "" {
		name = nameFromEmail(email)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PhoneNumber:  phone,
		PasswordHash: hash,
		JoinedAt:     time.Now().UTC(),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return domain.User{}, "", err
	}

	account := domain.TradingAccount{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Name:           s.seed.Name,
		Balance:        s.seed.Balance,
		InitialBalance: s.seed.Balance,
		Currency:       s.seed.Currency,
	}
	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		return domain.User{}, "", err
	}
	if err := s.userRepo.SetSelectedAccount(ctx, user.ID, account.ID); err != nil {
		return domain.User{}, "", err
	}

	created, err := s.userRepo.GetUser(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.tokens.Generate(created.ID, created.Email)
	if err != nil {
		return domain.User{}, "", err
	}

	return created, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nameFromEmail(email string) string {
	local := email
	if idx := strings.IndexRune(email, '@'); idx > 0 {
		local = email[:idx]
	}
	return local
}
