package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"journal_server/internal/domain"
)

// stubProfileProvider returns a fixed profile or error for every email.
type stubProfileProvider struct {
	profile domain.Profile
	err     error
}

func (p stubProfileProvider) FetchProfile(_ context.Context, _ string) (domain.Profile, error) {
	if p.err != nil {
		return domain.Profile{}, p.err
	}
	return p.profile, nil
}

func (e *testEnv) identityWithProvider(t *testing.T, provider domain.ProfileProvider) *IdentityService {
	t.Helper()

	identity, err := NewIdentityService(e.users, e.accounts, e.tokens, DefaultAccount{
		Name:     "Main Trading Account",
		Balance:  10000,
		Currency: "USD",
	}, provider)
	if err != nil {
		t.Fatalf("identity service: %v", err)
	}
	return identity
}

func TestRegisterSeedsDefaultAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.identity.Register(ctx, "New.Trader@Example.com", "hunter2", "New Trader")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.Email != "new.trader@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", user.Email)
	}
	if user.Name != "New Trader" {
		t.Fatalf("name = %q, want New Trader", user.Name)
	}
	if len(user.Accounts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(user.Accounts))
	}

	account := user.Accounts[0]
	if user.SelectedAccountID != account.ID {
		t.Fatalf("selected = %q, want seeded account %q", user.SelectedAccountID, account.ID)
	}
	if selected, ok := user.SelectedAccount(); !ok || selected.ID != account.ID {
		t.Fatalf("SelectedAccount = %+v/%v, want seeded account", selected, ok)
	}
	if account.Balance != 10000 || account.InitialBalance != 10000 {
		t.Fatalf("seeded balances = %v/%v, want 10000/10000", account.Balance, account.InitialBalance)
	}
	if account.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", account.Currency)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := env.identity.Register(ctx, "dup@example.com", "hunter2", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, err := env.identity.Register(ctx, "dup@example.com", "other", "")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}

func TestLoginFabricatesUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.identity.Login(ctx, "first.time@example.com", "whatever")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.Name != "first.time" {
		t.Fatalf("name = %q, want local part of email", user.Name)
	}
	if user.SelectedAccountID == "" || len(user.Accounts) != 1 {
		t.Fatalf("fabricated user missing seeded account: %+v", user)
	}

	// The same credentials log in again as the same user.
	again, _, err := env.identity.Login(ctx, "first.time@example.com", "whatever")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("second login user = %q, want %q", again.ID, user.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := env.identity.Register(ctx, "secure@example.com", "correct-horse", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, err := env.identity.Login(ctx, "secure@example.com", "battery-staple")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterFallsBackWhenProviderUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	identity := env.identityWithProvider(t, stubProfileProvider{
		err: fmt.Errorf("%w: connection refused", domain.ErrCollaboratorUnavailable),
	})

	user, token, err := identity.Register(ctx, "offline@example.com", "hunter2", "")
	if err != nil {
		t.Fatalf("register with unreachable provider: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.Name != "offline" {
		t.Fatalf("name = %q, want local part fallback", user.Name)
	}
	if user.SelectedAccountID == "" || len(user.Accounts) != 1 {
		t.Fatalf("fallback user missing seeded account: %+v", user)
	}
}

func TestLoginFallsBackWhenProviderUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	identity := env.identityWithProvider(t, stubProfileProvider{
		err: fmt.Errorf("%w: provider responded with status 503", domain.ErrCollaboratorUnavailable),
	})

	user, _, err := identity.Login(ctx, "down.stream@example.com", "whatever")
	if err != nil {
		t.Fatalf("login with unreachable provider: %v", err)
	}
	if user.Name != "down.stream" {
		t.Fatalf("name = %q, want local part fallback", user.Name)
	}
	if len(user.Accounts) != 1 || user.Accounts[0].Balance != 10000 {
		t.Fatalf("fallback user missing seeded account: %+v", user)
	}
}

func TestRegisterAppliesProviderProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	identity := env.identityWithProvider(t, stubProfileProvider{
		profile: domain.Profile{Name: "Remote Name", PhoneNumber: "+1 555 0199"},
	})

	user, _, err := identity.Register(ctx, "remote@example.com", "hunter2", "Local Name")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Name != "Remote Name" {
		t.Fatalf("name = %q, want provider value", user.Name)
	}
	if user.PhoneNumber != "+1 555 0199" {
		t.Fatalf("phone = %q, want provider value", user.PhoneNumber)
	}
}

func TestRegisterSurfacesUnexpectedProviderError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	identity := env.identityWithProvider(t, stubProfileProvider{
		err: errors.New("malformed provider response"),
	})

	_, _, err := identity.Register(ctx, "broken@example.com", "hunter2", "")
	if err == nil {
		t.Fatal("expected the provider error to surface")
	}
	if errors.Is(err, domain.ErrCollaboratorUnavailable) {
		t.Fatalf("err = %v, want a non-availability error", err)
	}

	// No partial user behind the failure.
	if _, err := env.users.GetUserByEmail(ctx, "broken@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestCreateUserDuplicateEmailTranslated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := domain.User{ID: "u-1", Email: "race@example.com", Name: "first"}
	if err := env.users.CreateUser(ctx, first); err != nil {
		t.Fatalf("create user: %v", err)
	}

	second := domain.User{ID: "u-2", Email: "race@example.com", Name: "second"}
	if err := env.users.CreateUser(ctx, second); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}

func TestUpdateProfileMergesFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "profile@example.com")

	name := "Renamed"
	updated, err := env.identity.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("name = %q, want Renamed", updated.Name)
	}

	phone := "+1 555 0100"
	updated, err = env.identity.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{PhoneNumber: &phone})
	if err != nil {
		t.Fatalf("update phone: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("name = %q, want Renamed preserved", updated.Name)
	}
	if updated.PhoneNumber != "+1 555 0100" {
		t.Fatalf("phone = %q, want +1 555 0100", updated.PhoneNumber)
	}
}

func TestAddAccountKeepsExistingSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "multi@example.com")

	account, err := env.identity.AddAccount(ctx, user.ID, "Prop Firm", 25000, "EUR")
	if err != nil {
		t.Fatalf("add account: %v", err)
	}
	if account.InitialBalance != 25000 {
		t.Fatalf("initial balance = %v, want 25000", account.InitialBalance)
	}

	current, err := env.identity.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if current.SelectedAccountID != user.SelectedAccountID {
		t.Fatal("adding a second account must not change the selection")
	}
	if len(current.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(current.Accounts))
	}
}

func TestSelectAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "switch@example.com")

	second, err := env.identity.AddAccount(ctx, user.ID, "Swing", 5000, "USD")
	if err != nil {
		t.Fatalf("add account: %v", err)
	}

	updated, err := env.identity.SelectAccount(ctx, user.ID, second.ID)
	if err != nil {
		t.Fatalf("select account: %v", err)
	}
	if updated.SelectedAccountID != second.ID {
		t.Fatalf("selected = %q, want %q", updated.SelectedAccountID, second.ID)
	}

	if _, err := env.identity.SelectAccount(ctx, user.ID, "no-such-account"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}

	other := env.registerUser(t, "other@example.com")
	if _, err := env.identity.SelectAccount(ctx, other.ID, second.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("foreign account err = %v, want ErrAccountNotFound", err)
	}
}
