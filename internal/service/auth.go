package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/metrics"
	"github.com/Skotchmaster/cse_motors/internal/models"
	"github.com/Skotchmaster/cse_motors/internal/repo"
	"github.com/Skotchmaster/cse_motors/internal/tokens"
)

const (
	EventAccountRegistered      = "account_registered"
	EventAccountLoggedIn        = "account_logged_in"
	EventAccountUpdated         = "account_updated"
	EventAccountPasswordChanged = "account_password_changed"
)

type AuthService struct {
	Store    AccountStore
	Hasher   PasswordHasher
	Sessions SessionWriter
	Events   EventPublisher
	// Limiter is optional.
	Limiter LoginLimiter

	dummyOnce sync.Once
	dummyHash string
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a standard account. It never signs the caller in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	pwHash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		metrics.RecordRegistration("error")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct, err := s.Store.InsertAccount(ctx, models.NewAccount{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: pwHash,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			l.Warn("register_error", "status", 409, "reason", "email already registered")
			metrics.RecordRegistration("conflict")
			return nil, ErrConflict
		}
		l.Error("register_error", "status", 500, "reason", "cannot insert account", "error", err)
		metrics.RecordRegistration("error")
		return nil, fmt.Errorf("insert account: %w", err)
	}
	acct.PasswordHash = ""

	metrics.RecordRegistration("success")
	publishAccount(ctx, s.Events, EventAccountRegistered, acct.ID)
	l.Info("register_success", "account_id", acct.ID)
	return acct, nil
}

// Login verifies credentials and attaches a fresh session to w. Unknown email
// and wrong password are indistinguishable to the caller, in result and in
// bcrypt work performed.
func (s *AuthService) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")
	email = models.NormalizeEmail(email)

	if s.Limiter != nil {
		allowed, err := s.Limiter.Allow(ctx, email)
		if err != nil {
			l.Warn("login_limiter_unavailable", "error", err)
		}
		if !allowed {
			l.Warn("login_failed", "status", 429, "reason", "too many failed attempts")
			metrics.RecordLogin("rate_limited")
			return nil, ErrRateLimited
		}
	}

	acct, err := s.Store.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			_, _ = s.Hasher.Compare(s.dummy(), password)
			s.failure(ctx, email)
			l.Warn("login_failed", "status", 400, "reason", "invalid credentials")
			metrics.RecordLogin("invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 403, "reason", "account lookup failed", "error", err)
		metrics.RecordLogin("error")
		return nil, ErrAccessForbidden
	}

	ok, err := s.Hasher.Compare(acct.PasswordHash, password)
	if err != nil {
		l.Error("login_failed", "status", 403, "reason", "stored hash unusable", "account_id", acct.ID, "error", err)
		metrics.RecordLogin("error")
		return nil, ErrAccessForbidden
	}
	if !ok {
		s.failure(ctx, email)
		l.Warn("login_failed", "status", 400, "reason", "invalid credentials")
		metrics.RecordLogin("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	acct.PasswordHash = ""
	if err := s.RefreshSession(w, acct); err != nil {
		l.Error("login_failed", "status", 403, "reason", "cannot issue session", "error", err)
		metrics.RecordLogin("error")
		return nil, ErrAccessForbidden
	}

	if s.Limiter != nil {
		if err := s.Limiter.Success(ctx, email); err != nil {
			l.Warn("login_limiter_unavailable", "error", err)
		}
	}
	metrics.RecordLogin("success")
	publishAccount(ctx, s.Events, EventAccountLoggedIn, acct.ID)
	l.Info("login_successful", "account_id", acct.ID)
	return acct, nil
}

// Logout clears the session cookie. It has no precondition.
func (s *AuthService) Logout(ctx context.Context, w http.ResponseWriter) {
	s.Sessions.Clear(w)
	logging.FromContext(ctx).Info("successful_logout")
}

// UpdateProfile changes the caller's own names and email. On anything but
// success the returned account is the stored one, for redisplay.
func (s *AuthService) UpdateProfile(ctx context.Context, w http.ResponseWriter, caller *tokens.Claims, id int, p models.Profile) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_profile", "account_id", id)

	if !owns(caller, id) {
		l.Warn("update_profile_denied", "status", 403, "reason", "caller does not own account")
		metrics.RecordDenied(metrics.PolicyOwnership)
		return nil, ErrForbidden
	}

	updated, err := s.Store.UpdateAccountProfile(ctx, id, p)
	if err == nil {
		updated.PasswordHash = ""
		if err := s.RefreshSession(w, updated); err != nil {
			l.Error("update_profile_error", "reason", "cannot reissue session", "error", err)
			return updated, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
		}
		publishAccount(ctx, s.Events, EventAccountUpdated, id)
		l.Info("update_profile_success")
		return updated, nil
	}

	current := s.current(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNoChange):
		l.Info("update_profile_noop")
		return current, ErrNoChange
	case errors.Is(err, repo.ErrDuplicateEmail):
		l.Warn("update_profile_error", "status", 409, "reason", "email belongs to another account")
		return current, ErrConflict
	default:
		l.Error("update_profile_error", "status", 500, "error", err)
		return current, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
}

// UpdatePassword stores a new hash and, once the store confirms, reissues the
// session from a fresh read of the account.
func (s *AuthService) UpdatePassword(ctx context.Context, w http.ResponseWriter, caller *tokens.Claims, id int, password string) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_password", "account_id", id)

	if !owns(caller, id) {
		l.Warn("update_password_denied", "status", 403, "reason", "caller does not own account")
		metrics.RecordDenied(metrics.PolicyOwnership)
		return nil, ErrForbidden
	}

	pwHash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("update_password_error", "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	if err := s.Store.UpdateAccountPassword(ctx, id, pwHash); err != nil {
		if errors.Is(err, repo.ErrNoChange) {
			l.Info("update_password_noop")
			return nil, ErrNoChange
		}
		l.Error("update_password_error", "status", 500, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	publishAccount(ctx, s.Events, EventAccountPasswordChanged, id)

	acct := s.current(ctx, id)
	if acct == nil {
		l.Warn("update_password_reissue_skipped", "reason", "account re-read failed")
		return nil, nil
	}
	if err := s.RefreshSession(w, acct); err != nil {
		l.Error("update_password_error", "reason", "cannot reissue session", "error", err)
		return acct, nil
	}
	l.Info("update_password_success")
	return acct, nil
}

// RefreshSession is the only place a session cookie is written, so every
// account mutation keeps the client's token in step with the store.
func (s *AuthService) RefreshSession(w http.ResponseWriter, acct *models.Account) error {
	if err := s.Sessions.Attach(w, tokens.ClaimsFor(acct)); err != nil {
		return err
	}
	metrics.RecordSessionIssued()
	return nil
}

func (s *AuthService) current(ctx context.Context, id int) *models.Account {
	acct, err := s.Store.FindAccountByID(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("account_reload_failed", "account_id", id, "error", err)
		return nil
	}
	acct.PasswordHash = ""
	return acct
}

func (s *AuthService) failure(ctx context.Context, email string) {
	if s.Limiter == nil {
		return
	}
	if err := s.Limiter.Failure(ctx, email); err != nil {
		logging.FromContext(ctx).Warn("login_limiter_unavailable", "error", err)
	}
}

// dummy is a real bcrypt hash compared against when the email is unknown.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("cse-motors-timing-equaliser")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func owns(caller *tokens.Claims, id int) bool {
	return caller != nil && caller.AccountID > 0 && caller.AccountID == id
}
