package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/cse_motors/internal/cookie"
	"github.com/Skotchmaster/cse_motors/internal/hash"
	"github.com/Skotchmaster/cse_motors/internal/models"
	"github.com/Skotchmaster/cse_motors/internal/repo"
	"github.com/Skotchmaster/cse_motors/internal/tokens"
)

type mockAccountStore struct {
	mock.Mock
}

func (m *mockAccountStore) FindAccountByID(ctx context.Context, id int) (*models.Account, error) {
	args := m.Called(ctx, id)
	acct, _ := args.Get(0).(*models.Account)
	return acct, args.Error(1)
}

func (m *mockAccountStore) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	acct, _ := args.Get(0).(*models.Account)
	return acct, args.Error(1)
}

func (m *mockAccountStore) InsertAccount(ctx context.Context, in models.NewAccount) (*models.Account, error) {
	args := m.Called(ctx, in)
	acct, _ := args.Get(0).(*models.Account)
	return acct, args.Error(1)
}

func (m *mockAccountStore) UpdateAccountProfile(ctx context.Context, id int, p models.Profile) (*models.Account, error) {
	args := m.Called(ctx, id, p)
	acct, _ := args.Get(0).(*models.Account)
	return acct, args.Error(1)
}

func (m *mockAccountStore) UpdateAccountPassword(ctx context.Context, id int, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

type recordedEvent struct {
	topic, key string
	event      any
}

type recordingPublisher struct {
	events []recordedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.events = append(p.events, recordedEvent{topic, key, event})
	return nil
}

func (p *recordingPublisher) types() []string {
	var out []string
	for _, e := range p.events {
		switch ev := e.event.(type) {
		case AccountEvent:
			out = append(out, ev.Type)
		case InventoryEvent:
			out = append(out, ev.Type)
		}
	}
	return out
}

type fakeLimiter struct {
	blocked   bool
	failures  int
	successes int
}

func (f *fakeLimiter) Allow(context.Context, string) (bool, error) { return !f.blocked, nil }
func (f *fakeLimiter) Failure(context.Context, string) error       { f.failures++; return nil }
func (f *fakeLimiter) Success(context.Context, string) error       { f.successes++; return nil }

type authFixture struct {
	svc     *AuthService
	store   *mockAccountStore
	codec   *tokens.Codec
	events  *recordingPublisher
	limiter *fakeLimiter
	hasher  hash.Bcrypt
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	codec, err := tokens.NewCodec(tokens.Config{Secret: []byte("test-secret")})
	require.NoError(t, err)

	f := &authFixture{
		store:   &mockAccountStore{},
		codec:   codec,
		events:  &recordingPublisher{},
		limiter: &fakeLimiter{},
		hasher:  hash.Bcrypt{Cost: bcrypt.MinCost},
	}
	f.svc = &AuthService{
		Store:    f.store,
		Hasher:   f.hasher,
		Sessions: cookie.NewManager(codec, cookie.Options{}),
		Events:   f.events,
		Limiter:  f.limiter,
	}
	return f
}

func (f *authFixture) account(t *testing.T, id int, email, password string) *models.Account {
	t.Helper()
	h, err := f.hasher.Hash(password)
	require.NoError(t, err)
	return &models.Account{
		ID: id, FirstName: "Basic", LastName: "Client",
		Email: email, PasswordHash: h, Role: models.RoleStandard,
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.DefaultName {
			return c
		}
	}
	return nil
}

func (f *authFixture) sessionClaims(t *testing.T, rec *httptest.ResponseRecorder) *tokens.Claims {
	t.Helper()
	c := sessionCookie(rec)
	require.NotNil(t, c, "expected a session cookie")
	claims, err := f.codec.Decode(c.Value)
	require.NoError(t, err)
	return claims
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.store.On("InsertAccount", ctx, mock.MatchedBy(func(in models.NewAccount) bool {
		return in.Email == "basic@340.edu" &&
			in.PasswordHash != "I@mABas1cCl!3nt" &&
			bcrypt.CompareHashAndPassword([]byte(in.PasswordHash), []byte("I@mABas1cCl!3nt")) == nil
	})).Return(&models.Account{
		ID: 1, FirstName: "Basic", LastName: "Client",
		Email: "basic@340.edu", PasswordHash: "stored", Role: models.RoleStandard,
	}, nil).Once()

	acct, err := f.svc.Register(ctx, RegisterInput{
		FirstName: "Basic", LastName: "Client",
		Email: "basic@340.edu", Password: "I@mABas1cCl!3nt",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStandard, acct.Role)
	assert.Empty(t, acct.PasswordHash)
	assert.Equal(t, []string{EventAccountRegistered}, f.events.types())
	f.store.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.store.On("InsertAccount", ctx, mock.Anything).Return(nil, repo.ErrDuplicateEmail).Once()

	acct, err := f.svc.Register(ctx, RegisterInput{Email: "taken@340.edu", Password: "I@mABas1cCl!3nt"})
	assert.Nil(t, acct)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, f.events.events)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.store.On("FindAccountByEmail", ctx, "basic@340.edu").
		Return(f.account(t, 1, "basic@340.edu", "I@mABas1cCl!3nt"), nil).Once()

	rec := httptest.NewRecorder()
	acct, err := f.svc.Login(ctx, rec, "  Basic@340.edu ", "I@mABas1cCl!3nt")
	require.NoError(t, err)
	assert.Empty(t, acct.PasswordHash)

	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 3600, c.MaxAge)

	claims := f.sessionClaims(t, rec)
	assert.Equal(t, 1, claims.AccountID)
	assert.Equal(t, "basic@340.edu", claims.Email)
	assert.Equal(t, models.RoleStandard, claims.Role)

	assert.Equal(t, 1, f.limiter.successes)
	assert.Equal(t, []string{EventAccountLoggedIn}, f.events.types())
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.store.On("FindAccountByEmail", ctx, "basic@340.edu").
		Return(f.account(t, 1, "basic@340.edu", "I@mABas1cCl!3nt"), nil).Once()

	rec := httptest.NewRecorder()
	acct, err := f.svc.Login(ctx, rec, "basic@340.edu", "wrong")
	assert.Nil(t, acct)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, sessionCookie(rec))
	assert.Equal(t, 1, f.limiter.failures)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.store.On("FindAccountByEmail", ctx, "nobody@340.edu").Return(nil, repo.ErrNotFound).Once()

	rec := httptest.NewRecorder()
	_, err := f.svc.Login(ctx, rec, "nobody@340.edu", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, sessionCookie(rec))
	assert.NotEmpty(t, f.svc.dummyHash)
}

func TestLoginStoreFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.store.On("FindAccountByEmail", ctx, "basic@340.edu").Return(nil, errors.New("connection reset")).Once()

	rec := httptest.NewRecorder()
	_, err := f.svc.Login(ctx, rec, "basic@340.edu", "I@mABas1cCl!3nt")
	assert.ErrorIs(t, err, ErrAccessForbidden)
	assert.Nil(t, sessionCookie(rec))
}

func TestLoginCorruptHash(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	acct := f.account(t, 1, "basic@340.edu", "x")
	acct.PasswordHash = "not-a-bcrypt-hash"
	f.store.On("FindAccountByEmail", ctx, "basic@340.edu").Return(acct, nil).Once()

	_, err := f.svc.Login(ctx, httptest.NewRecorder(), "basic@340.edu", "x")
	assert.ErrorIs(t, err, ErrAccessForbidden)
}

func TestLoginRateLimited(t *testing.T) {
	f := newAuthFixture(t)
	f.limiter.blocked = true

	rec := httptest.NewRecorder()
	_, err := f.svc.Login(context.Background(), rec, "basic@340.edu", "I@mABas1cCl!3nt")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Nil(t, sessionCookie(rec))
	f.store.AssertNotCalled(t, "FindAccountByEmail", mock.Anything, mock.Anything)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		f.svc.Logout(context.Background(), rec)
		c := sessionCookie(rec)
		require.NotNil(t, c)
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
}

func TestUpdateProfileRejectsOtherAccount(t *testing.T) {
	f := newAuthFixture(t)
	caller := &tokens.Claims{AccountID: 5, Role: models.RoleStandard}

	rec := httptest.NewRecorder()
	acct, err := f.svc.UpdateProfile(context.Background(), rec, caller, 7, models.Profile{
		FirstName: "Mallory", LastName: "M", Email: "m@340.edu",
	})
	assert.Nil(t, acct)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, sessionCookie(rec))
	f.store.AssertNotCalled(t, "UpdateAccountProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfileReissuesSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	caller := &tokens.Claims{AccountID: 5, Email: "old@340.edu", Role: models.RoleStandard}
	p := models.Profile{FirstName: "New", LastName: "Name", Email: "new@340.edu"}

	f.store.On("UpdateAccountProfile", ctx, 5, p).Return(&models.Account{
		ID: 5, FirstName: "New", LastName: "Name", Email: "new@340.edu", Role: models.RoleStandard,
	}, nil).Once()

	rec := httptest.NewRecorder()
	acct, err := f.svc.UpdateProfile(ctx, rec, caller, 5, p)
	require.NoError(t, err)
	assert.Equal(t, "new@340.edu", acct.Email)

	claims := f.sessionClaims(t, rec)
	assert.Equal(t, "new@340.edu", claims.Email)
	assert.Equal(t, "New", claims.FirstName)
	assert.Equal(t, []string{EventAccountUpdated}, f.events.types())
}

func TestUpdateProfileOutcomes(t *testing.T) {
	stored := &models.Account{ID: 5, FirstName: "Same", LastName: "Name", Email: "same@340.edu", Role: models.RoleStandard}
	caller := &tokens.Claims{AccountID: 5, Role: models.RoleStandard}

	tests := []struct {
		name     string
		storeErr error
		want     error
	}{
		{"no change", repo.ErrNoChange, ErrNoChange},
		{"duplicate email", repo.ErrDuplicateEmail, ErrConflict},
		{"store failure", errors.New("deadlock"), ErrUpdateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			ctx := context.Background()
			p := models.Profile{FirstName: "Same", LastName: "Name", Email: "same@340.edu"}

			f.store.On("UpdateAccountProfile", ctx, 5, p).Return(nil, tt.storeErr).Once()
			copied := *stored
			f.store.On("FindAccountByID", ctx, 5).Return(&copied, nil).Once()

			rec := httptest.NewRecorder()
			acct, err := f.svc.UpdateProfile(ctx, rec, caller, 5, p)
			assert.ErrorIs(t, err, tt.want)
			require.NotNil(t, acct)
			assert.Equal(t, "same@340.edu", acct.Email)
			assert.Nil(t, sessionCookie(rec))
			assert.Empty(t, f.events.events)
		})
	}
}

func TestUpdatePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	caller := &tokens.Claims{AccountID: 5, Role: models.RoleEmployee}

	f.store.On("UpdateAccountPassword", ctx, 5, mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("N3w!Passw0rd")) == nil
	})).Return(nil).Once()
	f.store.On("FindAccountByID", ctx, 5).Return(&models.Account{
		ID: 5, FirstName: "Happy", LastName: "Employee", Email: "happy@340.edu",
		PasswordHash: "ignored", Role: models.RoleEmployee,
	}, nil).Once()

	rec := httptest.NewRecorder()
	acct, err := f.svc.UpdatePassword(ctx, rec, caller, 5, "N3w!Passw0rd")
	require.NoError(t, err)
	assert.Empty(t, acct.PasswordHash)

	claims := f.sessionClaims(t, rec)
	assert.Equal(t, 5, claims.AccountID)
	assert.Equal(t, models.RoleEmployee, claims.Role)
	assert.Equal(t, []string{EventAccountPasswordChanged}, f.events.types())
	f.store.AssertExpectations(t)
}

func TestUpdatePasswordFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("not owner", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.UpdatePassword(ctx, httptest.NewRecorder(), &tokens.Claims{AccountID: 5}, 7, "N3w!Passw0rd")
		assert.ErrorIs(t, err, ErrForbidden)
		f.store.AssertNotCalled(t, "UpdateAccountPassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.UpdatePassword(ctx, httptest.NewRecorder(), nil, 7, "N3w!Passw0rd")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.store.On("UpdateAccountPassword", ctx, 5, mock.Anything).Return(errors.New("disk full")).Once()

		rec := httptest.NewRecorder()
		_, err := f.svc.UpdatePassword(ctx, rec, &tokens.Claims{AccountID: 5}, 5, "N3w!Passw0rd")
		assert.ErrorIs(t, err, ErrUpdateFailed)
		assert.Nil(t, sessionCookie(rec))
	})

	t.Run("no row", func(t *testing.T) {
		f := newAuthFixture(t)
		f.store.On("UpdateAccountPassword", ctx, 5, mock.Anything).Return(repo.ErrNoChange).Once()

		_, err := f.svc.UpdatePassword(ctx, httptest.NewRecorder(), &tokens.Claims{AccountID: 5}, 5, "N3w!Passw0rd")
		assert.ErrorIs(t, err, ErrNoChange)
	})
}
