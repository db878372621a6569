package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cse_motors/internal/models"
)

var testSecret = []byte("test-session-secret")

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestCodec(t *testing.T, now time.Time) *Codec {
	t.Helper()
	c, err := NewCodec(Config{Secret: testSecret, TTL: time.Hour, Now: fixedClock(now)})
	require.NoError(t, err)
	return c
}

func sampleClaims() Claims {
	return ClaimsFor(&models.Account{
		ID:           5,
		FirstName:    "Basic",
		LastName:     "Client",
		Email:        "basic@340.edu",
		PasswordHash: "$2a$10$neverembedded",
		Role:         models.RoleStandard,
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := newTestCodec(t, now)

	raw, err := c.Issue(sampleClaims())
	require.NoError(t, err)
	assert.NotContains(t, raw, "neverembedded")

	got, err := c.Decode(raw)
	require.NoError(t, err)

	want := sampleClaims()
	assert.Equal(t, want.AccountID, got.AccountID)
	assert.Equal(t, want.FirstName, got.FirstName)
	assert.Equal(t, want.LastName, got.LastName)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.Role, got.Role)
	assert.Equal(t, "5", got.Subject)
	assert.NotEmpty(t, got.ID)
	assert.True(t, got.IssuedAt.Time.Equal(now))
	assert.True(t, got.ExpiresAt.Time.Equal(now.Add(time.Hour)))
}

func TestCodec_ExpiredTokenIsInvalid(t *testing.T) {
	issuedAt := time.Unix(1_700_000_000, 0)
	raw, err := newTestCodec(t, issuedAt).Issue(sampleClaims())
	require.NoError(t, err)

	_, err = newTestCodec(t, issuedAt.Add(59*time.Minute)).Decode(raw)
	require.NoError(t, err)

	got, err := newTestCodec(t, issuedAt.Add(2*time.Hour)).Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, got)
}

func TestCodec_RejectsForeignSignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	other, err := NewCodec(Config{Secret: []byte("someone-else"), Now: fixedClock(now)})
	require.NoError(t, err)
	raw, err := other.Issue(sampleClaims())
	require.NoError(t, err)

	got, err := newTestCodec(t, now).Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, got)
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	claims := sampleClaims()
	claims.RegisteredClaims = jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, err = newTestCodec(t, now).Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = newTestCodec(t, now).Decode(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_RejectsUnknownRoleAndMissingExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := newTestCodec(t, now)

	forged := sampleClaims()
	forged.Role = models.Role("root")
	forged.RegisteredClaims = jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, forged).SignedString(testSecret)
	require.NoError(t, err)
	_, err = c.Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp := sampleClaims()
	raw, err = jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString(testSecret)
	require.NoError(t, err)
	_, err = c.Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_GarbageInput(t *testing.T) {
	c := newTestCodec(t, time.Now())
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		_, err := c.Decode(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestNewCodec(t *testing.T) {
	_, err := NewCodec(Config{})
	assert.Error(t, err)

	c, err := NewCodec(Config{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL())
}

func TestCodec_IssueRejectsUnknownRole(t *testing.T) {
	c := newTestCodec(t, time.Now())
	claims := sampleClaims()
	claims.Role = ""
	_, err := c.Issue(claims)
	assert.Error(t, err)
}
