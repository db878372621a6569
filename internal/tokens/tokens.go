package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/cse_motors/internal/models"
)

const DefaultTTL = time.Hour

var ErrInvalidToken = errors.New("invalid session token")

// Claims is the identity snapshot carried by a session token.
type Claims struct {
	AccountID int         `json:"account_id"`
	FirstName string      `json:"account_firstname"`
	LastName  string      `json:"account_lastname"`
	Email     string      `json:"account_email"`
	Role      models.Role `json:"account_type"`
	jwt.RegisteredClaims
}

func ClaimsFor(a *models.Account) Claims {
	return Claims{
		AccountID: a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}
}

type Config struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// Codec signs and verifies HS256 session tokens. The secret is fixed for the
// lifetime of the process.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("tokens: empty signing secret")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Codec{secret: cfg.Secret, ttl: cfg.TTL, now: cfg.Now}, nil
}

func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs claims with fresh iat, exp and jti values.
func (c *Codec) Issue(claims Claims) (string, error) {
	if !claims.Role.Valid() {
		return "", fmt.Errorf("tokens: cannot issue for account type %q", claims.Role)
	}
	now := c.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.Itoa(claims.AccountID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode returns the verified claims or ErrInvalidToken. Nothing from an
// unverified token is ever returned.
func (c *Codec) Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.AccountID <= 0 || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
