package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/isdelr/folio-be/internal/models"
)

// TokenTTL is the fixed lifetime of an issued credential.
const TokenTTL = 7 * 24 * time.Hour

// MinSecretLength is the shortest accepted HMAC signing secret.
const MinSecretLength = 32

// ErrWeakSecret is returned when the signing secret is empty or too short.
var ErrWeakSecret = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)

// Claims defines the JWT claims structure.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Option customises an Issuer or Verifier.
type Option func(*tokenOptions)

type tokenOptions struct {
	now      func() time.Time
	denylist Denylist
}

// WithClock overrides the time source. Tests use it to move past expiry.
func WithClock(now func() time.Time) Option {
	return func(o *tokenOptions) { o.now = now }
}

// WithDenylist makes the Verifier reject revoked token ids.
func WithDenylist(d Denylist) Option {
	return func(o *tokenOptions) { o.denylist = d }
}

func buildOptions(opts []Option) tokenOptions {
	o := tokenOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func checkSecret(secret []byte) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return key, nil
}

// Issuer mints HS256 credentials.
type Issuer struct {
	key []byte
	now func() time.Time
}

// NewIssuer creates an Issuer signing with secret.
func NewIssuer(secret []byte, opts ...Option) (*Issuer, error) {
	key, err := checkSecret(secret)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Issuer{key: key, now: o.now}, nil
}

// Issue creates a credential for user that expires TokenTTL from now.
func (i *Issuer) Issue(user models.User) (string, error) {
	now := i.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

// Verifier validates credentials produced by an Issuer with the same secret.
type Verifier struct {
	key      []byte
	now      func() time.Time
	denylist Denylist
	parser   *jwt.Parser
}

// NewVerifier creates a Verifier checking signatures against secret.
func NewVerifier(secret []byte, opts ...Option) (*Verifier, error) {
	key, err := checkSecret(secret)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Verifier{
		key:      key,
		now:      o.now,
		denylist: o.denylist,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(o.now),
		),
	}, nil
}

// Revocable reports whether the Verifier consults a denylist.
func (v *Verifier) Revocable() bool {
	return v.denylist != nil
}

// Verify parses tokenStr and returns the embedded identity. Verification
// failures wrap ErrInvalidCredential; a failing denylist lookup is returned
// as-is and must be treated as an internal error.
func (v *Verifier) Verify(ctx context.Context, tokenStr string) (*Identity, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if !token.Valid || claims.UserID <= 0 || claims.ID == "" {
		return nil, fmt.Errorf("%w: incomplete claims", ErrInvalidCredential)
	}

	if v.denylist != nil {
		revoked, err := v.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, ErrRevoked)
		}
	}

	return &Identity{
		ID:        claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke adds the identity's token id to the denylist until the token would
// have expired anyway.
func (v *Verifier) Revoke(ctx context.Context, id *Identity) error {
	if v.denylist == nil {
		return errors.New("revocation is not configured")
	}
	return v.denylist.Revoke(ctx, id.TokenID, id.ExpiresAt)
}
