// Package auth holds the authentication primitives: password hashing and
// signed bearer tokens.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/accountd/internal/clockx"
	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/server/models"
)

const (
	// TokenLifetime is fixed; tokens cannot be refreshed or revoked.
	TokenLifetime = 24 * time.Hour

	// MinSecretLength is the minimum HS256 key size in bytes.
	MinSecretLength = 32
)

// Claims is the claim set carried by every access token.
type Claims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	jwt.RegisteredClaims
}

// TokenConfig is the signing configuration for a TokenIssuer.
type TokenConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
}

// TokenIssuer signs and verifies HS256 access tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenIssuer struct {
	secret    []byte
	issuer    string
	audience  string
	clock     clockx.Clock
	parser    *jwt.Parser
	validator *jwt.Validator
}

// NewTokenIssuer refuses secrets shorter than MinSecretLength and empty
// issuer or audience values with common.ErrConfiguration.
func NewTokenIssuer(cfg TokenConfig, clock clockx.Clock) (*TokenIssuer, error) {
	if len(cfg.SecretKey) < MinSecretLength {
		return nil, fmt.Errorf("%w: signing secret must be at least %d bytes", common.ErrConfiguration, MinSecretLength)
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("%w: token issuer is empty", common.ErrConfiguration)
	}
	if cfg.Audience == "" {
		return nil, fmt.Errorf("%w: token audience is empty", common.ErrConfiguration)
	}
	if clock == nil {
		clock = clockx.New()
	}

	return &TokenIssuer{
		secret:   []byte(cfg.SecretKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		clock:    clock,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
		// exp is checked in Verify; it is an inclusive upper bound.
		validator: jwt.NewValidator(
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(0),
			jwt.WithTimeFunc(clock.Now),
		),
	}, nil
}

// Issue builds and signs a token for the account.
func (i *TokenIssuer) Issue(account *models.Account) (string, error) {
	now := i.clock.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:      account.Email,
		GivenName:  account.FirstName,
		FamilyName: account.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm, issuer, audience and that the current
// time lies in [iat, exp]. Every failure is reported as common.ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := i.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil || claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing required claims", common.ErrInvalidToken)
	}

	registered := claims.RegisteredClaims
	registered.ExpiresAt = nil
	if err := i.validator.Validate(registered); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if i.clock.Now().After(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("%w: expired", common.ErrInvalidToken)
	}

	return claims, nil
}
