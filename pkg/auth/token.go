package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jsa498/devflow/pkg/config"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
)

// Claims carries the identity the hosted auth provider asserts for a
// request. The provider owns credentials and sessions; this backend only
// verifies its access tokens.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

type providerClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// ParseAccessToken verifies an HS256 access token against the shared secret
// and extracts the user identity from the subject claim.
func ParseAccessToken(cfg config.AuthConfig, token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token is required")
	}

	var claims providerClaims
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}, options...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if !parsed.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "token subject is not a user id")
	}

	return &Claims{UserID: userID, Email: claims.Email}, nil
}
