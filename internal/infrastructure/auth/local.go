package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	appAuth "github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
)

type LocalUser struct {
	PasswordHash string
	Roles        []string
}

// LocalProvider is a self-contained identity provider: users come from
// configuration and tokens are HS256 JWTs.
type LocalProvider struct {
	Users  map[string]LocalUser
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func (l *LocalProvider) IssueToken(_ context.Context, username, password string) (string, error) {
	user, ok := l.Users[username]
	if !ok {
		return "", appAuth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", appAuth.ErrInvalidCredentials
	}

	now := l.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    l.Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.TTL)),
		},
		PreferredUsername: username,
		RealmAccess:       RealmAccess{Roles: user.Roles},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (l *LocalProvider) Validate(_ context.Context, token string) (*appAuth.Principal, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(l.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(l.now),
	)

	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return l.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", appAuth.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", appAuth.ErrInvalidToken, err)
	}

	return claims.principal(), nil
}

func (l *LocalProvider) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// HashPassword produces the bcrypt hash stored in a local user entry.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
