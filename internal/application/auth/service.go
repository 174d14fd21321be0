package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrForbidden           = errors.New("missing required role")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

type Principal struct {
	Subject   string    `json:"sub"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"exp"`
}

func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

type TokenIssuer interface {
	IssueToken(ctx context.Context, username, password string) (string, error)
}

type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Principal, error)
}

// Service is the gate in front of the payment API: it exchanges
// credentials for tokens and checks that a token carries the admin role.
type Service struct {
	Issuer    TokenIssuer
	Validator TokenValidator
	AdminRole string
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	return s.Issuer.IssueToken(ctx, username, password)
}

// Authorize returns ErrInvalidToken when the token itself is unusable and
// ErrForbidden when it is valid but lacks the admin role.
func (s *Service) Authorize(ctx context.Context, token string) (*Principal, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}

	principal, err := s.Validator.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	if !principal.HasRole(s.AdminRole) {
		return principal, ErrForbidden
	}
	return principal, nil
}
