package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appAuth "github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/logging"
)

// KeycloakClient talks to a Keycloak realm through its OpenID Connect
// endpoints. Tokens are issued with the password grant and validated with
// token introspection.
type KeycloakClient struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	// DevMode skips introspection and only checks the exp claim.
	DevMode bool
	HTTP    *http.Client
	Logger  logging.Logger
	Now     func() time.Time
}

func (k *KeycloakClient) TokenEndpoint() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token",
		strings.TrimRight(k.BaseURL, "/"), url.PathEscape(k.Realm))
}

func (k *KeycloakClient) IntrospectEndpoint() string {
	return k.TokenEndpoint() + "/introspect"
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (k *KeycloakClient) IssueToken(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {k.ClientID},
		"client_secret": {k.ClientSecret},
		"username":      {username},
		"password":      {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.TokenEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("keycloak token request: %w", err)
	}
	defer resp.Body.Close()

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("keycloak token response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusBadRequest && body.Error == "invalid_grant":
		return "", appAuth.ErrInvalidCredentials
	case resp.StatusCode/100 != 2:
		return "", fmt.Errorf("keycloak token request: status %d: %s %s", resp.StatusCode, body.Error, body.Description)
	case body.AccessToken == "":
		return "", fmt.Errorf("keycloak token response without access_token")
	}

	return body.AccessToken, nil
}

func (k *KeycloakClient) Validate(ctx context.Context, token string) (*appAuth.Principal, error) {
	claims, err := parseUnverified(token)
	if err != nil {
		return nil, err
	}

	if k.DevMode {
		return k.checkExpiry(claims)
	}

	active, err := k.introspect(ctx, token)
	if err != nil {
		k.logger().Error("keycloak introspection failed", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", appAuth.ErrProviderUnavailable, err)
	}
	if !active {
		return nil, appAuth.ErrInvalidToken
	}

	return claims.principal(), nil
}

func (k *KeycloakClient) introspect(ctx context.Context, token string) (bool, error) {
	form := url.Values{"token": {token}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.IntrospectEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(k.ClientID, k.ClientSecret)

	resp, err := k.client().Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return false, nil
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, nil
	}
	return body.Active, nil
}

func (k *KeycloakClient) checkExpiry(claims *Claims) (*appAuth.Principal, error) {
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(k.now()) {
		return nil, fmt.Errorf("%w: token expired", appAuth.ErrInvalidToken)
	}
	return claims.principal(), nil
}

// parseUnverified reads the claims without checking the signature. Outside
// dev mode the token is only trusted after introspection says it is active.
func parseUnverified(token string) (*Claims, error) {
	if strings.Count(token, ".") != 2 {
		return nil, fmt.Errorf("%w: malformed token", appAuth.ErrInvalidToken)
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", appAuth.ErrInvalidToken, err)
	}
	return &claims, nil
}

func (k *KeycloakClient) client() *http.Client {
	if k.HTTP != nil {
		return k.HTTP
	}
	return http.DefaultClient
}

func (k *KeycloakClient) logger() logging.Logger {
	if k.Logger == nil {
		return logging.Nop{}
	}
	return k.Logger
}

func (k *KeycloakClient) now() time.Time {
	if k.Now != nil {
		return k.Now()
	}
	return time.Now()
}
