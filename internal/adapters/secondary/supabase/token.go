package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/ports/identity"
	"github.com/golang-jwt/jwt/v5"
)

// NewTokenVerifier локальная проверка подписи, если задан JWT secret,
// иначе проверка через GET /auth/v1/user
func NewTokenVerifier(cfg *Config, client *Client) identity.ITokenVerifier {
	if cfg.JWTSecret != "" {
		return NewJWTVerifier(cfg.JWTSecret, cfg.JWTAudience)
	}
	return NewRemoteVerifier(client)
}

// JWTVerifier проверяет HS256 access token Supabase
type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTVerifier(secret, audience string) *JWTVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &JWTVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}
}

// Verify возвращает sub токена
func (v *JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}

	var claims jwt.RegisteredClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", convertError(err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrInvalidToken)
	}

	return claims.Subject, nil
}

func convertError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: token has expired", domain.ErrInvalidToken)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: token not yet valid", domain.ErrInvalidToken)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: bad signature", domain.ErrInvalidToken)
	default:
		return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
}

// RemoteVerifier спрашивает Supabase, кому принадлежит токен
type RemoteVerifier struct {
	client *Client
}

func NewRemoteVerifier(client *Client) *RemoteVerifier {
	return &RemoteVerifier{client: client}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}

	body, err := v.client.do(ctx, request{
		operation: "get-user-by-token",
		method:    http.MethodGet,
		path:      "/auth/v1/user",
		bearer:    token,
	})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) &&
			(statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden) {
			return "", fmt.Errorf("%w: %s", domain.ErrInvalidToken, statusErr.Message)
		}
		return "", fmt.Errorf("failed to verify token: %w", err)
	}

	var user domain.IdentityUser
	if err := json.Unmarshal(body, &user); err != nil || user.ID == "" {
		return "", &domain.UpstreamSchemaError{Service: component, Reason: "user response has no id"}
	}

	return user.ID, nil
}
