package identity

import (
	"context"

	"github.com/admin/astromood/chart-api/internal/domain"
)

// IIdentityProvider административный доступ к пользователям провайдера идентификации
type IIdentityProvider interface {
	GetUser(ctx context.Context, userID string) (*domain.IdentityUser, error)
	UpdateUserMetadata(ctx context.Context, userID string, update domain.ProfileMetadataUpdate) error
	DeleteUser(ctx context.Context, userID string) error
}

// ITokenVerifier проверяет bearer-токен и возвращает id пользователя
type ITokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
