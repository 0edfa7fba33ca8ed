package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/admin/astromood/chart-api/internal/domain"
)

type userMetadataRequest struct {
	UserMetadata domain.ProfileMetadataUpdate `json:"user_metadata"`
}

// AdminAPI административные операции над пользователями (auth/v1/admin)
type AdminAPI struct {
	client *Client
}

func NewAdminAPI(client *Client) *AdminAPI {
	return &AdminAPI{client: client}
}

// GetUser получает пользователя по id
func (a *AdminAPI) GetUser(ctx context.Context, userID string) (*domain.IdentityUser, error) {
	body, err := a.client.doJSON(ctx, "get-user", http.MethodGet, "/auth/v1/admin/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, mapNotFound(err)
	}

	var user domain.IdentityUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &domain.UpstreamSchemaError{Service: component, Reason: "user is not a json object"}
	}
	return &user, nil
}

// UpdateUserMetadata пишет поля карты в user_metadata. Supabase мёржит
// ключи верхнего уровня, остальные поля профиля не затрагиваются.
func (a *AdminAPI) UpdateUserMetadata(ctx context.Context, userID string, update domain.ProfileMetadataUpdate) error {
	_, err := a.client.doJSON(ctx, "update-user-metadata", http.MethodPut,
		"/auth/v1/admin/users/"+url.PathEscape(userID), userMetadataRequest{UserMetadata: update})
	if err != nil {
		return mapNotFound(err)
	}
	return nil
}

// DeleteUser удаляет пользователя из Supabase Auth
func (a *AdminAPI) DeleteUser(ctx context.Context, userID string) error {
	_, err := a.client.doJSON(ctx, "delete-user", http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return mapNotFound(err)
	}
	return nil
}

func mapNotFound(err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	return err
}
