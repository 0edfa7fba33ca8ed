package domain

import "time"

// IdentityUser пользователь внешнего провайдера идентификации (Supabase Auth)
type IdentityUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// BirthChartURL ссылка на уже сгенерированную карту, если она есть в метаданных
func (u *IdentityUser) BirthChartURL() (string, bool) {
	if u == nil || u.UserMetadata == nil {
		return "", false
	}
	url, ok := u.UserMetadata["birthChartUrl"].(string)
	return url, ok && url != ""
}
