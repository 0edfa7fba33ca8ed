package supabase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(&Config{URL: srv.URL + "/", ServiceKey: "service-key", Bucket: "charts"}, log)
}

func TestAdminAPI_UpdateUserMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/user-1", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		var body struct {
			UserMetadata map[string]any `json:"user_metadata"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://x/chart.svg", body.UserMetadata["birthChartUrl"])
		assert.Equal(t, map[string]any{"Sun": "Taurus"}, body.UserMetadata["planets"])
		assert.Equal(t, map[string]any{"sign": "Virgo"}, body.UserMetadata["ascendant"])

		_, _ = w.Write([]byte(`{"id":"user-1"}`))
	})

	err := NewAdminAPI(client).UpdateUserMetadata(context.Background(), "user-1", domain.ProfileMetadataUpdate{
		BirthChartURL: "https://x/chart.svg",
		Planets:       domain.SimplifiedPlanets{"Sun": "Taurus"},
		Ascendant:     &domain.AscendantRecord{Sign: "Virgo"},
	})
	require.NoError(t, err)
}

func TestAdminAPI_DeleteUser_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"msg":"User not found"}`))
	})

	err := NewAdminAPI(client).DeleteUser(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "User not found")
}

func TestStorage_Upload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/v1/object/charts/charts/user-1_birthchart.svg", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("x-upsert"))
		assert.Equal(t, domain.ChartContentType, r.Header.Get("Content-Type"))

		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, "<svg/>", string(data))
		_, _ = w.Write([]byte(`{"Key":"charts/charts/user-1_birthchart.svg"}`))
	})

	storage := NewStorage(client, "charts")
	require.NoError(t, storage.Upload(context.Background(), domain.ChartStoragePath("user-1"), []byte("<svg/>"), domain.ChartContentType))
}

func TestStorage_UploadError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"403","error":"Unauthorized","message":"new row violates row-level security policy"}`))
	})

	err := NewStorage(client, "charts").Upload(context.Background(), "a.svg", nil, domain.ChartContentType)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row-level security")
}

func TestStorage_PublicURL(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(&Config{URL: "https://proj.supabase.co/", ServiceKey: "k"}, log)

	got := NewStorage(client, "charts").PublicURL("charts/u_birthchart.svg")
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/charts/charts/u_birthchart.svg", got)
}

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTVerifier(t *testing.T) {
	verifier := NewJWTVerifier("secret", "authenticated")
	valid := jwt.RegisteredClaims{
		Subject:   "user-1",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	t.Run("valid", func(t *testing.T) {
		sub, err := verifier.Verify(context.Background(), signToken(t, jwt.SigningMethodHS256, "secret", valid))
		require.NoError(t, err)
		assert.Equal(t, "user-1", sub)
	})

	t.Run("expired", func(t *testing.T) {
		claims := valid
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := verifier.Verify(context.Background(), signToken(t, jwt.SigningMethodHS256, "secret", claims))
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := verifier.Verify(context.Background(), signToken(t, jwt.SigningMethodHS256, "other", valid))
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		_, err := verifier.Verify(context.Background(), signToken(t, jwt.SigningMethodHS512, "secret", valid))
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		claims := valid
		claims.ExpiresAt = nil
		_, err := verifier.Verify(context.Background(), signToken(t, jwt.SigningMethodHS256, "secret", claims))
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := verifier.Verify(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestRemoteVerifier(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"user-7","email":"a@b.c"}`))
	})
	verifier := NewRemoteVerifier(client)

	sub, err := verifier.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-7", sub)

	_, err = verifier.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
