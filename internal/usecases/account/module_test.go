package account

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	deleted []string
	err     error
}

func (f *fakeStorage) Upload(context.Context, string, []byte, string) error { return nil }

func (f *fakeStorage) Delete(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return f.err
}

func (f *fakeStorage) PublicURL(path string) string { return path }

type fakeIdentity struct {
	deleted []string
	err     error
}

func (f *fakeIdentity) GetUser(context.Context, string) (*domain.IdentityUser, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeIdentity) UpdateUserMetadata(context.Context, string, domain.ProfileMetadataUpdate) error {
	return nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, userID string) error {
	f.deleted = append(f.deleted, userID)
	return f.err
}

func newService(st *fakeStorage, id *fakeIdentity) (*Service, *inmemory.GenerationRepo) {
	repo := inmemory.NewGenerationRepo()
	return New(st, repo, id, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestDeleteAccount(t *testing.T) {
	st := &fakeStorage{}
	id := &fakeIdentity{}
	svc, repo := newService(st, id)
	ctx := context.Background()

	_, err := repo.Begin(ctx, "user-1", uuid.New())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, "user-1"))

	assert.Equal(t, []string{"charts/user-1_birthchart.svg"}, st.deleted)
	assert.Equal(t, []string{"user-1"}, id.deleted)

	_, err = repo.GetByUserID(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAccount_StorageFailureIsNotFatal(t *testing.T) {
	st := &fakeStorage{err: errors.New("storage unavailable")}
	id := &fakeIdentity{}
	svc, _ := newService(st, id)

	require.NoError(t, svc.DeleteAccount(context.Background(), "user-1"))
	assert.Equal(t, []string{"user-1"}, id.deleted)
}

func TestDeleteAccount_IdentityFailure(t *testing.T) {
	st := &fakeStorage{}
	id := &fakeIdentity{err: errors.New("admin api returned 500")}
	svc, _ := newService(st, id)

	err := svc.DeleteAccount(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete user")
}

func TestDeleteAccount_EmptyID(t *testing.T) {
	st := &fakeStorage{}
	id := &fakeIdentity{}
	svc, _ := newService(st, id)

	err := svc.DeleteAccount(context.Background(), "")
	assert.True(t, domain.IsValidationError(err))
	assert.Empty(t, st.deleted)
	assert.Empty(t, id.deleted)
}
