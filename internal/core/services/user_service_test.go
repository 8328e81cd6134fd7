package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

func TestUserService_Get(t *testing.T) {
	store := newFakeStore()
	jane := store.addUser("Jane Doe", domain.RoleUser)
	john := store.addUser("John Roe", domain.RoleUser)
	admin := store.addUser("Ada Admin", domain.RoleAdmin)
	svc := NewUserService(store, fakeHasher{})

	got, err := svc.Get(context.Background(), domain.Identity{UserID: jane.ID, Role: domain.RoleUser}, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)

	_, err = svc.Get(context.Background(), domain.Identity{UserID: jane.ID, Role: domain.RoleUser}, john.ID)
	requireKind(t, err, domain.KindForbidden, "Forbidden!")

	_, err = svc.Get(context.Background(), domain.Identity{UserID: jane.ID, Role: domain.RoleUser}, 404)
	requireKind(t, err, domain.KindNotFound, "User Not Found!")

	_, err = svc.Get(context.Background(), domain.Identity{UserID: admin.ID, Role: domain.RoleAdmin}, john.ID)
	require.NoError(t, err)
	store.requireBalanced(t)
}

func TestUserService_UpdateHashesPassword(t *testing.T) {
	store := newFakeStore()
	jane := store.addUser("Jane Doe", domain.RoleUser)
	svc := NewUserService(store, fakeHasher{})

	conds := []query.Condition{query.Eq("name", "Jane Smith"), query.Eq("password", "N3w!Secret")}
	got, err := svc.Update(context.Background(), domain.Identity{UserID: jane.ID, Role: domain.RoleUser}, jane.ID, conds)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, "hashed:N3w!Secret", got.Password)
	assert.Equal(t, "N3w!Secret", conds[1].Value, "caller's conditions must not be modified")
	store.requireBalanced(t)
}

func TestUserService_UpdateDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	jane := store.addUser("Jane Doe", domain.RoleUser)
	john := store.addUser("John Roe", domain.RoleUser)
	svc := NewUserService(store, fakeHasher{})

	_, err := svc.Update(context.Background(), domain.Identity{UserID: jane.ID, Role: domain.RoleUser}, jane.ID,
		[]query.Condition{query.Eq("email", john.Email)})
	requireKind(t, err, domain.KindConflict, "User With This Email Address Already Exists!")
	store.requireBalanced(t)
}

func TestUserService_Delete(t *testing.T) {
	store := newFakeStore()
	jane := store.addUser("Jane Doe", domain.RoleUser)
	john := store.addUser("John Roe", domain.RoleUser)
	admin := store.addUser("Ada Admin", domain.RoleAdmin)
	svc := NewUserService(store, fakeHasher{})

	_, err := svc.Delete(context.Background(), domain.Identity{UserID: jane.ID, Role: domain.RoleUser}, john.ID)
	requireKind(t, err, domain.KindForbidden, "Forbidden!")

	deleted, err := svc.Delete(context.Background(), domain.Identity{UserID: admin.ID, Role: domain.RoleAdmin}, john.ID)
	require.NoError(t, err)
	assert.Equal(t, john.ID, deleted.ID)

	_, err = svc.Delete(context.Background(), domain.Identity{UserID: jane.ID, Role: domain.RoleUser}, jane.ID)
	require.NoError(t, err)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
	store.requireBalanced(t)
}

func TestUserService_SetRole(t *testing.T) {
	store := newFakeStore()
	jane := store.addUser("Jane Doe", domain.RoleUser)
	svc := NewUserService(store, fakeHasher{})

	got, err := svc.SetRole(context.Background(), jane.Email, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	_, err = svc.SetRole(context.Background(), "nobody@example.com", domain.RoleAdmin)
	requireKind(t, err, domain.KindNotFound, "User Not Found!")

	_, err = svc.SetRole(context.Background(), jane.Email, domain.Role("root"))
	requireKind(t, err, domain.KindValidation, "Please Provide a Valid Role!")
	store.requireBalanced(t)
}
