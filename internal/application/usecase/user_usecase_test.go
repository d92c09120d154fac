package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

func newUserUseCase() (*UserUseCase, *fakeUserRepo) {
	repo := &fakeUserRepo{items: map[int64]*entity.User{}}
	uc := NewUserUseCase(repo)
	uc.cost = bcrypt.MinCost
	return uc, repo
}

func TestUserCreate_GuardaHash(t *testing.T) {
	uc, repo := newUserUseCase()

	out, err := uc.Create(context.Background(), dto.CreateUserRequest{Username: "ana", Password: "secreta123", Role: entity.RoleBodeguero})
	require.NoError(t, err)
	assert.Equal(t, "ana", out.Username)

	stored := repo.items[out.ID]
	assert.NotEqual(t, "secreta123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta123")))
}

func TestUserCreate_Duplicado(t *testing.T) {
	uc, _ := newUserUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateUserRequest{Username: "ana", Password: "secreta123", Role: entity.RoleAdmin})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "ana", Password: "otra12345", Role: entity.RoleVendedor})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestUserCreate_RolInvalido(t *testing.T) {
	uc, _ := newUserUseCase()

	_, err := uc.Create(context.Background(), dto.CreateUserRequest{Username: "ana", Password: "secreta123", Role: "root"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestUserDelete_NoPuedeBorrarseASiMismo(t *testing.T) {
	uc, _ := newUserUseCase()
	ctx := context.Background()
	out, err := uc.Create(ctx, dto.CreateUserRequest{Username: "ana", Password: "secreta123", Role: entity.RoleAdmin})
	require.NoError(t, err)

	assert.True(t, errors.Is(uc.Delete(ctx, out.ID, out.ID), domain.ErrForbidden))
	assert.NoError(t, uc.Delete(ctx, 99, out.ID))
}
