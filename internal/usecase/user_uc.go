package usecase

import (
	"context"

	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/repository"
)

// UserUseCase fronts the user directory for the admin surface.
type UserUseCase struct {
	users repository.UserDirectory
}

func NewUserUseCase(users repository.UserDirectory) *UserUseCase {
	return &UserUseCase{users: users}
}

func (uc *UserUseCase) List(ctx context.Context) ([]*model.User, error) {
	return uc.users.GetAll(ctx, repository.NoTX)
}

func (uc *UserUseCase) Get(ctx context.Context, id string) (*model.User, error) {
	return uc.users.FindByID(ctx, repository.NoTX, id)
}

func (uc *UserUseCase) Update(ctx context.Context, u *model.User) error {
	return uc.users.Save(ctx, repository.NoTX, u)
}

func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	return uc.users.Delete(ctx, repository.NoTX, id)
}
