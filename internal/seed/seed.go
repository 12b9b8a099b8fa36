package seed

import (
	"context"
	"errors"
	"fmt"

	"ecolabs/internal/store"
	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin ensures an administrator account exists. It is a no-op when a
// user with the given email is already registered.
func SeedAdmin(ctx context.Context, users *store.UserRepository, name, email, password string) error {
	_, err := users.UserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, types.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &types.User{
		ID:       utils.NanoID(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     types.RoleAdmin,
	}

	return users.Create(ctx, admin)
}
