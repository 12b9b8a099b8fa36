package service

import (
	"context"
	"fmt"
	"strings"

	"ecolabs/internal/store"
	"ecolabs/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

// UsersByRole is the flat admin listing behind user management and CSV
// exports.
func (s *Service) UsersByRole(ctx context.Context, caller types.Caller, role types.Role, params store.ListParams) (*types.Page[types.UserRow], error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, types.BadRequestError("invalid role: %s", role)
	}
	return s.store.Users.UsersByRole(ctx, caller, role, params)
}

// CurrentUser fetches the caller's own profile.
func (s *Service) CurrentUser(ctx context.Context, caller types.Caller) (*types.User, error) {
	user, err := s.store.Users.User(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized(caller)
	return &sanitized, nil
}

// ToggleArchiveUser flips an account's archived flag and reports which
// way it went.
func (s *Service) ToggleArchiveUser(ctx context.Context, caller types.Caller, userID string) (string, error) {

	if err := requireAdmin(caller); err != nil {
		return "", err
	}

	user, err := s.store.Users.User(ctx, userID)
	if err != nil {
		return "", err
	}

	archived := !user.IsArchived
	if err := s.store.Users.SetArchived(ctx, userID, archived); err != nil {
		return "", err
	}

	if archived {
		return "archived", nil
	}
	return "unarchived", nil
}

type UpdateUserInput struct {
	Name           *string     `json:"name"`
	Phone          *string     `json:"phone"`
	Password       *string     `json:"password"`
	Role           *types.Role `json:"roles"`
	UniversityName *string     `json:"universityName"`
	Advisor        *string     `json:"advisor"`
	ContactName    *string     `json:"contactName"`
}

// UpdateUser applies profile updates. Users can edit their own account;
// admins can edit anyone. Role changes are admin-only.
func (s *Service) UpdateUser(ctx context.Context, caller types.Caller, userID string, input UpdateUserInput) (*types.User, error) {

	if !caller.IsAdmin() && caller.ID != userID {
		return nil, types.ForbiddenError("you can only edit your own account")
	}

	fields := map[string]any{}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		fields["phone"] = input.Phone
	}
	if input.UniversityName != nil {
		fields["university_name"] = input.UniversityName
	}
	if input.Advisor != nil {
		fields["advisor"] = input.Advisor
	}
	if input.ContactName != nil {
		fields["contact_name"] = input.ContactName
	}

	if input.Role != nil {
		if err := requireAdmin(caller); err != nil {
			return nil, err
		}
		if !input.Role.Valid() {
			return nil, types.BadRequestError("invalid role: %s", *input.Role)
		}
		fields["role"] = *input.Role
	}

	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < 8 {
			return nil, types.BadRequestError("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = string(hash)
	}

	if len(fields) == 0 {
		return nil, types.BadRequestError("no fields to update")
	}

	if err := s.store.Users.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, err
	}

	user, err := s.store.Users.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	sanitized := user.Sanitized(caller)
	return &sanitized, nil
}

// UpdateUserNote sets the admin-only note on an account.
func (s *Service) UpdateUserNote(ctx context.Context, caller types.Caller, userID string, note *string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	return s.store.Users.UpdateNote(ctx, userID, note, caller.ID)
}
