package service

import (
	"context"
	"strings"

	"ecolabs/internal/store"
	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type AddUniversityInput struct {
	Name        string  `json:"name" form:"name"`
	Email       string  `json:"email" form:"email"`
	Phone       *string `json:"phone" form:"phone"`
	ContactName *string `json:"contactName" form:"contactName"`
}

// AddUniversity creates a university account with a generated password,
// mailed once the row commits.
func (s *Service) AddUniversity(ctx context.Context, caller types.Caller, input AddUniversityInput) (*types.User, error) {

	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" {
		return nil, types.BadRequestError("name and email are required")
	}

	generatedPassword := utils.GeneratePassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(generatedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &types.User{
		ID:          utils.NanoID(),
		Name:        input.Name,
		Email:       input.Email,
		Password:    string(hash),
		Role:        types.RoleUniversity,
		Phone:       input.Phone,
		ContactName: input.ContactName,
	}

	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcome(user.Email, user.Name, generatedPassword); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("failed to send university welcome mail")
	}

	sanitized := user.Sanitized(caller)
	return &sanitized, nil
}

// DeleteUniversity removes a university account. Its researchers keep
// their accounts and simply lose the university reference.
func (s *Service) DeleteUniversity(ctx context.Context, caller types.Caller, universityID string) error {

	if err := requireAdmin(caller); err != nil {
		return err
	}

	user, err := s.store.Users.User(ctx, universityID)
	if err != nil {
		return err
	}
	if user.Role != types.RoleUniversity {
		return types.BadRequestError("user %s is not a university", universityID)
	}

	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.Users.ClearUniversity(ctx, universityID); err != nil {
			return err
		}
		if err := tx.Tokens.DeleteRefreshTokensByUser(ctx, universityID); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, universityID)
	})
	return types.TransactionError(err, "failed to delete university")
}

// Universities lists university accounts with their researchers.
func (s *Service) Universities(ctx context.Context, caller types.Caller, params store.ListParams) (*types.Page[types.UniversityRow], error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.store.Users.Universities(ctx, caller, params)
}

// University fetches one university in the listing shape. Universities
// can view their own record; everything else is admin-only.
func (s *Service) University(ctx context.Context, caller types.Caller, universityID string) (*types.UniversityRow, error) {
	if !caller.IsAdmin() && caller.ID != universityID {
		return nil, types.ForbiddenError("you do not have access to this university")
	}
	return s.store.Users.University(ctx, caller, universityID)
}

// UniversityResearchers pages through one university's researchers.
// Universities get their own roster; everything else is admin-only.
func (s *Service) UniversityResearchers(ctx context.Context, caller types.Caller, universityID string, params store.ListParams) (*types.Page[types.ResearcherRow], error) {
	if !caller.IsAdmin() && caller.ID != universityID {
		return nil, types.ForbiddenError("you do not have access to this university")
	}
	return s.store.Users.UniversityResearchers(ctx, caller, universityID, params)
}
