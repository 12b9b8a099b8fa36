package service

import (
	"context"
	"errors"
	"strings"

	"ecolabs/internal/store"
	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type AddLandownerInput struct {
	Name             string           `json:"name" form:"name"`
	Email            string           `json:"email" form:"email"`
	Phone            *string          `json:"phone" form:"phone"`
	PropertyName     string           `json:"propertyName" form:"propertyName"`
	PropertyLocation string           `json:"propertyLocation" form:"propertyLocation"`
	PropertySize     *string          `json:"propertySize" form:"propertySize"`
	StartDate        string           `json:"startDate" form:"startDate"`
	Note             *string          `json:"note" form:"note"`
	Files            []types.FileMeta `json:"-" form:"-"`
}

type AddLandownerResult struct {
	Landowner  *types.User     `json:"landowner"`
	Property   *types.Property `json:"property"`
	NewAccount bool            `json:"newAccount"`
}

// AddLandowner creates or updates a landowner, their property and the
// property's baseline document report in one transaction. An account is
// created with a generated password when the email is unknown; the
// welcome mail goes out only after the transaction commits.
func (s *Service) AddLandowner(ctx context.Context, caller types.Caller, input AddLandownerInput) (*AddLandownerResult, error) {

	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.PropertyName = strings.TrimSpace(input.PropertyName)
	if input.Name == "" || input.Email == "" || input.PropertyName == "" {
		return nil, types.BadRequestError("name, email and propertyName are required")
	}

	generatedPassword := utils.GeneratePassword()

	result := &AddLandownerResult{}

	err := s.store.InTx(ctx, func(tx *store.Store) error {

		user, err := tx.Users.UserByEmail(ctx, input.Email)
		switch {
		case err == nil:
			user.Name = input.Name
			user.Phone = input.Phone
			if err := tx.Users.Update(ctx, user.ID, user); err != nil {
				return err
			}
		case errors.Is(err, types.ErrUserNotFound):
			hash, err := bcrypt.GenerateFromPassword([]byte(generatedPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user = &types.User{
				ID:       utils.NanoID(),
				Name:     input.Name,
				Email:    input.Email,
				Password: string(hash),
				Role:     types.RoleLandowner,
				Phone:    input.Phone,
			}
			if err := tx.Users.Create(ctx, user); err != nil {
				return err
			}
			result.NewAccount = true
		default:
			return err
		}

		property, err := tx.Properties.PropertyByNameAndLandowner(ctx, input.PropertyName, user.ID)
		switch {
		case err == nil:
			property.PropertyLocation = input.PropertyLocation
			property.PropertySize = input.PropertySize
			if input.StartDate != "" {
				property.StartDate = input.StartDate
			}
			if caller.IsAdmin() && input.Note != nil {
				property.Note = input.Note
				property.NoteUpdatedBy = utils.Ptr(caller.ID)
			}
			if err := tx.Properties.Update(ctx, property.ID, property); err != nil {
				return err
			}
		case errors.Is(err, types.ErrPropertyNotFound):
			property = &types.Property{
				ID:               utils.NanoID(),
				PropertyName:     input.PropertyName,
				PropertyLocation: input.PropertyLocation,
				PropertySize:     input.PropertySize,
				StartDate:        input.StartDate,
				LandownerID:      user.ID,
			}
			if caller.IsAdmin() && input.Note != nil {
				property.Note = input.Note
				property.NoteUpdatedBy = utils.Ptr(caller.ID)
			}
			if err := tx.Properties.Create(ctx, property); err != nil {
				return err
			}
		default:
			return err
		}

		// No baseline document gets created until the landowner
		// actually has files to attach.
		if len(input.Files) > 0 {
			doc, err := tx.Reports.LandownerDoc(ctx, property.ID)
			switch {
			case err == nil:
				if err := tx.Reports.AppendFiles(ctx, doc.ID, input.Files); err != nil {
					return err
				}
			case errors.Is(err, types.ErrReportNotFound):
				report := &types.Report{
					ID:         utils.NanoID(),
					PropertyID: property.ID,
					Kind:       types.ReportKindLandownerDocument,
					Files:      input.Files,
				}
				if err := tx.Reports.Create(ctx, report); err != nil {
					return err
				}
			default:
				return err
			}
		}

		result.Landowner = user
		result.Property = property
		return nil
	})
	if err != nil {
		return nil, types.TransactionError(err, "failed to add landowner")
	}

	if result.NewAccount {
		if err := s.mailer.SendWelcome(result.Landowner.Email, result.Landowner.Name, generatedPassword); err != nil {
			s.logger.WithError(err).WithField("user_id", result.Landowner.ID).Warn("failed to send landowner welcome mail")
		}
	}

	sanitized := result.Landowner.Sanitized(caller)
	result.Landowner = &sanitized

	return result, nil
}

// DeleteLandowner removes a landowner and everything hanging off them:
// every property with its bids, reports and assignments, then the
// account itself. Storage cleanup happens after the transaction commits
// and never fails the request.
func (s *Service) DeleteLandowner(ctx context.Context, caller types.Caller, landownerID string) error {

	if err := requireAdmin(caller); err != nil {
		return err
	}

	user, err := s.store.Users.User(ctx, landownerID)
	if err != nil {
		return err
	}
	if user.Role != types.RoleLandowner {
		return types.BadRequestError("user %s is not a landowner", landownerID)
	}

	var orphanedFiles []types.FileMeta

	err = s.store.InTx(ctx, func(tx *store.Store) error {

		propertyIDs, err := tx.Properties.PropertyIDsByLandowner(ctx, landownerID)
		if err != nil {
			return err
		}

		for _, propertyID := range propertyIDs {
			files, err := deletePropertyCascade(ctx, tx, propertyID)
			if err != nil {
				return err
			}
			orphanedFiles = append(orphanedFiles, files...)
		}

		if err := tx.Tokens.DeleteRefreshTokensByUser(ctx, landownerID); err != nil {
			return err
		}

		return tx.Users.Delete(ctx, landownerID)
	})
	if err != nil {
		return types.TransactionError(err, "failed to delete landowner")
	}

	s.cleanupFiles(ctx, orphanedFiles)

	return nil
}

// Landowner fetches one landowner in the listing shape. Landowners can
// view their own record; everything else is admin-only.
func (s *Service) Landowner(ctx context.Context, caller types.Caller, landownerID string) (*types.LandownerRow, error) {
	if !caller.IsAdmin() && caller.ID != landownerID {
		return nil, types.ForbiddenError("you do not have access to this landowner")
	}
	return s.store.Users.Landowner(ctx, caller, landownerID)
}

// Landowners lists landowner accounts for the dashboard or CSV export.
func (s *Service) Landowners(ctx context.Context, caller types.Caller, params store.ListParams) (*types.Page[types.LandownerRow], error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.store.Users.Landowners(ctx, caller, params)
}

// cleanupFiles best-effort deletes storage objects left behind by a
// committed cascade.
func (s *Service) cleanupFiles(ctx context.Context, files []types.FileMeta) {
	for _, file := range files {
		if err := s.storage.Delete(ctx, file.URL); err != nil {
			s.logger.WithError(err).WithField("file", file.Name).Warn("failed to delete orphaned file from storage")
		}
	}
}
