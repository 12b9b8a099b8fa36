package service

import (
	"context"
	"errors"

	"ecolabs/internal/store"
	"ecolabs/internal/utils"
	"ecolabs/pkg/types"
)

type UpdatePropertyInput struct {
	PropertyName     *string `json:"propertyName" form:"propertyName"`
	PropertyLocation *string `json:"propertyLocation" form:"propertyLocation"`
	PropertySize     *string `json:"propertySize" form:"propertySize"`
	StartDate        *string `json:"startDate" form:"startDate"`
}

// Properties lists properties scoped by the caller's role.
func (s *Service) Properties(ctx context.Context, caller types.Caller, params store.ListParams) (*types.Page[types.PropertyRow], error) {
	return s.store.Properties.Properties(ctx, caller, params)
}

// PropertyView fetches one property. Landowners can only view their own.
func (s *Service) PropertyView(ctx context.Context, caller types.Caller, propertyID string) (*types.PropertyRow, error) {

	property, err := s.store.Properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if caller.Role == types.RoleLandowner && property.LandownerID != caller.ID {
		return nil, types.ForbiddenError("you do not have access to this property")
	}

	return s.store.Properties.PropertyView(ctx, caller, propertyID)
}

// UpdateProperty applies the editable fields. Admins can edit any
// property, landowners only their own.
func (s *Service) UpdateProperty(ctx context.Context, caller types.Caller, propertyID string, input UpdatePropertyInput) (*types.Property, error) {

	property, err := s.store.Properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && property.LandownerID != caller.ID {
		return nil, types.ForbiddenError("you do not have access to this property")
	}

	if input.PropertyName != nil {
		property.PropertyName = *input.PropertyName
	}
	if input.PropertyLocation != nil {
		property.PropertyLocation = *input.PropertyLocation
	}
	if input.PropertySize != nil {
		property.PropertySize = input.PropertySize
	}
	if input.StartDate != nil {
		property.StartDate = *input.StartDate
	}

	if err := s.store.Properties.Update(ctx, propertyID, property); err != nil {
		return nil, err
	}

	sanitized := property.Sanitized(caller)
	return &sanitized, nil
}

// ToggleArchiveProperty flips the archived flag and reports which way
// it went.
func (s *Service) ToggleArchiveProperty(ctx context.Context, caller types.Caller, propertyID string) (string, error) {

	if err := requireAdmin(caller); err != nil {
		return "", err
	}

	property, err := s.store.Properties.Property(ctx, propertyID)
	if err != nil {
		return "", err
	}

	archived := !property.Archived
	if err := s.store.Properties.SetArchived(ctx, propertyID, archived); err != nil {
		return "", err
	}

	if archived {
		return "archived", nil
	}
	return "unarchived", nil
}

// TransferProperty moves a property to another landowner account.
func (s *Service) TransferProperty(ctx context.Context, caller types.Caller, propertyID, landownerID string) error {

	if err := requireAdmin(caller); err != nil {
		return err
	}

	if _, err := s.store.Properties.Property(ctx, propertyID); err != nil {
		return err
	}

	target, err := s.store.Users.User(ctx, landownerID)
	if err != nil {
		return err
	}
	if target.Role != types.RoleLandowner {
		return types.BadRequestError("user %s is not a landowner", landownerID)
	}

	return s.store.Properties.Transfer(ctx, propertyID, landownerID)
}

// UpdatePropertyNote sets the admin-only note, recording who wrote it.
func (s *Service) UpdatePropertyNote(ctx context.Context, caller types.Caller, propertyID string, note *string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	return s.store.Properties.UpdateNote(ctx, propertyID, note, caller.ID)
}

// DeleteProperty removes a property and its dependent records in one
// transaction, then cleans up the orphaned storage objects.
func (s *Service) DeleteProperty(ctx context.Context, caller types.Caller, propertyID string) error {

	if err := requireAdmin(caller); err != nil {
		return err
	}

	if _, err := s.store.Properties.Property(ctx, propertyID); err != nil {
		return err
	}

	var orphanedFiles []types.FileMeta

	err := s.store.InTx(ctx, func(tx *store.Store) error {
		files, err := deletePropertyCascade(ctx, tx, propertyID)
		if err != nil {
			return err
		}
		orphanedFiles = files
		return nil
	})
	if err != nil {
		return types.TransactionError(err, "failed to delete property")
	}

	s.cleanupFiles(ctx, orphanedFiles)

	return nil
}

// deletePropertyCascade is the one place a property and its dependents
// are removed: bids and reports first, then assignments, then the
// property row. It returns the files those rows referenced so the
// caller can clean up storage after commit.
func deletePropertyCascade(ctx context.Context, tx *store.Store, propertyID string) ([]types.FileMeta, error) {

	reportFiles, err := tx.Reports.FilesByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	bidFiles, err := tx.Bids.FilesByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if err := tx.Reports.DeleteByProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	if err := tx.Bids.DeleteByProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	if err := tx.Assignments.DeleteByProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	if err := tx.Properties.Delete(ctx, propertyID); err != nil {
		return nil, err
	}

	return append(reportFiles, bidFiles...), nil
}

// AddPropertyFiles appends uploaded documents to the property's
// baseline document report, creating the report if it does not exist
// yet.
func (s *Service) AddPropertyFiles(ctx context.Context, caller types.Caller, propertyID string, files []types.FileMeta) error {

	property, err := s.store.Properties.Property(ctx, propertyID)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() && property.LandownerID != caller.ID {
		return types.ForbiddenError("you do not have access to this property")
	}

	err = s.store.InTx(ctx, func(tx *store.Store) error {
		doc, err := tx.Reports.LandownerDoc(ctx, propertyID)
		if errors.Is(err, types.ErrReportNotFound) {
			return tx.Reports.Create(ctx, &types.Report{
				ID:         utils.NanoID(),
				PropertyID: propertyID,
				Kind:       types.ReportKindLandownerDocument,
				Files:      files,
			})
		}
		if err != nil {
			return err
		}
		return tx.Reports.AppendFiles(ctx, doc.ID, files)
	})
	return types.TransactionError(err, "failed to save property files")
}

// RemovePropertyFile drops one file from the property's baseline
// documents and deletes the stored object best-effort afterwards.
func (s *Service) RemovePropertyFile(ctx context.Context, caller types.Caller, propertyID, fileURL string) error {

	property, err := s.store.Properties.Property(ctx, propertyID)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() && property.LandownerID != caller.ID {
		return types.ForbiddenError("you do not have access to this property")
	}

	doc, err := s.store.Reports.LandownerDoc(ctx, propertyID)
	if err != nil {
		return err
	}

	kept := make([]types.FileMeta, 0, len(doc.Files))
	var removed *types.FileMeta
	for _, file := range doc.Files {
		if file.URL == fileURL && removed == nil {
			f := file
			removed = &f
			continue
		}
		kept = append(kept, file)
	}
	if removed == nil {
		return types.NotFoundError("file not found on this property")
	}

	if len(kept) == 0 {
		if err := s.store.Reports.Delete(ctx, doc.ID); err != nil {
			return err
		}
	} else if err := s.store.Reports.ReplaceFiles(ctx, doc.ID, kept); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, removed.URL); err != nil {
		s.logger.WithError(err).WithField("file", removed.Name).Warn("failed to delete property file from storage")
	}

	return nil
}
