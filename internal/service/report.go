package service

import (
	"context"

	"ecolabs/internal/utils"
	"ecolabs/pkg/types"
)

type AddReportInput struct {
	PropertyID  string           `json:"property" form:"property"`
	Name        *string          `json:"name" form:"name"`
	Description *string          `json:"description" form:"description"`
	Files       []types.FileMeta `json:"-" form:"-"`
}

// AddReport records a researcher's deliverable on a property they are
// assigned to.
func (s *Service) AddReport(ctx context.Context, caller types.Caller, input AddReportInput) (*types.Report, error) {

	if caller.Role != types.RoleResearcher {
		return nil, types.ForbiddenError("only researchers can submit reports")
	}

	if _, err := s.store.Assignments.Assignment(ctx, input.PropertyID, caller.ID); err != nil {
		return nil, err
	}

	report := &types.Report{
		ID:           utils.NanoID(),
		PropertyID:   input.PropertyID,
		ResearcherID: utils.Ptr(caller.ID),
		Kind:         types.ReportKindResearcherDeliverable,
		Name:         input.Name,
		Description:  input.Description,
		Files:        input.Files,
	}

	if err := s.store.Reports.Create(ctx, report); err != nil {
		return nil, err
	}

	researcher, userErr := s.store.Users.User(ctx, caller.ID)
	property, propErr := s.store.Properties.Property(ctx, input.PropertyID)
	if userErr == nil && propErr == nil {
		if err := s.mailer.SendReportSubmitted(researcher.Name, property.PropertyName); err != nil {
			s.logger.WithError(err).WithField("report_id", report.ID).Warn("failed to send report notification mail")
		}
	}

	return report, nil
}

type UpdateReportInput struct {
	Name        *string          `json:"name" form:"name"`
	Description *string          `json:"description" form:"description"`
	Files       []types.FileMeta `json:"-" form:"-"`
}

// UpdateReport edits a deliverable. New files are appended, never
// replaced. Researchers can only touch their own reports.
func (s *Service) UpdateReport(ctx context.Context, caller types.Caller, reportID string, input UpdateReportInput) (*types.Report, error) {

	report, err := s.store.Reports.Report(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && (report.ResearcherID == nil || *report.ResearcherID != caller.ID) {
		return nil, types.ForbiddenError("you do not have access to this report")
	}

	if input.Name != nil {
		report.Name = input.Name
	}
	if input.Description != nil {
		report.Description = input.Description
	}
	report.Files = append(report.Files, input.Files...)

	if err := s.store.Reports.Update(ctx, reportID, report); err != nil {
		return nil, err
	}

	return report, nil
}

// ToggleArchiveReport flips a report's archived flag.
func (s *Service) ToggleArchiveReport(ctx context.Context, caller types.Caller, reportID string) (string, error) {

	report, err := s.store.Reports.Report(ctx, reportID)
	if err != nil {
		return "", err
	}

	if !caller.IsAdmin() && (report.ResearcherID == nil || *report.ResearcherID != caller.ID) {
		return "", types.ForbiddenError("you do not have access to this report")
	}

	archived := !report.Archived
	if err := s.store.Reports.SetArchived(ctx, reportID, archived); err != nil {
		return "", err
	}

	if archived {
		return "archived", nil
	}
	return "unarchived", nil
}

// RemoveReport deletes a deliverable and cleans up its files.
func (s *Service) RemoveReport(ctx context.Context, caller types.Caller, reportID string) error {

	report, err := s.store.Reports.Report(ctx, reportID)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() && (report.ResearcherID == nil || *report.ResearcherID != caller.ID) {
		return types.ForbiddenError("you do not have access to this report")
	}

	if err := s.store.Reports.Delete(ctx, reportID); err != nil {
		return err
	}

	s.cleanupFiles(ctx, report.Files)

	return nil
}
