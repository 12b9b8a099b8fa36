package service

import (
	"context"
	"strings"

	"ecolabs/internal/store"
	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type AddResearcherInput struct {
	Name           string  `json:"name" form:"name"`
	Email          string  `json:"email" form:"email"`
	Phone          *string `json:"phone" form:"phone"`
	Advisor        *string `json:"advisor" form:"advisor"`
	UniversityName *string `json:"universityName" form:"universityName"`
	UniversityID   *string `json:"university" form:"university"`
}

// AddResearcher creates a researcher account on the admin's initiative.
// The account is approved immediately and the generated password is
// mailed after the row commits.
func (s *Service) AddResearcher(ctx context.Context, caller types.Caller, input AddResearcherInput) (*types.User, error) {

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
		ID:             utils.NanoID(),
		Name:           input.Name,
		Email:          input.Email,
		Password:       string(hash),
		Role:           types.RoleResearcher,
		Phone:          input.Phone,
		Advisor:        input.Advisor,
		UniversityName: input.UniversityName,
		UniversityID:   input.UniversityID,
		Status:         utils.Ptr(types.ResearcherStatusApproved),
	}

	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcome(user.Email, user.Name, generatedPassword); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("failed to send researcher welcome mail")
	}

	sanitized := user.Sanitized(caller)
	return &sanitized, nil
}

// Researchers lists researcher accounts with assignment and bid counts.
func (s *Service) Researchers(ctx context.Context, caller types.Caller, params store.ListParams) (*types.Page[types.ResearcherRow], error) {
	if caller.Role == types.RoleLandowner {
		return nil, types.ForbiddenError("you do not have access to the researcher listing")
	}
	return s.store.Users.Researchers(ctx, caller, params)
}

// Researcher fetches one researcher with their university embedded.
// Researchers can only view themselves.
func (s *Service) Researcher(ctx context.Context, caller types.Caller, researcherID string) (*types.ResearcherDetail, error) {
	if caller.Role == types.RoleResearcher && caller.ID != researcherID {
		return nil, types.ForbiddenError("you do not have access to this researcher")
	}
	return s.store.Users.Researcher(ctx, caller, researcherID)
}

// SetResearcherStatus records the admin's decision on a researcher
// application and notifies the applicant.
func (s *Service) SetResearcherStatus(ctx context.Context, caller types.Caller, researcherID string, status types.ResearcherStatus) error {

	if err := requireAdmin(caller); err != nil {
		return err
	}
	if !status.Valid() {
		return types.BadRequestError("invalid researcher status: %s", status)
	}

	researcher, err := s.store.Users.User(ctx, researcherID)
	if err != nil {
		return err
	}
	if researcher.Role != types.RoleResearcher {
		return types.BadRequestError("user %s is not a researcher", researcherID)
	}

	if err := s.store.Users.SetResearcherStatus(ctx, researcherID, status); err != nil {
		return err
	}

	if status != types.ResearcherStatusPending {
		if err := s.mailer.SendResearcherDecision(researcher.Email, researcher.Name, status); err != nil {
			s.logger.WithError(err).WithField("user_id", researcherID).Warn("failed to send researcher decision mail")
		}
	}

	return nil
}

// DeleteResearcher removes a researcher and their dependent records:
// assignments, bids and deliverable reports. Storage cleanup runs after
// the transaction commits.
func (s *Service) DeleteResearcher(ctx context.Context, caller types.Caller, researcherID string) error {

	if err := requireAdmin(caller); err != nil {
		return err
	}

	researcher, err := s.store.Users.User(ctx, researcherID)
	if err != nil {
		return err
	}
	if researcher.Role != types.RoleResearcher {
		return types.BadRequestError("user %s is not a researcher", researcherID)
	}

	var orphanedFiles []types.FileMeta

	err = s.store.InTx(ctx, func(tx *store.Store) error {

		reportFiles, err := tx.Reports.FilesByResearcher(ctx, researcherID)
		if err != nil {
			return err
		}
		bidFiles, err := tx.Bids.FilesByResearcher(ctx, researcherID)
		if err != nil {
			return err
		}
		orphanedFiles = append(reportFiles, bidFiles...)

		if err := tx.Reports.DeleteByResearcher(ctx, researcherID); err != nil {
			return err
		}
		if err := tx.Bids.DeleteByResearcher(ctx, researcherID); err != nil {
			return err
		}
		if err := tx.Assignments.DeleteByResearcher(ctx, researcherID); err != nil {
			return err
		}
		if err := tx.Tokens.DeleteRefreshTokensByUser(ctx, researcherID); err != nil {
			return err
		}

		return tx.Users.Delete(ctx, researcherID)
	})
	if err != nil {
		return types.TransactionError(err, "failed to delete researcher")
	}

	s.cleanupFiles(ctx, orphanedFiles)

	return nil
}

// AssignedProperties lists the properties a researcher works on.
// Researchers always get their own listing regardless of the id in the
// request.
func (s *Service) AssignedProperties(ctx context.Context, caller types.Caller, researcherID string, params store.ListParams) (*types.Page[types.AssignedPropertyRow], error) {
	if caller.Role == types.RoleResearcher {
		researcherID = caller.ID
	}
	return s.store.Assignments.AssignedProperties(ctx, caller, researcherID, params)
}

// ResearchersToProperty lists who is assigned to one property.
func (s *Service) ResearchersToProperty(ctx context.Context, caller types.Caller, propertyID string, params store.ListParams) (*types.Page[types.ResearcherToPropertyRow], error) {

	property, err := s.store.Properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if caller.Role == types.RoleLandowner && property.LandownerID != caller.ID {
		return nil, types.ForbiddenError("you do not have access to this property")
	}

	return s.store.Assignments.ResearchersToProperty(ctx, caller, propertyID, params)
}

// ResearcherReports lists a researcher's assigned properties with their
// deliverables attached.
func (s *Service) ResearcherReports(ctx context.Context, caller types.Caller, researcherID string, params store.ListParams) (*types.Page[types.ResearcherReportsRow], error) {
	if caller.Role == types.RoleResearcher {
		researcherID = caller.ID
	}
	return s.store.Reports.ResearcherReports(ctx, caller, researcherID, params)
}
