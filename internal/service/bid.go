package service

import (
	"context"
	"errors"
	"time"

	"ecolabs/internal/store"
	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	"github.com/sirupsen/logrus"
)

type PlaceBidInput struct {
	PropertyID  string           `json:"property" form:"property"`
	Description string           `json:"description" form:"description"`
	Files       []types.FileMeta `json:"-" form:"-"`
}

// PlaceBid records a researcher's bid on a property. The unique
// constraint on (property, researcher) is the duplicate check; there is
// no racy pre-read.
func (s *Service) PlaceBid(ctx context.Context, caller types.Caller, input PlaceBidInput) (*types.Bid, error) {

	if caller.Role != types.RoleResearcher {
		return nil, types.ForbiddenError("only researchers can place bids")
	}

	property, err := s.store.Properties.Property(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.Archived {
		return nil, types.BadRequestError("this property is archived")
	}

	bid := &types.Bid{
		ID:           utils.NanoID(),
		PropertyID:   input.PropertyID,
		ResearcherID: caller.ID,
		Status:       types.BidStatusPending,
		Description:  input.Description,
		Files:        input.Files,
	}

	if err := s.store.Bids.Create(ctx, bid); err != nil {
		return nil, err
	}

	researcher, err := s.store.Users.User(ctx, caller.ID)
	if err == nil {
		if err := s.mailer.SendBidPlaced(researcher.Name, property.PropertyName); err != nil {
			s.logger.WithError(err).WithField("bid_id", bid.ID).Warn("failed to send bid notification mail")
		}
	}

	return bid, nil
}

// RemoveBid deletes a bid. Researchers can only remove their own.
func (s *Service) RemoveBid(ctx context.Context, caller types.Caller, bidID string) error {

	bid, err := s.store.Bids.Bid(ctx, bidID)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() && bid.ResearcherID != caller.ID {
		return types.ForbiddenError("you do not have access to this bid")
	}

	if err := s.store.Bids.Delete(ctx, bidID); err != nil {
		return err
	}

	s.cleanupFiles(ctx, bid.Files)

	return nil
}

// ChangeBidStatus moves a bid through its lifecycle. Approving a bid
// also assigns the researcher to the property; if that assignment
// already exists the conflict is logged and the approval stands.
func (s *Service) ChangeBidStatus(ctx context.Context, caller types.Caller, bidID string, status types.BidStatus) (*types.Bid, error) {

	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, types.BadRequestError("invalid bid status: %s", status)
	}

	bid, err := s.store.Bids.Bid(ctx, bidID)
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx *store.Store) error {

		if err := tx.Bids.UpdateStatus(ctx, bidID, status); err != nil {
			return err
		}

		if status == types.BidStatusApproved {
			inserted, err := tx.Assignments.AssignIfAbsent(ctx, &types.Assignment{
				PropertyID:   bid.PropertyID,
				ResearcherID: bid.ResearcherID,
				AssignDate:   time.Now().Format("2006-01-02"),
			})
			if err != nil {
				return err
			}
			if !inserted {
				s.logger.WithFields(logrus.Fields{
					"property_id":   bid.PropertyID,
					"researcher_id": bid.ResearcherID,
				}).Info("researcher already assigned, keeping existing assignment")
			}
		}

		return nil
	})
	if err != nil {
		return nil, types.TransactionError(err, "failed to update bid status")
	}

	bid.Status = status
	return bid, nil
}

// AssignResearcher assigns researchers to a property on the admin's
// initiative. Researchers without a bid get one synthesized in the
// approved state so the bid history stays complete.
func (s *Service) AssignResearcher(ctx context.Context, caller types.Caller, propertyID string, researcherIDs []string, assignDate string) error {

	if err := requireAdmin(caller); err != nil {
		return err
	}
	if len(researcherIDs) == 0 {
		return types.BadRequestError("at least one researcher is required")
	}

	if _, err := s.store.Properties.Property(ctx, propertyID); err != nil {
		return err
	}

	if assignDate == "" {
		assignDate = time.Now().Format("2006-01-02")
	}

	err := s.store.InTx(ctx, func(tx *store.Store) error {

		for _, researcherID := range researcherIDs {

			researcher, err := tx.Users.User(ctx, researcherID)
			if err != nil {
				return err
			}
			if researcher.Role != types.RoleResearcher {
				return types.BadRequestError("user %s is not a researcher", researcherID)
			}

			bid, err := tx.Bids.BidByPropertyAndResearcher(ctx, propertyID, researcherID)
			switch {
			case err == nil:
				if bid.Status != types.BidStatusApproved {
					if err := tx.Bids.UpdateStatus(ctx, bid.ID, types.BidStatusApproved); err != nil {
						return err
					}
				}
			case errors.Is(err, types.ErrBidNotFound):
				err := tx.Bids.Create(ctx, &types.Bid{
					ID:           utils.NanoID(),
					PropertyID:   propertyID,
					ResearcherID: researcherID,
					Status:       types.BidStatusApproved,
					Description:  "Assigned by administrator",
				})
				if err != nil {
					return err
				}
			default:
				return err
			}

			inserted, err := tx.Assignments.AssignIfAbsent(ctx, &types.Assignment{
				PropertyID:   propertyID,
				ResearcherID: researcherID,
				AssignDate:   assignDate,
			})
			if err != nil {
				return err
			}
			if !inserted {
				s.logger.WithFields(logrus.Fields{
					"property_id":   propertyID,
					"researcher_id": researcherID,
				}).Info("researcher already assigned, skipping")
			}
		}

		return nil
	})
	return types.TransactionError(err, "failed to assign researchers")
}

// UnassignResearcher removes one researcher from a property. Removing
// the last one simply leaves the property with no assignment rows.
func (s *Service) UnassignResearcher(ctx context.Context, caller types.Caller, propertyID, researcherID string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	return s.store.Assignments.Unassign(ctx, propertyID, researcherID)
}

// Bids lists bids scoped by the caller's role.
func (s *Service) Bids(ctx context.Context, caller types.Caller, params store.ListParams) (*types.Page[types.BidRow], error) {
	return s.store.Bids.Bids(ctx, caller, params)
}

// Bid fetches one bid. Researchers see their own; landowners see bids
// on their properties.
func (s *Service) Bid(ctx context.Context, caller types.Caller, bidID string) (*types.Bid, error) {

	bid, err := s.store.Bids.Bid(ctx, bidID)
	if err != nil {
		return nil, err
	}

	if caller.IsAdmin() || bid.ResearcherID == caller.ID {
		return bid, nil
	}

	property, err := s.store.Properties.Property(ctx, bid.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.LandownerID != caller.ID {
		return nil, types.ForbiddenError("you do not have access to this bid")
	}

	return bid, nil
}

// BidStatusResult reports whether a researcher has bid on a property
// and where that bid stands.
type BidStatusResult struct {
	HasBid bool             `json:"hasBid"`
	Status *types.BidStatus `json:"status,omitempty"`
}

// BidStatus tells a researcher where they stand on a property without
// exposing anyone else's bids.
func (s *Service) BidStatus(ctx context.Context, caller types.Caller, propertyID string) (*BidStatusResult, error) {

	if caller.Role != types.RoleResearcher {
		return nil, types.ForbiddenError("only researchers can check their bid status")
	}

	bid, err := s.store.Bids.BidByPropertyAndResearcher(ctx, propertyID, caller.ID)
	if errors.Is(err, types.ErrBidNotFound) {
		return &BidStatusResult{HasBid: false}, nil
	}
	if err != nil {
		return nil, err
	}

	return &BidStatusResult{HasBid: true, Status: &bid.Status}, nil
}
