package server

import (
	"net/http"

	"ecolabs/internal/service"
	"ecolabs/pkg/types"
)

func (s *Service) handleListBids(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.app.Bids(r.Context(), caller, listParamsFromRequest(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("bids"), "bids fetched")
}

func (s *Service) handlePlaceBid(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input service.PlaceBidInput
	files, err := s.parseMultipart(r, &input)
	if err != nil {
		s.respondError(w, err)
		return
	}
	input.Files = files

	bid, err := s.app.PlaceBid(r.Context(), caller, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]any{"bid": bid}, "bid placed")
}

func (s *Service) handleGetBid(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	bid, err := s.app.Bid(r.Context(), caller, r.PathValue("bidID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"bid": bid}, "bid fetched")
}

func (s *Service) handleBidStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	result, err := s.app.BidStatus(r.Context(), caller, r.PathValue("propertyID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, result, "bid status fetched")
}

func (s *Service) handleRemoveBid(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.RemoveBid(r.Context(), caller, r.PathValue("bidID")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "bid removed")
}

func (s *Service) handleChangeBidStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input struct {
		Status types.BidStatus `json:"status"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	bid, err := s.app.ChangeBidStatus(r.Context(), caller, r.PathValue("bidID"), input.Status)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"bid": bid}, "bid status updated")
}

func (s *Service) handleAssignResearcher(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input struct {
		Researchers []string `json:"researchers"`
		AssignDate  string   `json:"assignDate"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	err = s.app.AssignResearcher(r.Context(), caller, r.PathValue("propertyID"), input.Researchers, input.AssignDate)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "researchers assigned")
}

func (s *Service) handleUnassignResearcher(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	err = s.app.UnassignResearcher(r.Context(), caller, r.PathValue("propertyID"), r.PathValue("researcherID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "researcher unassigned")
}
