package server

import (
	"net/http"

	"ecolabs/internal/export"
	"ecolabs/internal/service"
	"ecolabs/pkg/types"
)

func (s *Service) handleListResearchers(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	params := listParamsFromRequest(r)

	page, err := s.app.Researchers(r.Context(), caller, params)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if params.All {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename("researchers"))
		if err := export.WriteResearchers(w, page.Items); err != nil {
			s.logger.WithError(err).Error("failed to write researcher csv")
		}
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("researchers"), "researchers fetched")
}

func (s *Service) handleAddResearcher(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input service.AddResearcherInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	researcher, err := s.app.AddResearcher(r.Context(), caller, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]any{"researcher": researcher}, "researcher created")
}

func (s *Service) handleGetResearcher(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	researcher, err := s.app.Researcher(r.Context(), caller, r.PathValue("researcherID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"researcher": researcher}, "researcher fetched")
}

func (s *Service) handleDeleteResearcher(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.DeleteResearcher(r.Context(), caller, r.PathValue("researcherID")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "researcher deleted")
}

func (s *Service) handleSetResearcherStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input struct {
		Status types.ResearcherStatus `json:"status"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	err = s.app.SetResearcherStatus(r.Context(), caller, r.PathValue("researcherID"), input.Status)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "researcher status updated")
}

func (s *Service) handleAssignedProperties(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.app.AssignedProperties(r.Context(), caller, r.PathValue("researcherID"), listParamsFromRequest(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("assignedProperties"), "assigned properties fetched")
}

func (s *Service) handleResearchersToProperty(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.app.ResearchersToProperty(r.Context(), caller, r.PathValue("propertyID"), listParamsFromRequest(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("researchersToProperty"), "assigned researchers fetched")
}

func (s *Service) handleResearcherReports(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.app.ResearcherReports(r.Context(), caller, r.PathValue("researcherID"), listParamsFromRequest(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("researchReports"), "research reports fetched")
}
