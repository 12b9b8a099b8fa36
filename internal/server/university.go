package server

import (
	"net/http"

	"ecolabs/internal/service"
)

func (s *Service) handleListUniversities(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.app.Universities(r.Context(), caller, listParamsFromRequest(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("universities"), "universities fetched")
}

func (s *Service) handleGetUniversity(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	university, err := s.app.University(r.Context(), caller, r.PathValue("universityID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"university": university}, "university fetched")
}

func (s *Service) handleUniversityResearchers(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.app.UniversityResearchers(r.Context(), caller, r.PathValue("universityID"), listParamsFromRequest(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("researchers"), "researchers fetched")
}

func (s *Service) handleAddUniversity(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input service.AddUniversityInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	university, err := s.app.AddUniversity(r.Context(), caller, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]any{"university": university}, "university created")
}

func (s *Service) handleDeleteUniversity(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.DeleteUniversity(r.Context(), caller, r.PathValue("universityID")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "university deleted")
}
