package server

import (
	"net/http"

	"ecolabs/internal/service"
)

func (s *Service) handleAddReport(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input service.AddReportInput
	files, err := s.parseMultipart(r, &input)
	if err != nil {
		s.respondError(w, err)
		return
	}
	input.Files = files

	report, err := s.app.AddReport(r.Context(), caller, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]any{"report": report}, "report submitted")
}

func (s *Service) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input service.UpdateReportInput
	files, err := s.parseMultipart(r, &input)
	if err != nil {
		s.respondError(w, err)
		return
	}
	input.Files = files

	report, err := s.app.UpdateReport(r.Context(), caller, r.PathValue("reportID"), input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"report": report}, "report updated")
}

func (s *Service) handleToggleArchiveReport(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	state, err := s.app.ToggleArchiveReport(r.Context(), caller, r.PathValue("reportID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"state": state}, "report "+state)
}

func (s *Service) handleRemoveReport(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.RemoveReport(r.Context(), caller, r.PathValue("reportID")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "report removed")
}
