package server

import (
	"net/http"

	"ecolabs/internal/export"
	"ecolabs/internal/service"
	"ecolabs/pkg/types"
)

func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	role := types.Role(r.URL.Query().Get("role"))
	params := listParamsFromRequest(r)

	page, err := s.app.UsersByRole(r.Context(), caller, role, params)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if params.All {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename("users"))
		if err := export.WriteUsers(w, page.Items); err != nil {
			s.logger.WithError(err).Error("failed to write user csv")
		}
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("users"), "users fetched")
}

func (s *Service) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	user, err := s.app.CurrentUser(r.Context(), caller)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"user": user}, "profile fetched")
}

func (s *Service) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input service.UpdateUserInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	user, err := s.app.UpdateUser(r.Context(), caller, r.PathValue("userID"), input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"user": user}, "user updated")
}

func (s *Service) handleToggleArchiveUser(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	state, err := s.app.ToggleArchiveUser(r.Context(), caller, r.PathValue("userID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"state": state}, "user "+state)
}

func (s *Service) handleUpdateUserNote(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input struct {
		Note *string `json:"note"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.UpdateUserNote(r.Context(), caller, r.PathValue("userID"), input.Note); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "note updated")
}
