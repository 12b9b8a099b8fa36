package server

import (
	"net/http"

	"ecolabs/internal/service"
	"ecolabs/pkg/types"
)

func (s *Service) handleListProperties(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.app.Properties(r.Context(), caller, listParamsFromRequest(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("properties"), "properties fetched")
}

func (s *Service) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	property, err := s.app.PropertyView(r.Context(), caller, r.PathValue("propertyID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"property": property}, "property fetched")
}

func (s *Service) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input service.UpdatePropertyInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	property, err := s.app.UpdateProperty(r.Context(), caller, r.PathValue("propertyID"), input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"property": property}, "property updated")
}

func (s *Service) handleTransferProperty(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input struct {
		LandownerID string `json:"landowner"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.TransferProperty(r.Context(), caller, r.PathValue("propertyID"), input.LandownerID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "property transferred")
}

func (s *Service) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.DeleteProperty(r.Context(), caller, r.PathValue("propertyID")); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "property deleted")
}

func (s *Service) handleToggleArchiveProperty(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	state, err := s.app.ToggleArchiveProperty(r.Context(), caller, r.PathValue("propertyID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"state": state}, "property "+state)
}

func (s *Service) handleUpdatePropertyNote(w http.ResponseWriter, r *http.Request) {
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

	if err := s.app.UpdatePropertyNote(r.Context(), caller, r.PathValue("propertyID"), input.Note); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "note updated")
}

func (s *Service) handleAddPropertyFiles(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input struct{}
	files, err := s.parseMultipart(r, &input)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if len(files) == 0 {
		s.respondError(w, types.BadRequestError("at least one file is required"))
		return
	}

	if err := s.app.AddPropertyFiles(r.Context(), caller, r.PathValue("propertyID"), files); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]any{"files": files}, "files uploaded")
}

func (s *Service) handleRemovePropertyFile(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.RemovePropertyFile(r.Context(), caller, r.PathValue("propertyID"), input.URL); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "file removed")
}
