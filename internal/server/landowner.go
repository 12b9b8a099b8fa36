package server

import (
	"net/http"

	"ecolabs/internal/export"
	"ecolabs/internal/service"
)

func (s *Service) handleListLandowners(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	params := listParamsFromRequest(r)

	page, err := s.app.Landowners(r.Context(), caller, params)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if params.All {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename("landowners"))
		if err := export.WriteLandowners(w, page.Items); err != nil {
			s.logger.WithError(err).Error("failed to write landowner csv")
		}
		return
	}

	s.respond(w, http.StatusOK, page.Envelope("landowner"), "landowners fetched")
}

func (s *Service) handleGetLandowner(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	landowner, err := s.app.Landowner(r.Context(), caller, r.PathValue("landownerID"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"landowner": landowner}, "landowner fetched")
}

func (s *Service) handleAddLandowner(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	var input service.AddLandownerInput
	files, err := s.parseMultipart(r, &input)
	if err != nil {
		s.respondError(w, err)
		return
	}
	input.Files = files

	result, err := s.app.AddLandowner(r.Context(), caller, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, result, "landowner saved")
}

func (s *Service) handleDeleteLandowner(w http.ResponseWriter, r *http.Request) {
	caller, err := s.callerFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	landownerID := r.PathValue("landownerID")

	if err := s.app.DeleteLandowner(r.Context(), caller, landownerID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "landowner deleted")
}
