package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"ecolabs/internal/store"
	"ecolabs/pkg/types"
)

const maxUploadSize = 32 << 20

// listParamsFromRequest reads the shared listing query parameters.
// isArchived and isAssigned are tri-state: absent means unfiltered.
func listParamsFromRequest(r *http.Request) store.ListParams {
	q := r.URL.Query()

	params := store.ListParams{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Status: q.Get("status"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	if archived, err := strconv.ParseBool(q.Get("isArchived")); err == nil {
		params.Archived = &archived
	}
	if assigned, err := strconv.ParseBool(q.Get("isAssigned")); err == nil {
		params.Assigned = &assigned
	}
	if export, err := strconv.ParseBool(q.Get("isExport")); err == nil && export {
		params.All = true
	}

	return params
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return types.BadRequestError("invalid request body")
	}
	return nil
}

// uploadFiles stores every file in the request's "files" field and
// returns their metadata. Multipart is optional; JSON requests simply
// carry no files.
func (s *Service) uploadFiles(r *http.Request) ([]types.FileMeta, error) {

	if r.MultipartForm == nil {
		return nil, nil
	}

	var files []types.FileMeta
	for _, header := range r.MultipartForm.File["files"] {

		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		meta, err := s.storage.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		file.Close()
		if err != nil {
			return nil, err
		}

		files = append(files, *meta)
	}

	return files, nil
}

// parseMultipart decodes a multipart form body into dst and uploads any
// attached files.
func (s *Service) parseMultipart(r *http.Request, dst any) ([]types.FileMeta, error) {

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, types.BadRequestError("invalid multipart form")
	}

	if err := decoder.Decode(dst, r.MultipartForm.Value); err != nil {
		return nil, types.BadRequestError("invalid form values")
	}

	return s.uploadFiles(r)
}
