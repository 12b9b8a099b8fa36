package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"ecolabs/pkg/types"
)

// ApiResponse is the uniform response envelope. Success bodies carry
// data and message; failures carry errorMessage instead.
type ApiResponse struct {
	StatusCode   int    `json:"statusCode"`
	Message      string `json:"message,omitempty"`
	Data         any    `json:"data,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func (s *Service) respond(w http.ResponseWriter, statusCode int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(ApiResponse{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) respondError(w http.ResponseWriter, err error) {
	statusCode := types.StatusCode(err)

	// Unexpected failures get a generic message. A StatusError is a
	// deliberate report, so its message goes out even at 500, the way
	// transaction failures surface their underlying cause.
	message := err.Error()
	if statusCode >= 500 {
		s.logger.WithError(err).Error("request failed")
		var se *types.StatusError
		if !errors.As(err, &se) {
			message = "something went wrong"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	encodeErr := json.NewEncoder(w).Encode(ApiResponse{
		StatusCode:   statusCode,
		ErrorMessage: message,
	})
	if encodeErr != nil {
		s.logger.WithError(encodeErr).Error("failed to encode error response")
	}
}
