package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/itinerary-planner/internal/domain"
)

// Response represents a standard API response
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// ErrorBody is the error member of a failed response
type ErrorBody struct {
	Kind    domain.Kind       `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := Response{
		Success: false,
		Error:   body,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

// Fail maps err to a status code by its kind and writes it. Untyped errors
// are logged and reported as a bare internal error.
func Fail(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := StatusFor(kind)

	message := err.Error()
	if kind == domain.KindInternal {
		log.Error().Err(err).Msg("Request failed")
		message = "internal server error"
	} else if kind == domain.KindUpstream {
		log.Warn().Err(err).Msg("Upstream call failed")
		message = upstreamMessage(err)
	}

	Error(w, status, ErrorBody{Kind: kind, Message: message})
}

// StatusFor returns the HTTP status for an error kind
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUpstream:
		return http.StatusBadGateway
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// upstreamMessage hides provider details from clients
func upstreamMessage(err error) string {
	var e *domain.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "upstream service failed"
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Created sends a 201 Created response with data
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// BadRequest sends a 400 validation error
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, ErrorBody{Kind: domain.KindValidation, Message: message})
}

// TooManyRequests sends a 429 response
func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, ErrorBody{Kind: domain.KindRateLimited, Message: "rate limit exceeded"})
}
