package handler

import (
	"net/http"

	"github.com/Rrens/itinerary-planner/internal/api/response"
	"github.com/Rrens/itinerary-planner/internal/domain"
	"github.com/Rrens/itinerary-planner/internal/service"
)

// FlightHandler handles flight search
type FlightHandler struct {
	searchService *service.SearchService
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(searchService *service.SearchService) *FlightHandler {
	return &FlightHandler{searchService: searchService}
}

// Search returns normalized offer groups for the posted query
func (h *FlightHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchRequest
	if !bind(w, r, &req) {
		return
	}

	groups, err := h.searchService.Search(r.Context(), req)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, groups)
}
