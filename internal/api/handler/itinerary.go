package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Rrens/itinerary-planner/internal/api/middleware"
	"github.com/Rrens/itinerary-planner/internal/api/response"
	"github.com/Rrens/itinerary-planner/internal/domain"
	"github.com/Rrens/itinerary-planner/internal/service"
)

// ItineraryHandler handles itinerary endpoints
type ItineraryHandler struct {
	itineraryService *service.ItineraryService
}

// NewItineraryHandler creates a new itinerary handler
func NewItineraryHandler(itineraryService *service.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{itineraryService: itineraryService}
}

// List handles listing the caller's itineraries
func (h *ItineraryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	itineraries, err := h.itineraryService.List(r.Context(), userID)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, itineraries)
}

// Create handles itinerary creation
func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input domain.ItineraryInput
	if !bind(w, r, &input) {
		return
	}

	itinerary, err := h.itineraryService.Create(r.Context(), userID, input.Name)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.Created(w, itinerary)
}

// Get handles fetching an itinerary with its flights
func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := userAndItinerary(w, r)
	if !ok {
		return
	}

	detail, err := h.itineraryService.Get(r.Context(), userID, id)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, detail)
}

// Rename handles a partial update of the itinerary name
func (h *ItineraryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := userAndItinerary(w, r)
	if !ok {
		return
	}

	var input domain.ItineraryInput
	if !bind(w, r, &input) {
		return
	}

	itinerary, err := h.itineraryService.Rename(r.Context(), userID, id, input.Name)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, itinerary)
}

// Delete handles itinerary deletion
func (h *ItineraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := userAndItinerary(w, r)
	if !ok {
		return
	}

	if err := h.itineraryService.Delete(r.Context(), userID, id); err != nil {
		response.Fail(w, err)
		return
	}

	response.NoContent(w)
}

// AddFlight saves a selected flight option into the itinerary
func (h *ItineraryHandler) AddFlight(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := userAndItinerary(w, r)
	if !ok {
		return
	}

	var input domain.AddFlightRequest
	if err := decodeJSON(w, r, &input); err != nil {
		response.Fail(w, err)
		return
	}

	flight, err := h.itineraryService.AddFlight(r.Context(), userID, id, input)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.Created(w, flight)
}

func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Fail(w, domain.Unauthenticated("authentication required"))
	}
	return userID, ok
}

func userAndItinerary(w http.ResponseWriter, r *http.Request) (uuid.UUID, int64, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return uuid.Nil, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "itineraryID"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(w, domain.Validation("invalid itinerary ID"))
		return uuid.Nil, 0, false
	}

	return userID, id, true
}
