package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rrens/itinerary-planner/internal/domain"
)

// timestamp layouts accepted for saved flight times, tried in order
var flightTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ItineraryService manages itineraries and their saved flights. Every
// operation on an existing itinerary goes through authorize.
type ItineraryService struct {
	itineraries domain.ItineraryRepository
	flights     domain.FlightRepository
}

// NewItineraryService creates a new itinerary service
func NewItineraryService(itineraries domain.ItineraryRepository, flights domain.FlightRepository) *ItineraryService {
	return &ItineraryService{
		itineraries: itineraries,
		flights:     flights,
	}
}

// Create adds a new itinerary for the owner
func (s *ItineraryService) Create(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Itinerary, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	itinerary := &domain.Itinerary{
		UserID: ownerID,
		Name:   name,
	}
	if err := s.itineraries.Create(ctx, itinerary); err != nil {
		if errors.Is(err, domain.ErrUniqueViolation) {
			return nil, duplicateName()
		}
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}

	return itinerary, nil
}

// List returns the owner's itineraries, newest first
func (s *ItineraryService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Itinerary, error) {
	itineraries, err := s.itineraries.ListByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	if itineraries == nil {
		itineraries = []domain.Itinerary{}
	}
	return itineraries, nil
}

// Get returns an itinerary together with its flights
func (s *ItineraryService) Get(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.ItineraryDetail, error) {
	itinerary, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	flights, err := s.flights.ListByItineraryID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	if flights == nil {
		flights = []domain.Flight{}
	}

	return &domain.ItineraryDetail{Itinerary: *itinerary, Flights: flights}, nil
}

// Rename changes an itinerary's name. Names stay unique per owner.
func (s *ItineraryService) Rename(ctx context.Context, ownerID uuid.UUID, id int64, name string) (*domain.Itinerary, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	itinerary, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if itinerary.Name == name {
		return itinerary, nil
	}

	updated, err := s.itineraries.UpdateName(ctx, id, name)
	if err != nil {
		if errors.Is(err, domain.ErrUniqueViolation) {
			return nil, duplicateName()
		}
		return nil, fmt.Errorf("failed to rename itinerary: %w", err)
	}
	if updated == nil {
		// deleted between the ownership check and the update
		return nil, domain.NotFound("itinerary not found")
	}

	return updated, nil
}

// Delete removes an itinerary and all of its flights
func (s *ItineraryService) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	if _, err := s.authorize(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.itineraries.DeleteWithFlights(ctx, id); err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	return nil
}

// AddFlight saves the outbound leg of a selected flight option
func (s *ItineraryService) AddFlight(ctx context.Context, ownerID uuid.UUID, id int64, req domain.AddFlightRequest) (*domain.Flight, error) {
	flight, err := flightFromOption(req.Outbound)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorize(ctx, ownerID, id); err != nil {
		return nil, err
	}

	flight.ItineraryID = id
	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to add flight: %w", err)
	}

	return flight, nil
}

// authorize loads an itinerary and checks that ownerID owns it. A missing
// itinerary is NotFound; someone else's is Forbidden.
func (s *ItineraryService) authorize(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Itinerary, error) {
	itinerary, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	if itinerary == nil {
		return nil, domain.NotFound("itinerary not found")
	}
	if itinerary.UserID != ownerID {
		return nil, domain.Forbidden("you do not have access to this itinerary")
	}
	return itinerary, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Validation("name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxItineraryNameLength {
		return "", domain.Validation(fmt.Sprintf("name must be at most %d characters", domain.MaxItineraryNameLength))
	}
	return name, nil
}

func duplicateName() error {
	return domain.Conflict("an itinerary with this name already exists")
}

// flightFromOption copies the fields of a normalized option into a Flight
func flightFromOption(option *domain.FlightOption) (*domain.Flight, error) {
	if option == nil {
		return nil, domain.Validation("outbound flight is required")
	}
	if len(option.SegmentsDetails) == 0 {
		return nil, domain.Validation("flight has no segment details")
	}
	segment := option.SegmentsDetails[0]
	if segment.FlightNumber == "" || segment.AirlineName == "" {
		return nil, domain.Validation("flight number and airline are required")
	}
	if utf8.RuneCountInString(segment.FlightNumber) > domain.MaxFlightNumberLength {
		return nil, domain.Validation(fmt.Sprintf("flight number must be at most %d characters", domain.MaxFlightNumberLength))
	}
	if utf8.RuneCountInString(segment.AirlineName) > domain.MaxAirlineNameLength {
		return nil, domain.Validation(fmt.Sprintf("airline name must be at most %d characters", domain.MaxAirlineNameLength))
	}
	if option.OriginCode == "" || option.ArrivalCode == "" {
		return nil, domain.Validation("origin and arrival codes are required")
	}
	if utf8.RuneCountInString(option.OriginCode) > domain.MaxAirportCodeLength ||
		utf8.RuneCountInString(option.ArrivalCode) > domain.MaxAirportCodeLength {
		return nil, domain.Validation(fmt.Sprintf("origin and arrival codes must be at most %d characters", domain.MaxAirportCodeLength))
	}
	if !isCurrencyCode(option.Price.Currency) {
		return nil, domain.Validation("currency must be 3 uppercase letters")
	}

	departure, err := parseFlightTime(option.DepartureTime)
	if err != nil {
		return nil, domain.Validation("invalid departure time")
	}
	arrival, err := parseFlightTime(option.ArrivalTime)
	if err != nil {
		return nil, domain.Validation("invalid arrival time")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(option.Price.Total))
	if err != nil {
		return nil, domain.Validation("invalid price")
	}
	if price.IsNegative() {
		return nil, domain.Validation("price must not be negative")
	}
	// round once so the returned flight matches what the store keeps
	price = price.Round(domain.PriceScale)
	if price.GreaterThanOrEqual(domain.MaxFlightPrice) {
		return nil, domain.Validation("price is too large")
	}

	return &domain.Flight{
		FlightNumber:    segment.FlightNumber,
		AirlineName:     segment.AirlineName,
		OriginCode:      option.OriginCode,
		DestinationCode: option.ArrivalCode,
		DepartureAt:     departure,
		ArrivalAt:       arrival,
		Price:           price,
		Currency:        option.Price.Currency,
	}, nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// parseFlightTime reads a provider timestamp. Times without a zone are
// taken as UTC wall clock.
func parseFlightTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range flightTimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
