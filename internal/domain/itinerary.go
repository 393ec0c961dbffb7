package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxItineraryNameLength bounds the trimmed itinerary name
const MaxItineraryNameLength = 255

// Storage limits for saved flights
const (
	MaxFlightNumberLength = 16
	MaxAirlineNameLength  = 255
	MaxAirportCodeLength  = 8
	PriceScale            = 2
)

// MaxFlightPrice is the exclusive upper bound of a saved price (NUMERIC(12,2))
var MaxFlightPrice = decimal.New(1, 10)

// Itinerary is a user's named trip folder
type Itinerary struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItineraryDetail is an itinerary together with its saved flights
type ItineraryDetail struct {
	Itinerary
	Flights []Flight `json:"flights"`
}

// ItineraryInput is the body of create and rename requests
type ItineraryInput struct {
	Name string `json:"name" validate:"required"`
}

// Flight is a saved leg belonging to exactly one itinerary.
// ArrivalAt is the arrival time of this leg, not a round-trip return date.
// DepartureAt and ArrivalAt are stored and returned in UTC; a timestamp sent
// with an offset loses its local wall clock. Price is rounded to PriceScale
// decimals before it is saved.
type Flight struct {
	ID              int64           `json:"id"`
	ItineraryID     int64           `json:"itineraryId"`
	FlightNumber    string          `json:"flightNumber"`
	AirlineName     string          `json:"airlineName"`
	OriginCode      string          `json:"originCode"`
	DestinationCode string          `json:"destinationCode"`
	DepartureAt     time.Time       `json:"departureAt"`
	ArrivalAt       time.Time       `json:"arrivalAt"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// AddFlightRequest carries the option the user picked from search results.
// Only the outbound leg is persisted.
type AddFlightRequest struct {
	Outbound *FlightOption `json:"outbound"`
	Inbound  *FlightOption `json:"inbound,omitempty"`
}

// ItineraryRepository defines the interface for itinerary storage
type ItineraryRepository interface {
	// Create fills in ID and CreatedAt. It returns ErrUniqueViolation when
	// the owner already has an itinerary with that name.
	Create(ctx context.Context, itinerary *Itinerary) error
	// GetByID returns nil, nil when the itinerary does not exist
	GetByID(ctx context.Context, id int64) (*Itinerary, error)
	// ListByUserID returns the owner's itineraries, newest first
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]Itinerary, error)
	// UpdateName returns ErrUniqueViolation on a name collision
	UpdateName(ctx context.Context, id int64, name string) (*Itinerary, error)
	// DeleteWithFlights removes the itinerary's flights and then the
	// itinerary in a single transaction
	DeleteWithFlights(ctx context.Context, id int64) error
}

// FlightRepository defines the interface for flight storage
type FlightRepository interface {
	// Create fills in ID and CreatedAt
	Create(ctx context.Context, flight *Flight) error
	ListByItineraryID(ctx context.Context, itineraryID int64) ([]Flight, error)
}
