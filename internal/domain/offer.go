package domain

// Search defaults applied before the provider is called
const (
	DefaultAdults    = 1
	DefaultMaxOffers = 10
)

// SearchRequest is the flight search query forwarded to the offer provider
type SearchRequest struct {
	OriginLocationCode      string `json:"originLocationCode" validate:"required,iata"`
	DestinationLocationCode string `json:"destinationLocationCode" validate:"required,iata"`
	DepartureDate           string `json:"departureDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate              string `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Adults                  int    `json:"adults,omitempty" validate:"omitempty,min=1,max=9"`
	Children                int    `json:"children,omitempty" validate:"omitempty,min=0,max=9"`
	Infants                 int    `json:"infants,omitempty" validate:"omitempty,min=0,max=9"`
	TravelClass             string `json:"travelClass,omitempty" validate:"omitempty,oneof=ECONOMY PREMIUM_ECONOMY BUSINESS FIRST"`
	NonStop                 bool   `json:"nonStop,omitempty"`
	MaxPrice                int    `json:"maxPrice,omitempty" validate:"omitempty,min=0"`
	CurrencyCode            string `json:"currencyCode,omitempty" validate:"omitempty,len=3,alpha,uppercase"`
	IncludedAirlineCodes    string `json:"includedAirlineCodes,omitempty"`
	ExcludedAirlineCodes    string `json:"excludedAirlineCodes,omitempty"`
	Max                     int    `json:"max,omitempty" validate:"omitempty,min=1,max=250"`
}

// WithDefaults returns a copy with adults and max filled in when unset
func (r SearchRequest) WithDefaults() SearchRequest {
	if r.Adults == 0 {
		r.Adults = DefaultAdults
	}
	if r.Max == 0 {
		r.Max = DefaultMaxOffers
	}
	return r
}

// Price is an offer-level price block. Total stays a string so the
// provider's decimal representation is passed through untouched.
type Price struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

// SegmentDetail names the airline and flight number of one segment
type SegmentDetail struct {
	AirlineName  string `json:"airlineName"`
	FlightNumber string `json:"flightNumber"`
}

// FlightOption is one normalized directed journey (outbound or inbound)
type FlightOption struct {
	OriginCode      string          `json:"originCode"`
	ArrivalCode     string          `json:"arrivalCode"`
	DepartureTime   string          `json:"departureTime"`
	ArrivalTime     string          `json:"arrivalTime"`
	Duration        string          `json:"duration"`
	NonStop         bool            `json:"nonStop"`
	NumberOfStops   int             `json:"numberOfStops"`
	Price           Price           `json:"price"`
	SegmentsDetails []SegmentDetail `json:"segmentsDetails"`
}
