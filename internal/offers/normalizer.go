// Package offers turns a raw flight-offers search document into the flat
// options the browser client renders.
package offers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rrens/itinerary-planner/internal/domain"
)

// ErrMalformedResponse is returned when the provider document cannot be
// parsed or lacks the offers list.
var ErrMalformedResponse = errors.New("malformed flight offers response")

// Result is the normalized search output
type Result struct {
	// Offers holds one group per offer: the outbound option, then the
	// inbound option for round trips.
	Offers [][]domain.FlightOption
	// Skipped counts itineraries dropped for having no segments
	Skipped int
}

type searchDocument struct {
	Data         *[]flightOffer `json:"data"`
	Dictionaries struct {
		Carriers map[string]string `json:"carriers"`
	} `json:"dictionaries"`
}

type flightOffer struct {
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	Itineraries []offerItinerary `json:"itineraries"`
}

type offerItinerary struct {
	Duration string    `json:"duration"`
	Segments []segment `json:"segments"`
}

type segment struct {
	Departure     endpoint `json:"departure"`
	Arrival       endpoint `json:"arrival"`
	CarrierCode   string   `json:"carrierCode"`
	Number        string   `json:"number"`
	NumberOfStops int      `json:"numberOfStops"`
}

type endpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

// Normalize parses a provider search document and flattens every offer
// itinerary into a FlightOption. Offer and itinerary order are preserved.
func Normalize(raw []byte) (Result, error) {
	var doc searchDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if doc.Data == nil {
		return Result{}, fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}

	carriers := doc.Dictionaries.Carriers
	result := Result{Offers: make([][]domain.FlightOption, 0, len(*doc.Data))}

	for _, offer := range *doc.Data {
		price := domain.Price{
			Total:    offer.Price.Total,
			Currency: offer.Price.Currency,
		}

		group := make([]domain.FlightOption, 0, len(offer.Itineraries))
		for _, itinerary := range offer.Itineraries {
			if len(itinerary.Segments) == 0 {
				result.Skipped++
				continue
			}
			group = append(group, normalizeItinerary(itinerary, price, carriers))
		}

		if len(group) > 0 {
			result.Offers = append(result.Offers, group)
		}
	}

	return result, nil
}

func normalizeItinerary(itinerary offerItinerary, price domain.Price, carriers map[string]string) domain.FlightOption {
	segments := itinerary.Segments
	first, last := segments[0], segments[len(segments)-1]

	allDirect := true
	stops := 0
	details := make([]domain.SegmentDetail, 0, len(segments))
	for _, seg := range segments {
		if seg.NumberOfStops != 0 {
			allDirect = false
		}
		stops += seg.NumberOfStops
		details = append(details, domain.SegmentDetail{
			AirlineName:  airlineName(carriers, seg.CarrierCode),
			FlightNumber: seg.Number,
		})
	}

	return domain.FlightOption{
		OriginCode:      first.Departure.IATACode,
		ArrivalCode:     last.Arrival.IATACode,
		DepartureTime:   first.Departure.At,
		ArrivalTime:     last.Arrival.At,
		Duration:        itinerary.Duration,
		NonStop:         len(segments) == 1 || allDirect,
		NumberOfStops:   stops,
		Price:           price,
		SegmentsDetails: details,
	}
}

// airlineName falls back to the raw carrier code when the dictionary has no entry
func airlineName(carriers map[string]string, code string) string {
	if name, ok := carriers[code]; ok && name != "" {
		return name
	}
	return code
}
