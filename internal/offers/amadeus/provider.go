// Package amadeus implements the flight-offers provider backed by the
// Amadeus Self-Service API.
package amadeus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Rrens/itinerary-planner/internal/config"
	"github.com/Rrens/itinerary-planner/internal/domain"
)

const (
	defaultBaseURL = "https://test.api.amadeus.com"
	defaultTimeout = 15 * time.Second

	tokenPath  = "/v1/security/oauth2/token"
	offersPath = "/v2/shopping/flight-offers"

	// maxBodySize caps how much of an offers document is read
	maxBodySize = 16 << 20
)

// ErrNotConfigured is returned by searches when no client credentials are set
var ErrNotConfigured = errors.New("amadeus credentials are not configured")

// Provider fetches raw flight-offers documents
type Provider struct {
	baseURL    string
	configured bool
	client     *http.Client
}

// NewProvider creates a new Amadeus provider. The returned client acquires
// and refreshes its access token on demand.
func NewProvider(cfg config.AmadeusConfig) *Provider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// the token request shares the search timeout
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
	client := creds.Client(tokenCtx)
	client.Timeout = timeout

	return &Provider{
		baseURL:    baseURL,
		configured: cfg.ClientID != "" && cfg.ClientSecret != "",
		client:     client,
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "amadeus"
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.configured
}

// SearchFlightOffers runs a flight-offers search and returns the response
// body untouched.
func (p *Provider) SearchFlightOffers(ctx context.Context, req domain.SearchRequest) ([]byte, error) {
	if !p.configured {
		return nil, ErrNotConfigured
	}

	endpoint := p.baseURL + offersPath + "?" + queryParams(req).Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/vnd.amadeus+json, application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("amadeus returned status %d", resp.StatusCode)
	}

	return body, nil
}

// queryParams maps a search request onto the flight-offers query string.
// Zero values are left out so the API applies its own defaults.
func queryParams(req domain.SearchRequest) url.Values {
	q := url.Values{}
	q.Set("originLocationCode", req.OriginLocationCode)
	q.Set("destinationLocationCode", req.DestinationLocationCode)

	setString := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	setInt := func(key string, value int) {
		if value != 0 {
			q.Set(key, strconv.Itoa(value))
		}
	}

	setString("departureDate", req.DepartureDate)
	setString("returnDate", req.ReturnDate)
	setInt("adults", req.Adults)
	setInt("children", req.Children)
	setInt("infants", req.Infants)
	setString("travelClass", req.TravelClass)
	setString("includedAirlineCodes", req.IncludedAirlineCodes)
	setString("excludedAirlineCodes", req.ExcludedAirlineCodes)
	if req.NonStop {
		q.Set("nonStop", "true")
	}
	setString("currencyCode", req.CurrencyCode)
	setInt("maxPrice", req.MaxPrice)
	setInt("max", req.Max)

	return q
}
