package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
	"tripplanner/pkg/utils"
)

// --------- quote cache per (engine, destination, dates) ---------

type quoteKey struct {
	Engine      string
	Destination string
	Start       string
	End         string
}

type quoteCacheEntry struct {
	Flights   []FlightQuote
	Hotels    []HotelQuote
	ExpiresAt time.Time
}

type QuoteCache interface {
	Get(k quoteKey) (quoteCacheEntry, bool)
	Set(k quoteKey, v quoteCacheEntry, ttl time.Duration)
}

type inMemoryQuoteCache struct {
	mu    sync.RWMutex
	store map[quoteKey]quoteCacheEntry
}

func NewInMemoryQuoteCache() QuoteCache {
	return &inMemoryQuoteCache{store: make(map[quoteKey]quoteCacheEntry)}
}

func (c *inMemoryQuoteCache) Get(k quoteKey) (quoteCacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[k]
	if !ok || time.Now().After(it.ExpiresAt) {
		return quoteCacheEntry{}, false
	}
	return it, true
}

func (c *inMemoryQuoteCache) Set(k quoteKey, v quoteCacheEntry, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v.ExpiresAt = time.Now().Add(ttl)
	c.store[k] = v
}

// -------------- SerpAPI Google Flights / Hotels ---------------

var airportCodePattern = regexp.MustCompile(`\(([A-Z]{3})(?:/[A-Z]{3})*\)`)

type SerpAPIPricingProvider struct {
	HTTP             *http.Client
	APIKey           string
	BaseURL          string
	DepartureAirport string
	Currency         string
	Cache            QuoteCache
	DefaultTTL       time.Duration
}

func NewSerpAPIPricingProvider(apiKey, departureAirport string, cache QuoteCache) *SerpAPIPricingProvider {
	return &SerpAPIPricingProvider{
		HTTP:             &http.Client{Timeout: 20 * time.Second},
		APIKey:           apiKey,
		BaseURL:          "https://serpapi.com/search",
		DepartureAirport: departureAirport,
		Currency:         "USD",
		Cache:            cache,
		DefaultTTL:       6 * time.Hour,
	}
}

// AirportCode pulls an IATA code out of "City, Country (ABC)" or "(ABC/DEF)".
func AirportCode(destination string) (string, bool) {
	m := airportCodePattern.FindStringSubmatch(destination)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

func (p *SerpAPIPricingProvider) CheapestFlight(ctx context.Context, destination string, start, end time.Time) (*FlightQuote, error) {
	code, ok := AirportCode(destination)
	if !ok {
		return nil, fmt.Errorf("%w: no airport code in %q", utils.ErrNoFlightFound, destination)
	}

	key := quoteKey{Engine: "google_flights", Destination: code, Start: utils.FormatDate(start), End: utils.FormatDate(end)}
	if v, ok := p.Cache.Get(key); ok {
		return pickCheapestFlight(v.Flights)
	}

	q := url.Values{}
	q.Set("engine", "google_flights")
	q.Set("departure_id", p.DepartureAirport)
	q.Set("arrival_id", code)
	q.Set("outbound_date", key.Start)
	q.Set("return_date", key.End)
	q.Set("currency", p.Currency)

	var payload struct {
		PriceInsights struct {
			LowestPrice *float64 `json:"lowest_price"`
		} `json:"price_insights"`
		BestFlights []struct {
			Price float64 `json:"price"`
		} `json:"best_flights"`
		OtherFlights []struct {
			Price float64 `json:"price"`
		} `json:"other_flights"`
	}
	if err := p.search(ctx, q, &payload); err != nil {
		return nil, err
	}

	var options []FlightQuote
	if payload.PriceInsights.LowestPrice != nil {
		options = append(options, FlightQuote{Destination: destination, Price: *payload.PriceInsights.LowestPrice})
	}
	for _, f := range payload.BestFlights {
		options = append(options, FlightQuote{Destination: destination, Price: f.Price})
	}
	for _, f := range payload.OtherFlights {
		options = append(options, FlightQuote{Destination: destination, Price: f.Price})
	}

	p.Cache.Set(key, quoteCacheEntry{Flights: options}, p.DefaultTTL)
	return pickCheapestFlight(options)
}

func (p *SerpAPIPricingProvider) MostExpensiveHotel(ctx context.Context, destination string, maxPrice float64, start, end time.Time) (*HotelQuote, error) {
	if maxPrice <= 0 {
		return nil, utils.ErrNoAffordableHotel
	}

	place := strings.TrimSpace(airportCodePattern.ReplaceAllString(destination, ""))
	key := quoteKey{Engine: "google_hotels", Destination: strings.ToLower(place), Start: utils.FormatDate(start), End: utils.FormatDate(end)}
	if v, ok := p.Cache.Get(key); ok {
		return pickMostExpensiveHotel(v.Hotels, maxPrice)
	}

	q := url.Values{}
	q.Set("engine", "google_hotels")
	q.Set("q", "hotels in "+place)
	q.Set("check_in_date", key.Start)
	q.Set("check_out_date", key.End)
	q.Set("currency", p.Currency)
	q.Set("sort_by", "8") // highest rating

	var payload struct {
		Properties []struct {
			Name      string `json:"name"`
			TotalRate struct {
				ExtractedLowest float64 `json:"extracted_lowest"`
			} `json:"total_rate"`
		} `json:"properties"`
	}
	if err := p.search(ctx, q, &payload); err != nil {
		return nil, err
	}

	options := make([]HotelQuote, 0, len(payload.Properties))
	for _, h := range payload.Properties {
		options = append(options, HotelQuote{Name: h.Name, Price: h.TotalRate.ExtractedLowest})
	}

	// cached unfiltered so other budgets can reuse the listing
	p.Cache.Set(key, quoteCacheEntry{Hotels: options}, p.DefaultTTL)
	return pickMostExpensiveHotel(options, maxPrice)
}

func (p *SerpAPIPricingProvider) search(ctx context.Context, q url.Values, out any) error {
	q.Set("api_key", p.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("serpapi request: %w", err)
	}
	resp, err := p.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("serpapi http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("serpapi bad status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("serpapi decode: %w", err)
	}
	return nil
}
