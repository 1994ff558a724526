package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"
	"tripplanner/pkg/utils"
)

type FlightQuote struct {
	Destination string  `json:"destination"`
	Price       float64 `json:"price"`
}

type HotelQuote struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// PricingProvider looks up prices for a destination over a date range.
type PricingProvider interface {
	CheapestFlight(ctx context.Context, destination string, start, end time.Time) (*FlightQuote, error)
	// MostExpensiveHotel returns the priciest stay whose total is <= maxPrice.
	MostExpensiveHotel(ctx context.Context, destination string, maxPrice float64, start, end time.Time) (*HotelQuote, error)
}

func pickCheapestFlight(options []FlightQuote) (*FlightQuote, error) {
	var best *FlightQuote
	for i := range options {
		if options[i].Price <= 0 {
			continue
		}
		if best == nil || options[i].Price < best.Price {
			best = &options[i]
		}
	}
	if best == nil {
		return nil, utils.ErrNoFlightFound
	}
	out := *best
	return &out, nil
}

func pickMostExpensiveHotel(options []HotelQuote, maxPrice float64) (*HotelQuote, error) {
	var best *HotelQuote
	for i := range options {
		p := options[i].Price
		if p <= 0 || p > maxPrice {
			continue
		}
		if best == nil || p > best.Price {
			best = &options[i]
		}
	}
	if best == nil {
		return nil, utils.ErrNoAffordableHotel
	}
	out := *best
	return &out, nil
}

// MockPricingProvider derives stable fake prices from the destination name.
// It stands in for a real pricing service in development and tests.
type MockPricingProvider struct{}

func NewMockPricingProvider() *MockPricingProvider {
	return &MockPricingProvider{}
}

var mockHotelTiers = []struct {
	label string
	mult  float64
}{
	{"Hostel", 0.5},
	{"Guesthouse", 0.8},
	{"Hotel", 1.0},
	{"Boutique Hotel", 1.6},
	{"Grand Resort", 2.8},
}

func (m *MockPricingProvider) FlightOptions(destination string) []FlightQuote {
	seed := hashDestination(destination)
	base := 150 + float64(seed%650)
	return []FlightQuote{
		{Destination: destination, Price: math.Round(base * 1.35)},
		{Destination: destination, Price: math.Round(base)},
		{Destination: destination, Price: math.Round(base * 1.15)},
	}
}

func (m *MockPricingProvider) HotelOptions(destination string, start, end time.Time) []HotelQuote {
	seed := hashDestination(destination)
	nightly := 40 + float64((seed>>10)%260)
	nights := utils.DaysBetween(start, end)
	if nights < 1 {
		nights = 1
	}

	city := cityName(destination)
	options := make([]HotelQuote, 0, len(mockHotelTiers))
	for _, tier := range mockHotelTiers {
		options = append(options, HotelQuote{
			Name:  fmt.Sprintf("%s %s", city, tier.label),
			Price: math.Round(nightly * tier.mult * float64(nights)),
		})
	}
	return options
}

func (m *MockPricingProvider) CheapestFlight(ctx context.Context, destination string, start, end time.Time) (*FlightQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pickCheapestFlight(m.FlightOptions(destination))
}

func (m *MockPricingProvider) MostExpensiveHotel(ctx context.Context, destination string, maxPrice float64, start, end time.Time) (*HotelQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pickMostExpensiveHotel(m.HotelOptions(destination, start, end), maxPrice)
}

func hashDestination(destination string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(destination))))
	return h.Sum32()
}

func cityName(destination string) string {
	city, _, _ := strings.Cut(destination, ",")
	return strings.TrimSpace(city)
}
