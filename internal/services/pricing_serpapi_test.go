package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"tripplanner/pkg/utils"
)

func TestAirportCode(t *testing.T) {
	cases := map[string]string{
		"Zermatt, Switzerland (ZRH)":   "ZRH",
		"Tokyo, Japan (HND/NRT)":       "HND",
		"Lisbon, Portugal":             "",
		"Nice, France (nce)":           "",
		"Cape Town, South Africa(CPT)": "CPT",
	}
	for in, want := range cases {
		got, ok := AirportCode(in)
		if got != want || ok != (want != "") {
			t.Errorf("%q: expected %q, got %q (%v)", in, want, got, ok)
		}
	}
}

func TestSerpAPIFlightAndHotelLookups(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query()
		if q.Get("api_key") != "key" {
			t.Errorf("missing api key")
		}
		switch q.Get("engine") {
		case "google_flights":
			if q.Get("departure_id") != "TLV" || q.Get("arrival_id") != "ZRH" {
				t.Errorf("unexpected flight query %v", q)
			}
			w.Write([]byte(`{"price_insights":{"lowest_price":455},"best_flights":[{"price":470}],"other_flights":[{"price":430}]}`))
		case "google_hotels":
			if q.Get("q") != "hotels in Zermatt, Switzerland" {
				t.Errorf("unexpected hotel query %q", q.Get("q"))
			}
			w.Write([]byte(`{"properties":[{"name":"A","total_rate":{"extracted_lowest":800}},{"name":"B","total_rate":{"extracted_lowest":1900}},{"name":"C","total_rate":{"extracted_lowest":2600}}]}`))
		default:
			http.Error(w, "unknown engine", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	p := NewSerpAPIPricingProvider("key", "TLV", NewInMemoryQuoteCache())
	p.BaseURL = srv.URL
	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	flight, err := p.CheapestFlight(context.Background(), "Zermatt, Switzerland (ZRH)", start, end)
	if err != nil || flight.Price != 430 {
		t.Fatalf("expected cheapest 430, got %+v (%v)", flight, err)
	}

	hotel, err := p.MostExpensiveHotel(context.Background(), "Zermatt, Switzerland (ZRH)", 2500-flight.Price, start, end)
	if err != nil || hotel.Name != "B" {
		t.Fatalf("expected hotel B, got %+v (%v)", hotel, err)
	}

	// second lookups are served from the cache
	if _, err := p.CheapestFlight(context.Background(), "Zermatt, Switzerland (ZRH)", start, end); err != nil {
		t.Fatalf("cached flight: %v", err)
	}
	if _, err := p.MostExpensiveHotel(context.Background(), "Zermatt, Switzerland (ZRH)", 5000, start, end); err != nil {
		t.Fatalf("cached hotel: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", n)
	}
}

func TestSerpAPIFlightWithoutAirportCode(t *testing.T) {
	p := NewSerpAPIPricingProvider("key", "TLV", NewInMemoryQuoteCache())
	if _, err := p.CheapestFlight(context.Background(), "Lisbon, Portugal", time.Now(), time.Now()); !errors.Is(err, utils.ErrNoFlightFound) {
		t.Fatalf("expected ErrNoFlightFound, got %v", err)
	}
}
