package view

import (
	"bytes"
	"strings"
	"testing"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/services"
)

func TestSplitLinesDropsBlankLines(t *testing.T) {
	got := SplitLines("Day 1: Old town\r\n\r\n  Day 2: Beach  \n\n\n")
	if len(got) != 2 || got[0] != "Day 1: Old town" || got[1] != "Day 2: Beach" {
		t.Fatalf("unexpected paragraphs %q", got)
	}
}

func TestSplitDaysGroupsBlocks(t *testing.T) {
	days := SplitDays("\nDay 1\nMorning hike\nEvening fondue\n\n\nDay 2\nSki lessons\n\nDay 3")
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %+v", days)
	}
	if days[0].Title != "Day 1" || len(days[0].Lines) != 2 {
		t.Fatalf("unexpected first day %+v", days[0])
	}
	if days[2].Title != "Day 3" || len(days[2].Lines) != 0 {
		t.Fatalf("unexpected last day %+v", days[2])
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{
		0:      "$0",
		1250:   "$1250",
		99.5:   "$99.50",
		310.25: "$310.25",
	}
	for in, want := range cases {
		if got := FormatPrice(in); got != want {
			t.Fatalf("FormatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderUnpricedSuggestion(t *testing.T) {
	page := Render(SuggestionsState{Suggestions: []response_models.DestinationSuggestion{
		{Destination: "Reykjavik, Iceland", Summary: "Northern lights"},
	}}, PlanLayoutLines)

	item := page.Suggestions.Items[0]
	if item.Priced || item.TotalDisplay != PriceUnavailableText {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestRenderLoadingPagesRefresh(t *testing.T) {
	if page := Render(SuggestionsState{Loading: true}, PlanLayoutLines); page.RefreshSeconds == 0 || !page.Loading {
		t.Fatalf("loading suggestions should refresh: %+v", page)
	}
	if page := Render(ItineraryState{Loading: true}, PlanLayoutLines); page.RefreshSeconds == 0 {
		t.Fatalf("loading itinerary should refresh: %+v", page)
	}
	if page := Render(FormState{}, PlanLayoutLines); page.RefreshSeconds != 0 {
		t.Fatalf("form should not refresh: %+v", page)
	}
}

func TestRenderFormMarksSelectedTripType(t *testing.T) {
	page := Render(FormState{
		Form:   request_models.TripForm{TripType: "beach"},
		Errors: services.FieldErrors{Budget: services.MsgBudgetRequired},
	}, PlanLayoutLines)

	if page.Step != "form" || len(page.Form.TripTypes) != 3 {
		t.Fatalf("unexpected form %+v", page.Form)
	}
	for _, opt := range page.Form.TripTypes {
		if opt.Selected != (opt.Value == "beach") {
			t.Fatalf("unexpected selection %+v", opt)
		}
	}
}

func TestParsePlanLayout(t *testing.T) {
	if ParsePlanLayout(" Days ") != PlanLayoutDays || ParsePlanLayout("") != PlanLayoutLines || ParsePlanLayout("grid") != PlanLayoutLines {
		t.Fatalf("unexpected layout parsing")
	}
}

func TestTemplatesRenderItinerary(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	page := Render(ItineraryState{
		Selected: response_models.DestinationSuggestion{Destination: "Lisbon, Portugal", FlightPrice: 220, HotelPrice: 480, TotalPrice: 700, Priced: true},
		Plan: &response_models.DailyPlan{
			Text:   "Day 1\nTram 28\n\nDay 2\nBelem",
			Images: []string{"https://img.example/1.png", ""},
		},
	}, PlanLayoutDays)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, PageTemplate, page); err != nil {
		t.Fatalf("execute: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"Lisbon, Portugal", "Total Price: $700", "Tram 28", ImageFailedText, "https://img.example/1.png"} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered page missing %q", want)
		}
	}
	if strings.Contains(html, "http-equiv") {
		t.Fatalf("finished itinerary should not refresh")
	}
}

func TestFormPageRevalidatesOnChange(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	var blank bytes.Buffer
	if err := tmpl.ExecuteTemplate(&blank, PageTemplate, Render(FormState{}, PlanLayoutLines)); err != nil {
		t.Fatalf("execute: %v", err)
	}
	html := blank.String()
	for _, want := range []string{
		`data-validate-url="/trip/validate"`,
		`form.addEventListener("input", revalidate)`,
		`form.addEventListener("change", revalidate)`,
		`data-error-for="startDate"`,
		`data-error-for="tripType"`,
		`<button type="submit" disabled>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("form page missing %q", want)
		}
	}

	complete := Render(FormState{Form: request_models.TripForm{
		StartDate: "2026-11-01", EndDate: "2026-11-08", Budget: "900", TripType: "city",
	}}, PlanLayoutLines)
	if !complete.Form.CanSubmit {
		t.Fatalf("complete form without errors should be submittable")
	}
	var filled bytes.Buffer
	if err := tmpl.ExecuteTemplate(&filled, PageTemplate, complete); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(filled.String(), `<button type="submit">Get suggestions</button>`) {
		t.Fatalf("submit button should be enabled for a complete form")
	}

	flagged := Render(FormState{
		Form:   complete.Form.Values,
		Errors: services.FieldErrors{StartDate: services.MsgStartDateExpired},
	}, PlanLayoutLines)
	if flagged.Form.CanSubmit {
		t.Fatalf("form with errors must not be submittable")
	}
}
