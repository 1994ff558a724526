package view

import (
	"strconv"
	"strings"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

const (
	LoadingText          = "Loading..."
	PriceUnavailableText = "Price unavailable"
	ImageFailedText      = "Image loading failed"
	NoSuggestionsText    = "No destinations found for these dates and budget."

	// refreshSeconds is the meta refresh interval while a fetch is running.
	refreshSeconds = 2
)

// PlanLayout picks how the plan text is broken up.
type PlanLayout string

const (
	// PlanLayoutLines renders one paragraph per non-empty line.
	PlanLayoutLines PlanLayout = "lines"
	// PlanLayoutDays groups lines into blank-line-delimited day blocks.
	PlanLayoutDays PlanLayout = "days"
)

func ParsePlanLayout(value string) PlanLayout {
	if PlanLayout(strings.ToLower(strings.TrimSpace(value))) == PlanLayoutDays {
		return PlanLayoutDays
	}
	return PlanLayoutLines
}

type PageModel struct {
	Step           string            `json:"step"`
	Loading        bool              `json:"loading"`
	RefreshSeconds int               `json:"refresh_seconds,omitempty"`
	Form           *FormModel        `json:"form,omitempty"`
	Suggestions    *SuggestionsModel `json:"suggestions,omitempty"`
	Itinerary      *ItineraryModel   `json:"itinerary,omitempty"`
}

type FormModel struct {
	Values    request_models.TripForm `json:"values"`
	Errors    services.FieldErrors    `json:"errors"`
	TripTypes []OptionModel           `json:"trip_types"`

	// CanSubmit is true when every field is filled in and nothing is flagged.
	CanSubmit bool `json:"can_submit"`
}

type OptionModel struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type QueryModel struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Budget    float64 `json:"budget"`
	TripType  string  `json:"trip_type"`
}

type SuggestionsModel struct {
	Query   QueryModel       `json:"query"`
	Loading bool             `json:"loading"`
	Items   []SuggestionItem `json:"items"`
}

type SuggestionItem struct {
	Index        int     `json:"index"`
	Destination  string  `json:"destination"`
	Summary      string  `json:"summary"`
	Priced       bool    `json:"priced"`
	FlightPrice  float64 `json:"flight_price"`
	HotelPrice   float64 `json:"hotel_price"`
	TotalPrice   float64 `json:"total_price"`
	TotalDisplay string  `json:"total_display"`
}

type ItineraryModel struct {
	Query         QueryModel   `json:"query"`
	Destination   string       `json:"destination"`
	Summary       string       `json:"summary"`
	Loading       bool         `json:"loading"`
	Priced        bool         `json:"priced"`
	FlightDisplay string       `json:"flight_display"`
	HotelDisplay  string       `json:"hotel_display"`
	Total         float64      `json:"total"`
	TotalDisplay  string       `json:"total_display"`
	Layout        PlanLayout   `json:"layout"`
	Paragraphs    []string     `json:"paragraphs,omitempty"`
	Days          []DayGroup   `json:"days,omitempty"`
	Images        []ImageModel `json:"images"`
}

type DayGroup struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

type ImageModel struct {
	URL         string `json:"url,omitempty"`
	Alt         string `json:"alt"`
	Failed      bool   `json:"failed"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Render maps a state to the page model. It has no side effects.
func Render(state State, layout PlanLayout) PageModel {
	switch s := state.(type) {
	case SuggestionsState:
		page := PageModel{
			Step:        StepSuggestions.String(),
			Loading:     s.Loading,
			Suggestions: renderSuggestions(s),
		}
		if s.Loading {
			page.RefreshSeconds = refreshSeconds
		}
		return page

	case ItineraryState:
		page := PageModel{
			Step:      StepItinerary.String(),
			Loading:   s.Loading,
			Itinerary: renderItinerary(s, layout),
		}
		if s.Loading {
			page.RefreshSeconds = refreshSeconds
		}
		return page

	case FormState:
		return PageModel{Step: StepForm.String(), Form: renderForm(s)}
	}

	return PageModel{Step: StepForm.String(), Form: renderForm(FormState{})}
}

func renderForm(s FormState) *FormModel {
	selected, _ := request_models.ParseTripType(s.Form.TripType)
	options := make([]OptionModel, 0, len(request_models.TripTypes))
	for _, t := range request_models.TripTypes {
		options = append(options, OptionModel{
			Value:    string(t),
			Label:    t.Label(),
			Selected: t == selected,
		})
	}
	return &FormModel{
		Values:    s.Form,
		Errors:    s.Errors,
		TripTypes: options,
		CanSubmit: formComplete(s.Form) && s.Errors.Empty(),
	}
}

func formComplete(f request_models.TripForm) bool {
	return strings.TrimSpace(f.StartDate) != "" &&
		strings.TrimSpace(f.EndDate) != "" &&
		strings.TrimSpace(f.Budget) != "" &&
		strings.TrimSpace(f.TripType) != ""
}

func renderQuery(q request_models.TripQuery) QueryModel {
	return QueryModel{
		StartDate: utils.FormatDate(q.StartDate),
		EndDate:   utils.FormatDate(q.EndDate),
		Budget:    q.Budget,
		TripType:  q.TripType.Label(),
	}
}

func renderSuggestions(s SuggestionsState) *SuggestionsModel {
	items := make([]SuggestionItem, 0, len(s.Suggestions))
	for i, sug := range s.Suggestions {
		item := SuggestionItem{
			Index:        i,
			Destination:  sug.Destination,
			Summary:      sug.Summary,
			Priced:       sug.Priced,
			TotalDisplay: PriceUnavailableText,
		}
		if sug.Priced {
			item.FlightPrice = sug.FlightPrice
			item.HotelPrice = sug.HotelPrice
			item.TotalPrice = sug.TotalPrice
			item.TotalDisplay = FormatPrice(sug.TotalPrice)
		}
		items = append(items, item)
	}
	return &SuggestionsModel{
		Query:   renderQuery(s.Query),
		Loading: s.Loading,
		Items:   items,
	}
}

func renderItinerary(s ItineraryState, layout PlanLayout) *ItineraryModel {
	sel := s.Selected
	m := &ItineraryModel{
		Query:         renderQuery(s.Query),
		Destination:   sel.Destination,
		Summary:       sel.Summary,
		Loading:       s.Loading,
		Priced:        sel.Priced,
		FlightDisplay: PriceUnavailableText,
		HotelDisplay:  PriceUnavailableText,
		TotalDisplay:  PriceUnavailableText,
		Layout:        layout,
		Images:        []ImageModel{},
	}
	if sel.Priced {
		m.Total = sel.FlightPrice + sel.HotelPrice
		m.FlightDisplay = FormatPrice(sel.FlightPrice)
		m.HotelDisplay = FormatPrice(sel.HotelPrice)
		m.TotalDisplay = FormatPrice(m.Total)
	}
	if s.Plan == nil {
		return m
	}

	if layout == PlanLayoutDays {
		m.Days = SplitDays(s.Plan.Text)
	} else {
		m.Paragraphs = SplitLines(s.Plan.Text)
	}
	m.Images = renderImages(s.Plan.Images)
	return m
}

func renderImages(images []string) []ImageModel {
	out := make([]ImageModel, 0, len(images))
	for i, url := range images {
		img := ImageModel{Alt: "Visual representation " + strconv.Itoa(i+1)}
		if url == "" {
			img.Failed = true
			img.Placeholder = ImageFailedText
		} else {
			img.URL = url
		}
		out = append(out, img)
	}
	return out
}

// SplitLines returns one entry per non-blank line.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SplitDays groups lines into blocks separated by one or more blank lines.
// The first line of a block is its title.
func SplitDays(text string) []DayGroup {
	var (
		days    []DayGroup
		current []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		days = append(days, DayGroup{Title: current[0], Lines: current[1:]})
		current = nil
	}

	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return days
}

func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// FormatPrice renders a dollar amount, dropping cents when there are none.
func FormatPrice(v float64) string {
	if v == float64(int64(v)) {
		return "$" + strconv.FormatInt(int64(v), 10)
	}
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}
