package response_models

// SuggestionPayload is one element of the /get-travel-suggestions/ response.
// Prices are optional and may be null.
type SuggestionPayload struct {
	Destination string   `json:"destination"`
	Summary     string   `json:"summary"`
	FlightPrice *float64 `json:"flight_price,omitempty"`
	HotelPrice  *float64 `json:"hotel_price,omitempty"`
	TotalPrice  *float64 `json:"total_price,omitempty"`
}

// DailyPlanPayload is the /generate-daily-plan/ response. A nil image
// marks a failed generation.
type DailyPlanPayload struct {
	DailyPlan string    `json:"daily_plan"`
	Images    []*string `json:"images"`
}

type DestinationSuggestion struct {
	Destination string  `json:"destination"`
	Summary     string  `json:"summary"`
	FlightPrice float64 `json:"flight_price"`
	HotelPrice  float64 `json:"hotel_price"`
	TotalPrice  float64 `json:"total_price"`
	Priced      bool    `json:"priced"`
}

// DailyPlan keeps image order; an empty entry is a failed image.
type DailyPlan struct {
	Text   string   `json:"daily_plan"`
	Images []string `json:"images"`
}

type TripSearchResponse struct {
	ID                  string  `json:"id"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	Budget              float64 `json:"budget"`
	TripType            string  `json:"trip_type"`
	SuggestionCount     int     `json:"suggestion_count"`
	SelectedDestination string  `json:"selected_destination,omitempty"`
	CreatedAt           string  `json:"created_at"`
}
