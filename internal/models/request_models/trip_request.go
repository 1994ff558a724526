package request_models

import (
	"net/url"
	"strings"
	"time"
	"tripplanner/pkg/utils"
)

type TripType string

const (
	TripTypeSki   TripType = "ski"
	TripTypeBeach TripType = "beach"
	TripTypeCity  TripType = "city"
)

// TripTypes is the selectable set, in display order.
var TripTypes = []TripType{TripTypeSki, TripTypeBeach, TripTypeCity}

func ParseTripType(value string) (TripType, bool) {
	v := TripType(strings.ToLower(strings.TrimSpace(value)))
	for _, t := range TripTypes {
		if t == v {
			return t, true
		}
	}
	return "", false
}

func (t TripType) Label() string {
	switch t {
	case TripTypeSki:
		return "Ski"
	case TripTypeBeach:
		return "Beach"
	case TripTypeCity:
		return "City"
	}
	return string(t)
}

// TripForm holds the four raw form values exactly as typed. The query keys
// double as the deep-link parameters.
type TripForm struct {
	StartDate string `form:"startDate" json:"startDate"`
	EndDate   string `form:"endDate" json:"endDate"`
	Budget    string `form:"budget" json:"budget"`
	TripType  string `form:"tripType" json:"tripType"`
}

func (f TripForm) IsBlank() bool {
	return strings.TrimSpace(f.StartDate) == "" &&
		strings.TrimSpace(f.EndDate) == "" &&
		strings.TrimSpace(f.Budget) == "" &&
		strings.TrimSpace(f.TripType) == ""
}

func (f TripForm) QueryValues() url.Values {
	q := url.Values{}
	q.Set("startDate", f.StartDate)
	q.Set("endDate", f.EndDate)
	q.Set("budget", f.Budget)
	q.Set("tripType", f.TripType)
	return q
}

func TripFormFromQuery(q url.Values) TripForm {
	return TripForm{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Budget:    q.Get("budget"),
		TripType:  q.Get("tripType"),
	}
}

// TripQuery is a validated TripForm. Only the validator builds one.
type TripQuery struct {
	StartDate time.Time
	EndDate   time.Time
	Budget    float64
	TripType  TripType
}

func (q TripQuery) SuggestionRequest() SuggestionRequest {
	return SuggestionRequest{
		StartDate: utils.FormatDate(q.StartDate),
		EndDate:   utils.FormatDate(q.EndDate),
		Budget:    q.Budget,
		TripType:  string(q.TripType),
	}
}

func (q TripQuery) DailyPlanRequest(destination string) DailyPlanRequest {
	return DailyPlanRequest{
		Destination: destination,
		StartDate:   utils.FormatDate(q.StartDate),
		EndDate:     utils.FormatDate(q.EndDate),
	}
}

// SuggestionRequest is the body of POST /get-travel-suggestions/.
type SuggestionRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Budget    float64 `json:"budget"`
	TripType  string  `json:"trip_type"`
}

// DailyPlanRequest is the body of POST /generate-daily-plan/.
type DailyPlanRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type SelectDestinationRequest struct {
	Index *int `form:"index" json:"index" binding:"required"`
}

type ListSearchesRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}
