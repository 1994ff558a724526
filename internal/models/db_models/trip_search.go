package db_models

// TripSearch is one submitted trip query, kept as history only.
type TripSearch struct {
	BaseModel
	SessionID           string `gorm:"index;size:64"`
	StartDate           string `gorm:"size:10"`
	EndDate             string `gorm:"size:10"`
	Budget              float64
	TripType            string `gorm:"size:16"`
	SuggestionCount     int
	SelectedDestination string
}
