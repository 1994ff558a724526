package view

import (
	"fmt"
	"github.com/google/uuid"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type Step int

const (
	StepForm Step = iota
	StepSuggestions
	StepItinerary
)

func (s Step) String() string {
	switch s {
	case StepForm:
		return "form"
	case StepSuggestions:
		return "suggestions"
	case StepItinerary:
		return "itinerary"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// State is one of FormState, SuggestionsState or ItineraryState. Values are
// never mutated in place; transition returns a new one.
type State interface {
	Step() Step
}

type FormState struct {
	Form   request_models.TripForm
	Errors services.FieldErrors
}

func (FormState) Step() Step { return StepForm }

type SuggestionsState struct {
	Form        request_models.TripForm
	Query       request_models.TripQuery
	Loading     bool
	Suggestions []response_models.DestinationSuggestion
	SearchID    uuid.UUID
}

func (SuggestionsState) Step() Step { return StepSuggestions }

// ItineraryState always carries the suggestion it was entered with. Plan is
// nil until the fetch completes, and stays nil if it failed.
type ItineraryState struct {
	Form     request_models.TripForm
	Query    request_models.TripQuery
	Selected response_models.DestinationSuggestion
	Loading  bool
	Plan     *response_models.DailyPlan
}

func (ItineraryState) Step() Step { return StepItinerary }

type event interface {
	name() string
}

type formRejected struct {
	form   request_models.TripForm
	errors services.FieldErrors
}

type querySubmitted struct {
	form  request_models.TripForm
	query request_models.TripQuery
}

// suggestionsLoaded with a nil list is a failed fetch.
type suggestionsLoaded struct {
	suggestions []response_models.DestinationSuggestion
	searchID    uuid.UUID
}

type destinationSelected struct {
	index int
}

type planLoaded struct {
	plan *response_models.DailyPlan
}

func (formRejected) name() string { return "formRejected" }
func (querySubmitted) name() string { return "querySubmitted" }
func (suggestionsLoaded) name() string { return "suggestionsLoaded" }
func (destinationSelected) name() string { return "destinationSelected" }
func (planLoaded) name() string { return "planLoaded" }

// transition is the only place a view moves between steps:
//
//	Form --querySubmitted--> Suggestions(loading) --suggestionsLoaded--> Suggestions
//	Suggestions --destinationSelected--> Itinerary(loading) --planLoaded--> Itinerary
//
// Anything else is ErrInvalidTransition.
func transition(from State, ev event) (State, error) {
	switch s := from.(type) {
	case FormState:
		switch e := ev.(type) {
		case formRejected:
			return FormState{Form: e.form, Errors: e.errors}, nil
		case querySubmitted:
			return SuggestionsState{Form: e.form, Query: e.query, Loading: true}, nil
		}

	case SuggestionsState:
		switch e := ev.(type) {
		case suggestionsLoaded:
			if !s.Loading {
				break
			}
			s.Loading = false
			s.Suggestions = e.suggestions
			s.SearchID = e.searchID
			return s, nil
		case destinationSelected:
			if s.Loading {
				break
			}
			if e.index < 0 || e.index >= len(s.Suggestions) {
				return from, fmt.Errorf("%w: index %d of %d", utils.ErrSuggestionNotFound, e.index, len(s.Suggestions))
			}
			return ItineraryState{
				Form:     s.Form,
				Query:    s.Query,
				Selected: s.Suggestions[e.index],
				Loading:  true,
			}, nil
		}

	case ItineraryState:
		if e, ok := ev.(planLoaded); ok && s.Loading {
			s.Loading = false
			s.Plan = e.plan
			return s, nil
		}
	}

	return from, fmt.Errorf("%w: %s from %s", utils.ErrInvalidTransition, ev.name(), from.Step())
}
