package view

import (
	"context"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"sync"
	"time"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

// historyTimeout bounds every history write so a slow database cannot hold
// a fetch task open.
const historyTimeout = 5 * time.Second

type Dependencies struct {
	Validator   services.TripValidatorInterface
	Suggestions services.SuggestionServiceInterface
	Itinerary   services.ItineraryServiceInterface
	History     services.SearchHistoryServiceInterface
	Logger      *zap.Logger
}

// Factory builds one PlannerView per browser session.
type Factory struct {
	deps Dependencies
}

func NewFactory(deps Dependencies) *Factory {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Factory{deps: deps}
}

func (f *Factory) New(sessionID string) *PlannerView {
	ctx, cancel := context.WithCancel(context.Background())
	return &PlannerView{
		sessionID: sessionID,
		deps:      f.deps,
		logger:    f.deps.Logger.With(zap.String("session_id", sessionID)),
		state:     FormState{},
		ctx:       ctx,
		cancel:    cancel,
	}
}

// PlannerView owns the state of one planner page. State only changes through
// the SubmitQuery and SelectDestination intents and the results of the
// fetches they start. Fetches are bound to the view's lifetime: after Close
// they are cancelled and anything they return is dropped.
type PlannerView struct {
	sessionID string
	deps      Dependencies
	logger    *zap.Logger

	mu     sync.Mutex
	state  State
	closed bool

	// searchDone is closed once the current search has been written to
	// history, or skipped.
	searchDone chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup
}

func (v *PlannerView) SessionID() string {
	return v.sessionID
}

func (v *PlannerView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Validate re-evaluates the raw form without touching state.
func (v *PlannerView) Validate(form request_models.TripForm) services.FieldErrors {
	return v.deps.Validator.Validate(form)
}

// SubmitQuery validates the form and, when it is complete and clean, moves
// to the suggestions step and starts the suggestions fetch. A rejected form
// makes no network call.
func (v *PlannerView) SubmitQuery(form request_models.TripForm) (services.FieldErrors, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return services.FieldErrors{}, utils.ErrViewClosed
	}
	if v.state.Step() != StepForm {
		return services.FieldErrors{}, v.reject(querySubmitted{form: form})
	}

	query, fieldErrs, err := v.deps.Validator.ValidateForSubmit(form)
	if err != nil {
		if next, terr := transition(v.state, formRejected{form: form, errors: fieldErrs}); terr == nil {
			v.state = next
		}
		return fieldErrs, err
	}

	next, err := transition(v.state, querySubmitted{form: form, query: query})
	if err != nil {
		return fieldErrs, err
	}
	v.state = next

	done := make(chan struct{})
	v.searchDone = done
	v.spawn(func(ctx context.Context) {
		defer close(done)
		v.loadSuggestions(ctx, query)
	})
	return fieldErrs, nil
}

// SelectDestination picks a suggestion by its position in the list and
// starts exactly one itinerary fetch for it.
func (v *PlannerView) SelectDestination(index int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return utils.ErrViewClosed
	}

	var searchID uuid.UUID
	if s, ok := v.state.(SuggestionsState); ok {
		searchID = s.SearchID
	}

	next, err := transition(v.state, destinationSelected{index: index})
	if err != nil {
		return err
	}
	v.state = next
	it := next.(ItineraryState)

	v.spawn(func(ctx context.Context) {
		v.loadPlan(ctx, it.Selected.Destination, it.Query)
	})
	searchDone := v.searchDone
	v.spawn(func(ctx context.Context) {
		v.recordSelection(ctx, searchDone, searchID, it.Selected.Destination)
	})
	return nil
}

// Close cancels in-flight fetches. It does not wait for them; use Wait.
func (v *PlannerView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.cancel()
}

// Wait blocks until every fetch started by this view has returned.
func (v *PlannerView) Wait() {
	v.tasks.Wait()
}

// spawn must be called with mu held and the view open, so no task is added
// after Close.
func (v *PlannerView) spawn(fn func(ctx context.Context)) {
	v.tasks.Add(1)
	go func() {
		defer v.tasks.Done()
		fn(v.ctx)
	}()
}

func (v *PlannerView) loadSuggestions(ctx context.Context, query request_models.TripQuery) {
	suggestions, err := v.deps.Suggestions.FetchSuggestions(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			v.logger.Debug("suggestions fetch cancelled", zap.Error(err))
			return
		}
		v.logger.Error("failed to fetch travel suggestions", zap.Error(err))
		v.apply(suggestionsLoaded{suggestions: []response_models.DestinationSuggestion{}})
		return
	}

	searchID := uuid.New()
	v.apply(suggestionsLoaded{suggestions: suggestions, searchID: searchID})
	v.recordSearch(ctx, searchID, query, len(suggestions))
}

// recordSearch runs after the suggestions are shown.
func (v *PlannerView) recordSearch(ctx context.Context, searchID uuid.UUID, query request_models.TripQuery, count int) {
	if v.deps.History == nil || ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()

	if err := v.deps.History.RecordSearch(ctx, searchID, v.sessionID, query, count); err != nil {
		v.logger.Warn("failed to record trip search", zap.Error(err))
	}
}

// recordSelection waits for the search row so the update has something to
// hit. It runs beside the plan fetch, never in front of it.
func (v *PlannerView) recordSelection(ctx context.Context, searchDone <-chan struct{}, searchID uuid.UUID, destination string) {
	if v.deps.History == nil {
		return
	}
	if searchDone != nil {
		select {
		case <-searchDone:
		case <-ctx.Done():
			return
		}
	}
	ctx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()

	if err := v.deps.History.RecordSelection(ctx, searchID, destination); err != nil {
		v.logger.Warn("failed to record selected destination", zap.Error(err))
	}
}

func (v *PlannerView) loadPlan(ctx context.Context, destination string, query request_models.TripQuery) {
	plan, err := v.deps.Itinerary.FetchDailyPlan(ctx, destination, query)
	if err != nil {
		if ctx.Err() != nil {
			v.logger.Debug("daily plan fetch cancelled", zap.Error(err))
			return
		}
		v.logger.Error("failed to generate daily plan", zap.String("destination", destination), zap.Error(err))
	}

	v.apply(planLoaded{plan: plan})
}

// apply lands a fetch result. Results arriving after Close are dropped.
func (v *PlannerView) apply(ev event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		v.logger.Debug("dropping result for closed view", zap.String("event", ev.name()))
		return
	}
	next, err := transition(v.state, ev)
	if err != nil {
		v.logger.Warn("ignoring fetch result", zap.Error(err))
		return
	}
	v.state = next
}

func (v *PlannerView) reject(ev event) error {
	_, err := transition(v.state, ev)
	return err
}
