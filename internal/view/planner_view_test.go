package view

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"sync"
	"testing"
	"time"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type stubBackend struct {
	suggestions    []response_models.SuggestionPayload
	suggestionsErr error
	plan           *response_models.DailyPlanPayload
	planErr        error
	gate           chan struct{}

	mu           sync.Mutex
	suggestCalls int
	planCalls    int
}

func (b *stubBackend) GetTravelSuggestions(ctx context.Context, req request_models.SuggestionRequest) ([]response_models.SuggestionPayload, error) {
	b.mu.Lock()
	b.suggestCalls++
	b.mu.Unlock()
	if b.gate != nil {
		<-b.gate
	}
	return b.suggestions, b.suggestionsErr
}

func (b *stubBackend) GenerateDailyPlan(ctx context.Context, req request_models.DailyPlanRequest) (*response_models.DailyPlanPayload, error) {
	b.mu.Lock()
	b.planCalls++
	b.mu.Unlock()
	return b.plan, b.planErr
}

func (b *stubBackend) calls() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suggestCalls, b.planCalls
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
}

func validForm() request_models.TripForm {
	return request_models.TripForm{
		StartDate: "2026-11-01",
		EndDate:   "2026-11-08",
		Budget:    "10000",
		TripType:  "ski",
	}
}

func newTestView(backend *stubBackend, logger *zap.Logger) *PlannerView {
	factory := NewFactory(Dependencies{
		Validator:   services.NewTripValidator(time.UTC, fixedNow),
		Suggestions: services.NewSuggestionService(backend, services.NewMockPricingProvider(), logger),
		Itinerary:   services.NewItineraryService(backend),
		History:     services.NewSearchHistoryService(repositories.NewNoopTripSearchRepository(), time.UTC),
		Logger:      logger,
	})
	return factory.New("session-test")
}

func price(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func threeSuggestions() []response_models.SuggestionPayload {
	return []response_models.SuggestionPayload{
		{Destination: "Zermatt, Switzerland", Summary: "Matterhorn views", FlightPrice: price(400), HotelPrice: price(600)},
		{Destination: "Niseko, Japan", Summary: "Powder snow"},
		{Destination: "Whistler, Canada", Summary: "Huge ski area"},
	}
}

func suggestionsReady(t *testing.T, backend *stubBackend) *PlannerView {
	t.Helper()
	v := newTestView(backend, zap.NewNop())
	if _, err := v.SubmitQuery(validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	v.Wait()
	return v
}

func TestSubmitQueryRendersEverySuggestion(t *testing.T) {
	backend := &stubBackend{suggestions: threeSuggestions()}
	v := suggestionsReady(t, backend)
	defer v.Close()

	s, ok := v.State().(SuggestionsState)
	if !ok {
		t.Fatalf("expected suggestions step, got %T", v.State())
	}
	if s.Loading {
		t.Fatalf("loading should be cleared")
	}

	page := Render(s, PlanLayoutLines)
	if page.Suggestions == nil || len(page.Suggestions.Items) != 3 {
		t.Fatalf("expected 3 rendered suggestions, got %+v", page.Suggestions)
	}
	for _, item := range page.Suggestions.Items {
		if !item.Priced {
			t.Fatalf("%s was not priced", item.Destination)
		}
		if item.TotalPrice != item.FlightPrice+item.HotelPrice {
			t.Fatalf("%s: total %v != %v + %v", item.Destination, item.TotalPrice, item.FlightPrice, item.HotelPrice)
		}
	}
	if page.Suggestions.Items[0].TotalDisplay != "$1000" {
		t.Fatalf("unexpected total display %q", page.Suggestions.Items[0].TotalDisplay)
	}
}

func TestInvalidSubmitMakesNoBackendCall(t *testing.T) {
	cases := map[string]request_models.TripForm{
		"empty budget":     {StartDate: "2026-11-01", EndDate: "2026-11-08", TripType: "beach"},
		"expired start":    {StartDate: "2026-10-16", EndDate: "2026-11-08", Budget: "500", TripType: "beach"},
		"end before start": {StartDate: "2026-11-08", EndDate: "2026-11-01", Budget: "500", TripType: "beach"},
		"zero budget":      {StartDate: "2026-11-01", EndDate: "2026-11-08", Budget: "0", TripType: "beach"},
		"no trip type":     {StartDate: "2026-11-01", EndDate: "2026-11-08", Budget: "500"},
	}

	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			backend := &stubBackend{suggestions: threeSuggestions()}
			v := newTestView(backend, zap.NewNop())
			defer v.Close()

			fieldErrs, err := v.SubmitQuery(form)
			v.Wait()

			if !errors.Is(err, utils.ErrInvalidTripForm) {
				t.Fatalf("expected ErrInvalidTripForm, got %v", err)
			}
			if fieldErrs.Empty() {
				t.Fatalf("expected field errors")
			}
			if calls, _ := backend.calls(); calls != 0 {
				t.Fatalf("backend called %d times", calls)
			}
			fs, ok := v.State().(FormState)
			if !ok || fs.Errors != fieldErrs || fs.Form != form {
				t.Fatalf("form state not kept: %+v", v.State())
			}
		})
	}
}

func TestFailedSuggestionsLogsExactlyOneError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	backend := &stubBackend{suggestionsErr: utils.ErrBackendUnavailable}
	v := newTestView(backend, zap.New(core))
	defer v.Close()

	if _, err := v.SubmitQuery(validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	v.Wait()

	s, ok := v.State().(SuggestionsState)
	if !ok {
		t.Fatalf("expected suggestions step, got %T", v.State())
	}
	if s.Loading || len(s.Suggestions) != 0 {
		t.Fatalf("expected empty list and no loading, got %+v", s)
	}
	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 1 {
		t.Fatalf("expected exactly one error log, got %d", n)
	}
	if calls, _ := backend.calls(); calls != 1 {
		t.Fatalf("expected a single request, got %d", calls)
	}
}

func TestSelectDestinationFetchesPlanOnce(t *testing.T) {
	backend := &stubBackend{
		suggestions: threeSuggestions(),
		plan: &response_models.DailyPlanPayload{
			DailyPlan: "Day1\nactivity\n\nDay2\nactivity",
			Images:    []*string{str("url1"), nil},
		},
	}
	v := suggestionsReady(t, backend)
	defer v.Close()

	if err := v.SelectDestination(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := v.SelectDestination(1); !errors.Is(err, utils.ErrInvalidTransition) {
		t.Fatalf("second select should be rejected, got %v", err)
	}
	v.Wait()

	if _, planCalls := backend.calls(); planCalls != 1 {
		t.Fatalf("expected one itinerary fetch, got %d", planCalls)
	}

	it, ok := v.State().(ItineraryState)
	if !ok {
		t.Fatalf("expected itinerary step, got %T", v.State())
	}
	if it.Selected.Destination != "Zermatt, Switzerland" || it.Plan == nil {
		t.Fatalf("unexpected itinerary state %+v", it)
	}

	page := Render(it, PlanLayoutDays)
	if len(page.Itinerary.Days) != 2 {
		t.Fatalf("expected 2 day groups, got %+v", page.Itinerary.Days)
	}
	var shown, placeholders int
	for _, img := range page.Itinerary.Images {
		if img.Failed {
			placeholders++
			if img.Placeholder != ImageFailedText {
				t.Fatalf("unexpected placeholder %q", img.Placeholder)
			}
		} else {
			shown++
		}
	}
	if shown != 1 || placeholders != 1 {
		t.Fatalf("expected 1 image and 1 placeholder, got %d and %d", shown, placeholders)
	}
	if page.Itinerary.Total != 1000 || page.Itinerary.TotalDisplay != "$1000" {
		t.Fatalf("unexpected total %v %q", page.Itinerary.Total, page.Itinerary.TotalDisplay)
	}
}

func TestSelectDestinationRejectsUnknownIndex(t *testing.T) {
	v := suggestionsReady(t, &stubBackend{suggestions: threeSuggestions()})
	defer v.Close()

	if err := v.SelectDestination(3); !errors.Is(err, utils.ErrSuggestionNotFound) {
		t.Fatalf("expected ErrSuggestionNotFound, got %v", err)
	}
	if _, ok := v.State().(SuggestionsState); !ok {
		t.Fatalf("state should not change, got %T", v.State())
	}
}

func TestSelectBeforeSuggestionsArriveIsRejected(t *testing.T) {
	backend := &stubBackend{suggestions: threeSuggestions(), gate: make(chan struct{})}
	v := newTestView(backend, zap.NewNop())
	defer v.Wait()
	defer v.Close()

	if _, err := v.SubmitQuery(validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := v.SelectDestination(0); !errors.Is(err, utils.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	close(backend.gate)
}

func TestItineraryStepAdvancesWhenPlanFails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	backend := &stubBackend{suggestions: threeSuggestions(), planErr: utils.ErrBackendBadStatus}
	v := newTestView(backend, zap.New(core))
	defer v.Close()

	if _, err := v.SubmitQuery(validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	v.Wait()
	if err := v.SelectDestination(2); err != nil {
		t.Fatalf("select: %v", err)
	}
	v.Wait()

	it, ok := v.State().(ItineraryState)
	if !ok {
		t.Fatalf("expected itinerary step, got %T", v.State())
	}
	if it.Loading || it.Plan != nil || it.Selected.Destination != "Whistler, Canada" {
		t.Fatalf("unexpected state %+v", it)
	}
	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 1 {
		t.Fatalf("expected one error log, got %d", n)
	}

	page := Render(it, PlanLayoutLines)
	if len(page.Itinerary.Paragraphs) != 0 || len(page.Itinerary.Images) != 0 {
		t.Fatalf("plan should render empty, got %+v", page.Itinerary)
	}
}

func TestCloseDropsLateResult(t *testing.T) {
	backend := &stubBackend{suggestions: threeSuggestions(), gate: make(chan struct{})}
	v := newTestView(backend, zap.NewNop())

	if _, err := v.SubmitQuery(validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	v.Close()
	close(backend.gate)
	v.Wait()

	s, ok := v.State().(SuggestionsState)
	if !ok {
		t.Fatalf("expected suggestions step, got %T", v.State())
	}
	if !s.Loading || len(s.Suggestions) != 0 {
		t.Fatalf("late result should be dropped, got %+v", s)
	}
	if _, err := v.SubmitQuery(validForm()); !errors.Is(err, utils.ErrViewClosed) {
		t.Fatalf("expected ErrViewClosed, got %v", err)
	}
	if err := v.SelectDestination(0); !errors.Is(err, utils.ErrViewClosed) {
		t.Fatalf("expected ErrViewClosed, got %v", err)
	}
}

func TestSubmitTwiceIsRejected(t *testing.T) {
	v := suggestionsReady(t, &stubBackend{suggestions: threeSuggestions()})
	defer v.Close()

	if _, err := v.SubmitQuery(validForm()); !errors.Is(err, utils.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

type blockingHistory struct {
	entered     chan struct{}
	enteredOnce sync.Once
	release     chan struct{}

	mu         sync.Mutex
	searchID   uuid.UUID
	selections map[uuid.UUID]string
}

func newBlockingHistory() *blockingHistory {
	return &blockingHistory{
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
		selections: map[uuid.UUID]string{},
	}
}

func (h *blockingHistory) RecordSearch(ctx context.Context, searchID uuid.UUID, sessionID string, query request_models.TripQuery, suggestionCount int) error {
	h.enteredOnce.Do(func() { close(h.entered) })
	select {
	case <-h.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	h.mu.Lock()
	h.searchID = searchID
	h.mu.Unlock()
	return nil
}

func (h *blockingHistory) RecordSelection(ctx context.Context, searchID uuid.UUID, destination string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selections[searchID] = destination
	return nil
}

func (h *blockingHistory) ListRecentSearches(ctx context.Context, sessionID string, page int, pageSize int) ([]response_models.TripSearchResponse, error) {
	return nil, nil
}

func (h *blockingHistory) selectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.selections)
}

func waitForState(t *testing.T, v *PlannerView, done func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := v.State(); done(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state never settled, last %+v", v.State())
	return nil
}

func TestSlowHistoryDoesNotHoldBackThePlanner(t *testing.T) {
	backend := &stubBackend{
		suggestions: threeSuggestions(),
		plan:        &response_models.DailyPlanPayload{DailyPlan: "Day1\nactivity", Images: []*string{str("url1")}},
	}
	history := newBlockingHistory()
	v := NewFactory(Dependencies{
		Validator:   services.NewTripValidator(time.UTC, fixedNow),
		Suggestions: services.NewSuggestionService(backend, services.NewMockPricingProvider(), zap.NewNop()),
		Itinerary:   services.NewItineraryService(backend),
		History:     history,
		Logger:      zap.NewNop(),
	}).New("session-slow-db")
	defer v.Close()

	if _, err := v.SubmitQuery(validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case <-history.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("search was never recorded")
	}

	s, ok := v.State().(SuggestionsState)
	if !ok || s.Loading || len(s.Suggestions) != 3 {
		t.Fatalf("suggestions should be shown while history is pending, got %+v", v.State())
	}

	if err := v.SelectDestination(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	waitForState(t, v, func(s State) bool {
		it, ok := s.(ItineraryState)
		return ok && !it.Loading && it.Plan != nil
	})
	if n := history.selectionCount(); n != 0 {
		t.Fatalf("selection recorded before its search row, got %d", n)
	}

	close(history.release)
	v.Wait()

	history.mu.Lock()
	defer history.mu.Unlock()
	if history.searchID != s.SearchID || history.selections[s.SearchID] != "Zermatt, Switzerland" {
		t.Fatalf("selection not tied to search %s: %v", s.SearchID, history.selections)
	}
}
