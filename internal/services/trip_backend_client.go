package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/pkg/utils"
)

const (
	suggestionsPath = "/get-travel-suggestions/"
	dailyPlanPath   = "/generate-daily-plan/"
)

// TripBackendClient talks to the remote planning backend.
type TripBackendClient interface {
	GetTravelSuggestions(ctx context.Context, req request_models.SuggestionRequest) ([]response_models.SuggestionPayload, error)
	GenerateDailyPlan(ctx context.Context, req request_models.DailyPlanRequest) (*response_models.DailyPlanPayload, error)
}

type HTTPTripBackendClient struct {
	HTTP    *http.Client
	BaseURL string
}

func NewHTTPTripBackendClient(baseURL string, timeout time.Duration) *HTTPTripBackendClient {
	return &HTTPTripBackendClient{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *HTTPTripBackendClient) GetTravelSuggestions(ctx context.Context, req request_models.SuggestionRequest) ([]response_models.SuggestionPayload, error) {
	var out []response_models.SuggestionPayload
	if err := c.postJSON(ctx, suggestionsPath, req, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []response_models.SuggestionPayload{}
	}
	return out, nil
}

func (c *HTTPTripBackendClient) GenerateDailyPlan(ctx context.Context, req request_models.DailyPlanRequest) (*response_models.DailyPlanPayload, error) {
	var out response_models.DailyPlanPayload
	if err := c.postJSON(ctx, dailyPlanPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPTripBackendClient) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrBackendUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s %s", utils.ErrBackendBadStatus, path, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrBackendMalformed, path, err)
	}
	return nil
}
