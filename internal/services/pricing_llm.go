package services

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
	"strings"
	"time"
	"tripplanner/pkg/utils"
)

// LLMCompleter returns a JSON document for a prompt.
type LLMCompleter interface {
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}

type OpenAICompleter struct {
	client *openai.Client
	model  string
}

func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompleter{client: openai.NewClient(apiKey), model: model}
}

func (c *OpenAICompleter) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a travel pricing analyst. Answer with JSON only."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type GeminiCompleter struct {
	client *genai.Client
	model  string
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

func (c *GeminiCompleter) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.1)
	m.SetTopP(0.5)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (c *GeminiCompleter) Close() error {
	return c.client.Close()
}

// LLMPricingProvider asks a language model for price estimates. It is a
// fallback for when no pricing API key is available.
type LLMPricingProvider struct {
	completer        LLMCompleter
	departureAirport string
	timeout          time.Duration
}

func NewLLMPricingProvider(completer LLMCompleter, departureAirport string) *LLMPricingProvider {
	return &LLMPricingProvider{
		completer:        completer,
		departureAirport: departureAirport,
		timeout:          30 * time.Second,
	}
}

type llmPriceOptions struct {
	Options []struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"options"`
}

func (p *LLMPricingProvider) CheapestFlight(ctx context.Context, destination string, start, end time.Time) (*FlightQuote, error) {
	prompt := fmt.Sprintf(`Estimate round-trip economy airfares in USD from airport %s to %s, departing %s and returning %s.
Return JSON exactly as {"options":[{"name":"airline","price":123}]} with 3 to 5 options. No prose.`,
		p.departureAirport, destination, utils.FormatDate(start), utils.FormatDate(end))

	parsed, err := p.ask(ctx, prompt)
	if err != nil {
		return nil, err
	}
	options := make([]FlightQuote, 0, len(parsed.Options))
	for _, o := range parsed.Options {
		options = append(options, FlightQuote{Destination: destination, Price: o.Price})
	}
	return pickCheapestFlight(options)
}

func (p *LLMPricingProvider) MostExpensiveHotel(ctx context.Context, destination string, maxPrice float64, start, end time.Time) (*HotelQuote, error) {
	if maxPrice <= 0 {
		return nil, utils.ErrNoAffordableHotel
	}
	prompt := fmt.Sprintf(`Estimate the total stay price in USD for hotels in %s, checking in %s and checking out %s.
Cover budget to luxury. Return JSON exactly as {"options":[{"name":"hotel name","price":123}]} with 5 options. No prose.`,
		destination, utils.FormatDate(start), utils.FormatDate(end))

	parsed, err := p.ask(ctx, prompt)
	if err != nil {
		return nil, err
	}
	options := make([]HotelQuote, 0, len(parsed.Options))
	for _, o := range parsed.Options {
		options = append(options, HotelQuote{Name: o.Name, Price: o.Price})
	}
	return pickMostExpensiveHotel(options, maxPrice)
}

func (p *LLMPricingProvider) ask(ctx context.Context, prompt string) (*llmPriceOptions, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.completer.CompleteJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed llmPriceOptions
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnexpectedAIPricing, err)
	}
	return &parsed, nil
}

// extractJSONObject strips markdown fences and prose around the first
// balanced JSON object.
func extractJSONObject(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	if start == -1 {
		return response
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		ch := response[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response[start:]
}
