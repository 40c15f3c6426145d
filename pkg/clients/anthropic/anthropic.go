package anthropic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIURL = "https://api.anthropic.com/v1/messages"
	apiVersion    = "2023-06-01"
	model         = "claude-3-haiku-20240307"
	maxTokens     = 32
)

// ErrNoReading is returned when the model finds no liters figure in the text.
var ErrNoReading = errors.New("no tank reading in text")

const systemPrompt = `You read OCR output of fuel tank dip charts and gauge displays at a petrol station.
Reply with the tank volume in liters as a plain decimal number, without units, separators or any other text.
If the text does not contain a volume, reply with NONE.`

// Client extracts numeric tank readings from noisy OCR text.
type Client interface {
	ExtractLiters(ctx context.Context, text string) (float64, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	apiURL     string
}

// Option customises the client.
type Option func(*anthropicClient)

// WithAPIURL points the client at another messages endpoint.
func WithAPIURL(url string) Option {
	return func(c *anthropicClient) { c.apiURL = url }
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string, opts ...Option) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	c := &anthropicClient{httpClient: client, apiURL: defaultAPIURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *anthropicClient) ExtractLiters(ctx context.Context, text string) (float64, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  []Message{{Role: "user", Content: text}},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.apiURL)
	if err != nil {
		return 0, fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return 0, fmt.Errorf("empty response from ai")
	}

	return ParseLiters(respBody.Content[0].Text)
}

var numberPattern = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// ParseLiters reads the first number of a model reply.
func ParseLiters(reply string) (float64, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" || strings.EqualFold(reply, "none") {
		return 0, ErrNoReading
	}

	match := numberPattern.FindString(reply)
	if match == "" {
		return 0, fmt.Errorf("%w: %q", ErrNoReading, reply)
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoReading, reply)
	}
	return v, nil
}
