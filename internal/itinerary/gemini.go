// Package itinerary talks to the external text-generation service that
// writes trip itineraries.
package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"TRIPMATE_BACK-END/internal/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient generates itinerary text through the Gemini generateContent
// REST endpoint. The HTTP client carries the request timeout; callers also
// bound the call with a context deadline.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate builds the itinerary prompt from the trip and free-text
// preferences and returns the generated text.
func (c *GeminiClient) Generate(ctx context.Context, trip *models.Trip, preferences string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("itinerary: GEMINI_API_KEY not configured")
	}

	days := int(trip.EndDate.Sub(trip.StartDate).Hours()/24) + 1
	var b strings.Builder
	fmt.Fprintf(&b, "Create a day-by-day travel itinerary for a group trip to %s.\n", trip.Destination)
	fmt.Fprintf(&b, "Dates: %s to %s (%d days).\n",
		trip.StartDate.Format("2006-01-02"), trip.EndDate.Format("2006-01-02"), days)
	fmt.Fprintf(&b, "Budget: %d per person.\n", trip.BudgetPerPerson)
	fmt.Fprintf(&b, "Group: up to %d male and %d female travellers.\n", trip.MaleCapacity, trip.FemaleCapacity)
	if p := strings.TrimSpace(preferences); p != "" {
		fmt.Fprintf(&b, "Traveller preferences: %s\n", p)
	}
	b.WriteString("Keep it practical and within budget. Plain text, one section per day.")

	body, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: b.String()}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("itinerary: generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("itinerary: generation service returned %d: %s", resp.StatusCode, string(raw))
	}

	var out generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("itinerary: invalid generation response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("itinerary: generation service returned no content")
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return strings.TrimSpace(text.String()), nil
}
