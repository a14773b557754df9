package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// HTTPService posts prompts to an Anthropic-compatible messages endpoint.
type HTTPService struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	client    *resty.Client
}

// NewHTTPService creates a messages API client. Retries are left at resty's
// default of zero; a failed call is final.
func NewHTTPService(baseURL, apiKey, model string, maxTokens int) *HTTPService {
	return &HTTPService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		client:    resty.New(),
	}
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (s *HTTPService) Query(ctx context.Context, prompt string) (Response, error) {
	request := map[string]interface{}{
		"model":      s.model,
		"max_tokens": s.maxTokens,
		"messages":   []map[string]string{{"role": "user", "content": prompt}},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", s.apiKey).
		SetHeader("anthropic-version", "2023-06-01").
		SetBody(request).
		Post(s.baseURL + "/messages")
	if err != nil {
		return Response{}, fmt.Errorf("failed to call messages API: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return Response{
			ReturnCode: resp.StatusCode(),
			Error:      strings.TrimSpace(resp.String()),
		}, nil
	}

	var result messagesResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return Response{}, fmt.Errorf("failed to decode messages response: %w", err)
	}

	for _, block := range result.Content {
		if block.Type == "" || block.Type == "text" {
			return Response{Output: block.Text}, nil
		}
	}

	return Response{ReturnCode: 1, Error: "messages API returned no text content"}, nil
}
