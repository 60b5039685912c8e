package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dish-finder/internal/infrastructure/config"
	"dish-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// GeminiService Gemini 生成服務
type GeminiService struct {
	config *config.Config
	client *resty.Client
}

// NewGeminiService 創建 Gemini 服務
func NewGeminiService(cfg *config.Config) *GeminiService {
	client := resty.New().
		SetBaseURL("https://generativelanguage.googleapis.com/v1beta").
		SetTimeout(cfg.Gemini.Timeout).
		SetHeader("Content-Type", "application/json")

	return &GeminiService{
		config: cfg,
		client: client,
	}
}

// generateContentRequest Gemini generateContent 請求結構
type generateContentRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

// GenerateResponse 生成回應
func (s *GeminiService) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if s.config.Gemini.APIKey == "" {
		return "", common.ErrMissingGeminiKey
	}

	req := generateContentRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			MaxOutputTokens: s.config.Gemini.MaxTokens,
			Temperature:     s.config.Gemini.Temperature,
		},
	}

	// 發送請求
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.config.Gemini.APIKey).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", s.config.Gemini.Model))

	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Gemini API returned error: %s", resp.String())
	}

	// 解析回應
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
