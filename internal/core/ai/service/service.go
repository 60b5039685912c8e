package service

import (
	"context"
	"strings"
	"time"

	gemini "dish-finder/internal/core/service"
	"dish-finder/internal/infrastructure/config"
	"dish-finder/internal/pkg/common"
)

// Response AI 回應結構
// 這裡用最簡單的 string 代表 AI 回應內容
type Response struct {
	Content string
}

// Service AI 服務。
// 請求級別的限流交給 API middleware 處理；管線內部會對同一個請求
// 併發發出多個模型調用，這裡不能再串行化。
type Service struct {
	config *config.Config
	gemini *gemini.GeminiService
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config) (*Service, error) {
	return &Service{
		config: cfg,
		gemini: gemini.NewGeminiService(cfg),
	}, nil
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	// 統一 prompt 格式，去除前後空白
	prompt = strings.TrimSpace(prompt)

	start := time.Now()
	content, err := s.gemini.GenerateResponse(ctx, prompt)
	common.LogAICall(prompt, time.Since(start), err, "")
	if err != nil {
		return nil, err
	}

	return &Response{Content: content}, nil
}

// GenerateText 實現 dish.TextGenerator 介面
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := s.ProcessRequest(ctx, prompt)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
