package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"taqyim_backend/internal/config"
	"taqyim_backend/internal/model"
)

// AIService talks to an OpenAI-compatible chat-completions endpoint to
// produce the optional narrative attached to a completed session. Every
// failure here is recoverable: the caller treats a missing narrative as an
// acceptable outcome.
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// UpdateConfig swaps credentials and model settings at runtime (config
// hot-reload). In-flight requests keep the client they started with.
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{Timeout: cfg.RequestTimeout}
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

type aiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []aiChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message aiChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NarrativeInput carries everything the prompt needs about a finished
// session.
type NarrativeInput struct {
	AssessmentTitle string
	Language        string
	Summary         model.ScoreSummary
}

// Narrative asks for a short written report on the participant's result.
// The prompt differs by result mode, and Arabic assessments are answered
// entirely in Arabic.
func (s *AIService) Narrative(ctx context.Context, input NarrativeInput) (string, error) {
	cfg, client := s.snapshot()

	messages := []aiChatMessage{
		{Role: "system", Content: systemPromptFor(input)},
		{Role: "user", Content: userPromptFor(input)},
	}

	reqBody := chatCompletionRequest{
		Model:    cfg.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 && result.Choices[0].Message.Content != "" {
		return strings.TrimSpace(result.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

func systemPromptFor(input NarrativeInput) string {
	base := "You are an HR assessment specialist writing a short, professional feedback report for an employee who just completed an assessment. Keep it to three short paragraphs. Do not mention that you are an AI."
	if input.Language == model.LanguageArabic {
		base += " Answer entirely in Arabic."
	}
	return base
}

func userPromptFor(input NarrativeInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assessment: %s\n", input.AssessmentTitle)

	if input.Summary.Kind == model.SummaryKindGraded && input.Summary.Graded != nil {
		g := input.Summary.Graded
		fmt.Fprintf(&b, "Result: %d of %d correct (%d%%, grade %s).\n",
			g.CorrectCount, g.TotalPossible, g.Percentage, g.Grade)
		b.WriteString("Write a report covering overall performance, apparent strengths, and concrete areas for improvement.")
		return b.String()
	}

	b.WriteString("Trait averages on a 1-5 scale:\n")
	for trait, avg := range input.Summary.Traits {
		fmt.Fprintf(&b, "- %s: %.2f\n", trait, avg)
	}
	b.WriteString("Write a report describing the personality/work-style profile, its strengths, and how it is likely to show up in the workplace.")
	return b.String()
}
