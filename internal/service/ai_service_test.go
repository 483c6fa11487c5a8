package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taqyim_backend/internal/config"
	"taqyim_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, reply string, captured *chatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(chatCompletionResponse{
				Choices: []struct {
					Message aiChatMessage `json:"message"`
				}{
					{Message: aiChatMessage{Role: "assistant", Content: "  " + reply + "\n"}},
				},
			})
		} else {
			w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
		}
	}))
}

func aiTestConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "sk-test",
		Model:          "gpt-4o-mini",
		RequestTimeout: 5 * time.Second,
	}
}

func gradedNarrativeInput() NarrativeInput {
	return NarrativeInput{
		AssessmentTitle: "Go Fundamentals",
		Language:        model.LanguageEnglish,
		Summary: model.ScoreSummary{
			Kind: model.SummaryKindGraded,
			Graded: &model.GradedSummary{
				TotalScore: 8, TotalPossible: 10, CorrectCount: 8, Percentage: 80, Grade: "B",
			},
		},
	}
}

func TestNarrativeSuccess(t *testing.T) {
	var captured chatCompletionRequest
	srv := chatServer(t, http.StatusOK, "Strong performance overall.", &captured)
	defer srv.Close()

	svc := NewAIService(aiTestConfig(srv.URL))
	text, err := svc.Narrative(context.Background(), gradedNarrativeInput())
	require.NoError(t, err)
	assert.Equal(t, "Strong performance overall.", text, "response must be trimmed")

	assert.Equal(t, "gpt-4o-mini", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Contains(t, captured.Messages[1].Content, "80%")
	assert.Contains(t, captured.Messages[1].Content, "grade B")
}

func TestNarrativeArabicPrompt(t *testing.T) {
	var captured chatCompletionRequest
	srv := chatServer(t, http.StatusOK, "ok", &captured)
	defer srv.Close()

	input := gradedNarrativeInput()
	input.Language = model.LanguageArabic

	svc := NewAIService(aiTestConfig(srv.URL))
	_, err := svc.Narrative(context.Background(), input)
	require.NoError(t, err)
	assert.Contains(t, captured.Messages[0].Content, "Arabic")
}

func TestNarrativeTraitPrompt(t *testing.T) {
	var captured chatCompletionRequest
	srv := chatServer(t, http.StatusOK, "ok", &captured)
	defer srv.Close()

	input := NarrativeInput{
		AssessmentTitle: "Work Style Profile",
		Language:        model.LanguageEnglish,
		Summary: model.ScoreSummary{
			Kind:   model.SummaryKindTrait,
			Traits: map[string]float64{"teamwork": 4.25},
		},
	}

	svc := NewAIService(aiTestConfig(srv.URL))
	_, err := svc.Narrative(context.Background(), input)
	require.NoError(t, err)
	assert.Contains(t, captured.Messages[1].Content, "teamwork: 4.25")
}

func TestNarrativeAPIError(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, "", nil)
	defer srv.Close()

	svc := NewAIService(aiTestConfig(srv.URL))
	_, err := svc.Narrative(context.Background(), gradedNarrativeInput())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "429"))
}

func TestNarrativeRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	svc := NewAIService(aiTestConfig(srv.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Narrative(ctx, gradedNarrativeInput())
	assert.Error(t, err)
}

func TestUpdateConfigSwapsEndpoint(t *testing.T) {
	srvA := chatServer(t, http.StatusOK, "from A", nil)
	defer srvA.Close()
	srvB := chatServer(t, http.StatusOK, "from B", nil)
	defer srvB.Close()

	svc := NewAIService(aiTestConfig(srvA.URL))
	text, err := svc.Narrative(context.Background(), gradedNarrativeInput())
	require.NoError(t, err)
	assert.Equal(t, "from A", text)

	svc.UpdateConfig(aiTestConfig(srvB.URL))
	text, err = svc.Narrative(context.Background(), gradedNarrativeInput())
	require.NoError(t, err)
	assert.Equal(t, "from B", text)
}
