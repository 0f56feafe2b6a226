package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "scholarship-engine/internal/common/errors"
	commonhttp "scholarship-engine/internal/common/http"
	"scholarship-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestDirective() Directive {
	entry := models.StrategyEntry{
		ClusterID:   2,
		ClusterName: "Community Service",
		WritingStrategy: models.WritingStrategy{
			BroadInstructions:  "Focus on sustained service.",
			StructuralTemplate: "1. Hook\n2. Need\n3. Commitment",
		},
	}
	profile := &models.Profile{
		Name:            "Lena Okafor",
		DegreeLevel:     models.DegreeHighSchool,
		FieldOfStudy:    models.StringPtr("Public Health"),
		Activities:      "Run a weekly food pantry at my church.",
		BackgroundStory: "My family moved from Lagos when I was nine.",
		CareerGoals:     "Become an epidemiologist focused on food insecurity.",
		Challenges:      models.StringPtr("  "),
	}
	d := NewDirective(entry, "Hometown Heroes Award", "  For students who serve their neighbourhood.  ", profile)
	d.MaxTokens = 900
	d.Temperature = 0.5
	return d
}

const essayText = "The pantry door opened at six.\n\nBy nine, the line reached the corner."

// ==========================
// Directive and Prompt Tests
// ==========================

func TestNewDirective(t *testing.T) {
	d := createTestDirective()

	assert.Equal(t, "For students who serve their neighbourhood.", d.ScholarshipText)
	assert.Equal(t, "Focus on sustained service.", d.BroadInstructions)
	assert.Equal(t, "high school", d.DegreeLevel)
	assert.Equal(t, "Public Health", d.FieldOfStudy)
	assert.Empty(t, d.Challenges, "blank challenges are dropped")
}

func TestRenderPrompt(t *testing.T) {
	prompt := RenderPrompt(createTestDirective())

	for _, want := range []string{
		"SCHOLARSHIP NAME:\nHometown Heroes Award",
		"SCHOLARSHIP DESCRIPTION:\nFor students who serve their neighbourhood.",
		"- Activities: Run a weekly food pantry at my church.",
		"STRUCTURAL TEMPLATE (YOU MUST FOLLOW THIS STRUCTURE):\n1. Hook\n2. Need\n3. Commitment",
		"1. Write in the first person",
		"Aim for 500-650 words.",
		"Do not include a title",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "- Challenges:")
}

// ==========================
// OpenAI Adapter Tests
// ==========================

func chatServer(t *testing.T, failures int32, hits *atomic.Int32) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		assert.Equal(t, "/chat/completions", r.URL.Path)

		if n <= failures {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
			return
		}

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])
		assert.EqualValues(t, 900, req["max_tokens"])
		messages := req["messages"].([]interface{})
		assert.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]interface{}{"role": "assistant", "content": "  " + essayText + "\n"}, "finish_reason": "stop"},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIGenerator(t *testing.T) {
	t.Run("success after retry", func(t *testing.T) {
		var hits atomic.Int32
		server := chatServer(t, 1, &hits)

		g, err := NewOpenAIGenerator(OpenAIConfig{APIKey: "k", BaseURL: server.URL, MaxRetries: 2, RetryDelay: time.Millisecond})
		require.NoError(t, err)

		text, err := g.Generate(context.Background(), createTestDirective())
		require.NoError(t, err)
		assert.Equal(t, essayText, text)
		assert.EqualValues(t, 2, hits.Load())
		assert.Equal(t, "openai", g.Name())
	})

	t.Run("retries exhausted", func(t *testing.T) {
		var hits atomic.Int32
		server := chatServer(t, 10, &hits)

		g, err := NewOpenAIGenerator(OpenAIConfig{APIKey: "k", BaseURL: server.URL, MaxRetries: 1, RetryDelay: time.Millisecond})
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), createTestDirective())
		assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed))
		assert.EqualValues(t, 2, hits.Load())
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
		}))
		defer server.Close()

		g, err := NewOpenAIGenerator(OpenAIConfig{APIKey: "k", BaseURL: server.URL, MaxRetries: 2, RetryDelay: time.Millisecond})
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), createTestDirective())
		assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed))
		assert.EqualValues(t, 1, hits.Load())
	})

	t.Run("requires api key", func(t *testing.T) {
		_, err := NewOpenAIGenerator(OpenAIConfig{})
		assert.Error(t, err)
	})
}

// ==========================
// GenAI Adapter Tests
// ==========================

func TestGenAIGenerator(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/ai/generate", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Contains(t, body["prompt"], "Hometown Heroes Award")
			assert.EqualValues(t, 0.5, body["temperature"])

			_ = json.NewEncoder(w).Encode(map[string]interface{}{"text": essayText})
		}))
		defer server.Close()

		g, err := NewGenAIGenerator(GenAIConfig{BaseURL: server.URL + "/", APIKey: "secret"})
		require.NoError(t, err)

		text, err := g.Generate(context.Background(), createTestDirective())
		require.NoError(t, err)
		assert.Equal(t, essayText, text)
	})

	t.Run("retries then fails", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		g, err := NewGenAIGenerator(GenAIConfig{BaseURL: server.URL, MaxRetries: 2, RetryDelay: time.Millisecond})
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), createTestDirective())
		assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed))
		assert.EqualValues(t, 3, hits.Load())
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		g, err := NewGenAIGenerator(GenAIConfig{BaseURL: server.URL, MaxRetries: 2, RetryDelay: time.Millisecond})
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), createTestDirective())
		assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed))
		assert.EqualValues(t, 1, hits.Load())

		var statusErr *commonhttp.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	})

	t.Run("deadline is returned as is", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		g, err := NewGenAIGenerator(GenAIConfig{BaseURL: server.URL})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = g.Generate(ctx, createTestDirective())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("requires base url", func(t *testing.T) {
		_, err := NewGenAIGenerator(GenAIConfig{})
		assert.Error(t, err)
	})
}
