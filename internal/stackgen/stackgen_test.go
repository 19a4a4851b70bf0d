package stackgen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/config"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	out    string
	err    error
	prompt string
}

func (s *stubModel) Name() string { return "stub" }

func (s *stubModel) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.out, s.err
}

func sampleProfile() *models.BusinessProfile {
	return &models.BusinessProfile{
		BusinessType: "saas",
		TeamSize:     "small",
		Objective:    "leads",
		CurrentTools: []string{"Notion", "Slack"},
		AIKnowledge:  "intermediario",
	}
}

const validStack = `{
  "title": "Stack SaaS",
  "description": "d",
  "overallAnalysis": "a",
  "implementationTips": ["t1"],
  "estimatedSavings": "10h",
  "recommendations": [
    {"toolName": "A", "category": "c", "useCase": "u", "automationLevel": "medio", "description": "x", "features": ["f"]},
    {"toolName": "B", "category": "c", "useCase": "u", "automationLevel": "Alto", "description": "y", "link": "https://b.io", "features": []}
  ]
}`

func TestBuildPromptIsDeterministic(t *testing.T) {
	p := sampleProfile()
	first := BuildPrompt(p)
	assert.Equal(t, first, BuildPrompt(p))
	assert.Contains(t, first, "- Tipo: saas")
	assert.Contains(t, first, "- Ferramentas atuais: Notion, Slack")
	assert.Contains(t, first, "- Outras ferramentas: Não especificado")
}

func TestBuildPromptWithoutTools(t *testing.T) {
	p := sampleProfile()
	p.CurrentTools = nil
	p.OtherTools = "Planilhas"

	prompt := BuildPrompt(p)
	assert.Contains(t, prompt, "- Ferramentas atuais: Nenhuma")
	assert.Contains(t, prompt, "- Outras ferramentas: Planilhas")
}

func TestParseStackAcceptsFencedJSON(t *testing.T) {
	stack, err := ParseStack("```json\n" + validStack + "\n```")
	require.NoError(t, err)

	assert.Equal(t, "Stack SaaS", stack.Title)
	require.Len(t, stack.Recommendations, 2)
	assert.Equal(t, models.AutomationMedium, stack.Recommendations[0].AutomationLevel)
	assert.Equal(t, "B", stack.Recommendations[1].ToolName)
}

func TestParseStackRejections(t *testing.T) {
	cases := map[string]string{
		"empty object":        `{}`,
		"missing title":       `{"recommendations": []}`,
		"blank title":         `{"title": " ", "recommendations": []}`,
		"title not a string":  `{"title": 3, "recommendations": []}`,
		"missing list":        `{"title": "x"}`,
		"list is an object":   `{"title": "x", "recommendations": {}}`,
		"list is null":        `{"title": "x", "recommendations": null}`,
		"missing description": `{"title": "x", "recommendations": [{"toolName": "X"}]}`,
		"blank description":   `{"title": "x", "description": "  ", "recommendations": []}`,
		"not json":            `Desculpe, não consigo.`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseStack(raw)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestParseStackAcceptsEmptyList(t *testing.T) {
	stack, err := ParseStack(`{"title": "x", "description": "d", "recommendations": []}`)
	require.NoError(t, err)
	assert.Empty(t, stack.Recommendations)
}

func TestParseStackDecodesLooseFields(t *testing.T) {
	stack, err := ParseStack(`{
  "title": "x",
  "description": "d",
  "overallAnalysis": ["parte 1", "parte 2"],
  "implementationTips": "comece pelo CRM",
  "estimatedSavings": 12,
  "recommendations": [
    {"toolName": "A", "automationLevel": "alto", "features": "a, b"},
    {"toolName": "B", "features": ["f1", "", 2, null]}
  ]
}`)
	require.NoError(t, err)

	assert.Equal(t, "parte 1 parte 2", stack.OverallAnalysis)
	assert.Equal(t, []string{"comece pelo CRM"}, stack.ImplementationTips)
	assert.Equal(t, "12", stack.EstimatedSavings)
	require.Len(t, stack.Recommendations, 2)
	assert.Equal(t, models.AutomationHigh, stack.Recommendations[0].AutomationLevel)
	assert.Equal(t, []string{"a, b"}, stack.Recommendations[0].Features)
	assert.Equal(t, []string{"f1", "2"}, stack.Recommendations[1].Features)
	assert.Empty(t, stack.Recommendations[1].Category)
}

func TestGeneratorWrapsModelErrors(t *testing.T) {
	g := New(&stubModel{err: errors.New("quota exceeded")}, logger.NewNop())

	_, err := g.Generate(context.Background(), sampleProfile())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGeneratorSendsPrompt(t *testing.T) {
	m := &stubModel{out: validStack}
	g := New(m, logger.NewNop())

	stack, err := g.Generate(context.Background(), sampleProfile())
	require.NoError(t, err)
	assert.Len(t, stack.Recommendations, 2)
	assert.Equal(t, BuildPrompt(sampleProfile()), m.prompt)
}

func TestOpenAIClientComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"ok\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL+"/", "", 5*time.Second)
	out, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, `{"title":"ok"}`, out)
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	assert.Equal(t, 2000, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, SystemInstruction, got.Messages[0].Content)
	assert.Equal(t, "hello", got.Messages[1].Content)
}

func TestOpenAIClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewOpenAIClient("sk", srv.URL, "gpt-4o", time.Second).Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestNewModelRequiresKey(t *testing.T) {
	_, _, err := NewModel(context.Background(), config.GenerationConfig{Provider: ProviderOpenAI})
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	_, _, err = NewModel(context.Background(), config.GenerationConfig{Provider: "llama"})
	assert.ErrorContains(t, err, "unsupported")
}

func TestNewModelOpenAI(t *testing.T) {
	m, closeFn, err := NewModel(context.Background(), config.GenerationConfig{
		Provider:     ProviderOpenAI,
		OpenAIAPIKey: "sk",
		OpenAIModel:  "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", m.Name())
	assert.NoError(t, closeFn())
}
