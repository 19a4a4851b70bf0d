package presentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/BerylCAtieno/ai-stack-agent/internal/apierr"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

type fakeFetcher struct {
	result *models.StackResult
	err    error
	calls  int
}

func (f *fakeFetcher) GetStack(_ context.Context, _ string) (*models.StackResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeSpinner struct{ events []string }

func (s *fakeSpinner) Start() { s.events = append(s.events, "start") }
func (s *fakeSpinner) Stop()  { s.events = append(s.events, "stop") }

func sampleResult() *models.StackResult {
	link := "https://zapier.com"
	return &models.StackResult{
		Stack: &models.AiStack{
			Title:              "Stack de Automação",
			Description:        "Ferramentas para ganhar tempo.",
			OverallAnalysis:    "Sua equipe pequena pode automatizar o atendimento.",
			ImplementationTips: []string{"Comece pelo Zapier", "Documente os fluxos"},
			EstimatedSavings:   "10h/semana",
		},
		Recommendations: []models.AiRecommendation{
			{ToolName: "Notion AI", Priority: 3, Category: "Docs", AutomationLevel: "Baixo"},
			{ToolName: "Zapier", Priority: 1, Category: "Automação", AutomationLevel: "Alto", Link: &link, Features: []string{"Zaps multi-etapas"}},
			{ToolName: "ChatGPT", Priority: 2, Category: "Conteúdo", AutomationLevel: "Médio", Description: "Gera rascunhos de posts e respostas para clientes em segundos."},
		},
	}
}

func TestLoadStates(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id", func(t *testing.T) {
		f := &fakeFetcher{}
		v := Load(ctx, f, "  ", nil)
		assert.Equal(t, StateMissingID, v.State)
		assert.Zero(t, f.calls)
	})

	t.Run("not found", func(t *testing.T) {
		v := Load(ctx, &fakeFetcher{err: apierr.NotFound("Stack")}, "abc", nil)
		assert.Equal(t, StateNotFound, v.State)
	})

	t.Run("error", func(t *testing.T) {
		v := Load(ctx, &fakeFetcher{err: errors.New("connection refused")}, "abc", nil)
		assert.Equal(t, StateError, v.State)
		assert.EqualError(t, v.Err, "connection refused")
	})

	t.Run("success sorts and spins", func(t *testing.T) {
		spin := &fakeSpinner{}
		v := Load(ctx, &fakeFetcher{result: sampleResult()}, "abc", spin)
		require.Equal(t, StateSuccess, v.State)
		assert.Equal(t, []string{"start", "stop"}, spin.events)

		var names []string
		for _, r := range v.Result.Recommendations {
			names = append(names, r.ToolName)
		}
		assert.Equal(t, []string{"Zapier", "ChatGPT", "Notion AI"}, names)
	})
}

func TestRenderHuman(t *testing.T) {
	v := Load(context.Background(), &fakeFetcher{result: sampleResult()}, "abc", nil)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, v, FormatHuman))
	out := buf.String()

	assert.Contains(t, out, "🚀 Stack de Automação")
	assert.Contains(t, out, "1. Comece pelo Zapier")
	assert.Contains(t, out, "Economia estimada: 10h/semana")

	// first row holds priorities 1 and 2 side by side
	var row string
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "#1 Zapier") {
			row = l
		}
	}
	require.NotEmpty(t, row)
	assert.Contains(t, row, "#2 ChatGPT")
	assert.Less(t, strings.Index(out, "#2 ChatGPT"), strings.Index(out, "#3 Notion AI"))
}

func TestRenderStructured(t *testing.T) {
	v := Load(context.Background(), &fakeFetcher{result: sampleResult()}, "abc", nil)

	var js bytes.Buffer
	require.NoError(t, Render(&js, v, FormatJSON))
	var decoded models.StackResult
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "Zapier", decoded.Recommendations[0].ToolName)

	var ym bytes.Buffer
	require.NoError(t, Render(&ym, v, FormatYAML))
	var generic map[string]any
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &generic))
	assert.Contains(t, generic, "stack")
	assert.Contains(t, ym.String(), "toolName: Zapier")

	assert.Error(t, Render(&bytes.Buffer{}, v, "xml"))
}

func TestRenderNonSuccessStates(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, View{State: StateMissingID}, FormatHuman))
	assert.ErrorContains(t, Render(&bytes.Buffer{}, View{State: StateNotFound, ProfileID: "p1"}, FormatHuman), "p1")
	assert.Error(t, Render(&bytes.Buffer{}, View{State: StateError, Err: errors.New("x")}, FormatJSON))
}

func TestAutomationColor(t *testing.T) {
	assert.True(t, AutomationColor("alto").Equals(color.New(color.FgGreen, color.Bold)))
	assert.True(t, AutomationColor("Medio").Equals(color.New(color.FgYellow, color.Bold)))
	assert.True(t, AutomationColor("Baixo").Equals(color.New(color.FgHiBlack)))
}

func TestWrapText(t *testing.T) {
	got := wrapText("um dois três quatro cinco", 10, "")
	for _, l := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len([]rune(l)), 10)
	}
	assert.Equal(t, "um dois três quatro cinco", strings.Join(strings.Fields(got), " "))
	assert.Equal(t, "abcdefghi…", truncate("abcdefghijkl", 10))
}

func TestNarration(t *testing.T) {
	got := Narration(sampleResult())
	assert.Equal(t,
		"Stack de Automação. Ferramentas para ganhar tempo. Análise: Sua equipe pequena pode automatizar o atendimento. "+
			"Suas recomendações incluem: Zapier, ChatGPT, Notion AI. Economia estimada: 10h/semana.",
		got)
	assert.Empty(t, Narration(nil))

	r := sampleResult()
	r.Stack.Title = "Pronto!"
	r.Stack.EstimatedSavings = "10h/semana. "
	got = Narration(r)
	assert.True(t, strings.HasPrefix(got, "Pronto. Ferramentas"), got)
	assert.True(t, strings.HasSuffix(got, "Economia estimada: 10h/semana."), got)
	assert.NotContains(t, got, "..")
}

func TestSpeakerWithoutEngineIsSilent(t *testing.T) {
	s := &Speaker{log: logger.NewNop()}
	assert.False(t, s.Available())
	require.NoError(t, s.Speak(context.Background(), "olá"))
	assert.False(t, s.Speaking())
	s.Stop()
	s.Wait()
}

func TestSpeakerStop(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	s := &Speaker{
		engine: &speechEngine{bin: "sleep", args: func(string) []string { return []string{"30"} }},
		log:    logger.NewNop(),
	}

	require.NoError(t, s.Speak(context.Background(), "texto longo"))
	assert.True(t, s.Speaking())
	s.Stop()
	assert.False(t, s.Speaking())
}

func TestSpeakerFinishes(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	s := &Speaker{
		engine: &speechEngine{bin: "true", args: func(text string) []string { return []string{text} }},
		log:    logger.NewNop(),
	}

	require.NoError(t, s.Speak(context.Background(), "oi"))
	s.Wait()
	assert.False(t, s.Speaking())
}
